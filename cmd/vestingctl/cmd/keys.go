package cmd

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spec-kit/vesting-service/internal/auth"
	"github.com/spec-kit/vesting-service/internal/domain"
)

type keyFile struct {
	Address   string `json:"address"`
	SecretKey string `json:"secret_key"`
}

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate an ed25519 signer key",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := viper.GetString("keyfile")
		force, _ := cmd.Flags().GetBool("force")
		if _, err := os.Stat(path); err == nil && !force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}

		_, key, err := ed25519.GenerateKey(rand.Reader)
		if err != nil {
			return err
		}
		data, err := json.MarshalIndent(keyFile{
			Address:   auth.AddressOf(key).String(),
			SecretKey: base58.Encode(key),
		}, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, data, 0o600); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "address: %s\nsaved to: %s\n", auth.AddressOf(key), path)
		return nil
	},
}

var signCmd = &cobra.Command{
	Use:   "sign <nonce>",
	Short: "Sign a login challenge nonce",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := loadKey(viper.GetString("keyfile"))
		if err != nil {
			return err
		}
		message := domain.Challenge{Nonce: args[0]}.LoginMessage()
		fmt.Fprintf(cmd.OutOrStdout(), "address:   %s\nsignature: %s\n", auth.AddressOf(key), auth.Sign(key, message))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(keygenCmd, signCmd)
	keygenCmd.Flags().Bool("force", false, "overwrite an existing key file")
}

func loadKey(path string) (ed25519.PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read key file: %w", err)
	}
	var kf keyFile
	if err := json.Unmarshal(data, &kf); err != nil {
		return nil, fmt.Errorf("parse key file: %w", err)
	}
	raw := base58.Decode(kf.SecretKey)
	if len(raw) != ed25519.PrivateKeySize {
		return nil, errors.New("key file holds no valid ed25519 secret key")
	}
	return ed25519.PrivateKey(raw), nil
}
