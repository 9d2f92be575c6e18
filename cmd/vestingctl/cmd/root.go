package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spec-kit/vesting-service/internal/config"
	"github.com/spec-kit/vesting-service/internal/domain"
	"github.com/spec-kit/vesting-service/internal/pda"
)

// rootCmd is the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "vestingctl",
	Short: "Operator tooling for the token vesting service",
	Long: `vestingctl manages signer keys, signs login challenges, derives
pool, treasury and record addresses offline and previews vesting schedules.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and runs it.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("program-id", config.DefaultProgramID, "program id addresses are derived under")
	rootCmd.PersistentFlags().String("keyfile", "vesting-key.json", "signer key file")
	_ = viper.BindPFlag("program_id", rootCmd.PersistentFlags().Lookup("program-id"))
	_ = viper.BindPFlag("keyfile", rootCmd.PersistentFlags().Lookup("keyfile"))
}

func initConfig() {
	viper.SetEnvPrefix("VESTING")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()
}

func deriver() (*pda.Deriver, error) {
	programID, err := domain.ParseAddress(viper.GetString("program_id"))
	if err != nil {
		return nil, fmt.Errorf("program id: %w", err)
	}
	return pda.NewDeriver(programID), nil
}
