package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spec-kit/vesting-service/internal/domain"
)

var addressCmd = &cobra.Command{
	Use:   "address",
	Short: "Derive program addresses offline",
}

var addressPoolCmd = &cobra.Command{
	Use:   "pool <company>",
	Short: "Pool address of a company",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := deriver()
		if err != nil {
			return err
		}
		addr, bump, err := d.Pool(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s (bump %d)\n", addr, bump)
		return nil
	},
}

var addressTreasuryCmd = &cobra.Command{
	Use:   "treasury <company>",
	Short: "Treasury token account of a company pool",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := deriver()
		if err != nil {
			return err
		}
		addr, bump, err := d.Treasury(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s (bump %d)\n", addr, bump)
		return nil
	},
}

var addressEmployeeCmd = &cobra.Command{
	Use:   "employee <company> <beneficiary>",
	Short: "Vesting record of a beneficiary in a company pool",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := deriver()
		if err != nil {
			return err
		}
		beneficiary, err := domain.ParseAddress(args[1])
		if err != nil {
			return err
		}
		pool, _, err := d.Pool(args[0])
		if err != nil {
			return err
		}
		addr, bump, err := d.Employee(beneficiary, pool)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s (bump %d)\n", addr, bump)
		return nil
	},
}

var addressATACmd = &cobra.Command{
	Use:   "ata <owner> <mint>",
	Short: "Associated token account of an owner for a mint",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := deriver()
		if err != nil {
			return err
		}
		owner, err := domain.ParseAddress(args[0])
		if err != nil {
			return err
		}
		mint, err := domain.ParseAddress(args[1])
		if err != nil {
			return err
		}
		addr, err := d.AssociatedTokenAccount(owner, mint)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), addr)
		return nil
	},
}

func init() {
	addressCmd.AddCommand(addressPoolCmd, addressTreasuryCmd, addressEmployeeCmd, addressATACmd)
	rootCmd.AddCommand(addressCmd)
}
