package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spec-kit/vesting-service/internal/config"
	"github.com/spec-kit/vesting-service/internal/observability"
	"github.com/spec-kit/vesting-service/internal/persistence"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply SQL migrations to the configured Postgres database",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := observability.NewLogger(config.LoggerConfig{Level: "info"})
		if err != nil {
			return err
		}
		defer logger.Sync() //nolint:errcheck

		ctx := context.Background()
		pg, err := persistence.NewPostgres(ctx, config.PostgresConfig{DSN: viper.GetString("postgres_dsn")}, logger)
		if err != nil {
			return err
		}
		defer pg.Close()
		return persistence.RunMigrations(ctx, pg.PoolHandle(), viper.GetString("migrations_dir"), logger)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.Flags().String("dsn", "", "postgres connection string")
	migrateCmd.Flags().String("dir", "migrations", "directory holding *.sql migrations")
	_ = viper.BindPFlag("postgres_dsn", migrateCmd.Flags().Lookup("dsn"))
	_ = viper.BindPFlag("migrations_dir", migrateCmd.Flags().Lookup("dir"))
}
