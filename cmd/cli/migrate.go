package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/iho/debtledger/internal/infrastructure/logger"
	"github.com/iho/debtledger/internal/infrastructure/postgres"
)

func newMigrateCmd() *cobra.Command {
	var (
		databaseURL string
		path        string
	)

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}

	cmd.PersistentFlags().StringVar(&databaseURL, "database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection URL")
	cmd.PersistentFlags().StringVar(&path, "path", envOr("MIGRATIONS_PATH", "migrations"), "Migrations directory")

	requireURL := func() error {
		if databaseURL == "" {
			return fmt.Errorf("a database URL is required (--database-url or DATABASE_URL)")
		}
		return nil
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply every pending migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireURL(); err != nil {
				return err
			}
			log := logger.New(logger.Config{Format: "console", Output: cmd.ErrOrStderr()})
			return postgres.RunMigrations(databaseURL, path, log)
		},
	}

	var yes bool
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back the last migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to roll back without --yes")
			}
			if err := requireURL(); err != nil {
				return err
			}
			log := logger.New(logger.Config{Format: "console", Output: cmd.ErrOrStderr()})
			return postgres.RunMigrationsDown(databaseURL, path, log)
		},
	}
	down.Flags().BoolVar(&yes, "yes", false, "Confirm the rollback")

	cmd.AddCommand(up, down)

	return cmd
}
