package main

import (
	"errors"

	"github.com/spf13/cobra"

	"wardaudit/internal/platform/migrate"
	"wardaudit/internal/platform/postgres"
)

func migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := commonRun()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			db, err := postgres.Open(ctx, cfg.Database)
			if err != nil {
				return err
			}
			if db == nil {
				return errors.New("DATABASE_URL is not set")
			}
			defer db.Close()

			applied, err := migrate.Apply(ctx, db)
			if err != nil {
				return err
			}
			for _, name := range applied {
				logger.InfoContext(ctx, "migration applied", "name", name)
			}
			logger.InfoContext(ctx, "database up to date", "applied", len(applied))
			return nil
		},
	}
}
