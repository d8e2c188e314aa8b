package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	mongoMigration "fleetbook/internal/migrations/mongo"
	pgMigration "fleetbook/internal/migrations/postgres"
	"fleetbook/pkg/config"
)

const migrateJobName = "conflicts-migration"

func newMigrateCmd() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the collections or tables the configured store reads",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			cfg := config.Load(migrateJobName)
			cfg.SetStore()
			defer cfg.GracefulShutdown()

			cfg.Log.Info("Starting migration job", "store_driver", cfg.StoreDriver)
			var err error
			switch cfg.StoreDriver {
			case config.StorePostgres:
				err = pgMigration.Up(ctx, cfg.Client.Postgres, cfg.Log)
			default:
				err = mongoMigration.RunMigration(ctx, cfg.Client.Mongo, cfg.MongoDatabaseName, cfg.Log)
			}
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Migration completed successfully.")
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 120*time.Second, "overall migration deadline")
	return cmd
}
