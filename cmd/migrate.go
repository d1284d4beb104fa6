package main

import (
	"context"
	"io/fs"
	root "watcher"
	"watcher/internal/config"
	"watcher/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// migrateCommand applies the pending registry migrations.
func migrateCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Migrates the postgres registry to the latest version",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()

			pg, closePg := getPostgres(ctx, cfg)
			defer closePg()

			migrations, err := fs.Sub(root.Migrations, "migrations")
			if err != nil {
				logger.Fatal(ctx, "could not open embedded migrations", zap.Error(err))
			}

			applied, err := pg.Migrate(ctx, migrations)
			if err != nil {
				logger.Fatal(ctx, "could not migrate pgsql", zap.Error(err))
			}

			logger.Info(ctx, "registry migrated", zap.Int64s("applied", applied))
		},
	}
}
