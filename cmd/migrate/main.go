// Command migrate manages the recommendation_events schema.
//
//	go run ./cmd/migrate            # up
//	go run ./cmd/migrate status
//	go run ./cmd/migrate down
//
// DATABASE_URL is required.
package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"storefront-backend/internal/shared/config"
	"storefront-backend/internal/shared/storage/db"
	"storefront-backend/internal/shared/telemetry"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "migrate [up|down|status|version]",
		Short:        "Apply or inspect embedded database migrations",
		Args:         cobra.MaximumNArgs(1),
		ValidArgs:    []string{db.MigrateUp, db.MigrateDown, db.MigrateStatus, db.MigrateVersion},
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			command := db.MigrateUp
			if len(args) == 1 {
				command = args[0]
			}
			return run(cmd.Context(), config.Load().DatabaseURL, command)
		},
	}
}

func run(ctx context.Context, databaseURL, command string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	sqlDB, err := db.Connect(ctx, databaseURL, db.OptionsFromEnv(db.DefaultMigrateOptions()))
	if err != nil {
		telemetry.Error("migrate.connect_failed", map[string]any{"error": err.Error()})
		return err
	}
	defer sqlDB.Close()

	if err := db.Migrate(ctx, sqlDB, command); err != nil {
		telemetry.Error("migrate.failed", map[string]any{"command": command, "error": err.Error()})
		return err
	}
	telemetry.Info("migrate.done", map[string]any{"command": command})
	return nil
}
