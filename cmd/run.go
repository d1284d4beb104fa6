package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"watcher/internal/config"
	"watcher/pkg/logger"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/zap"
)

// runCommand constructs the 'run' subcommand that performs a single
// invocation and exits. It fails when the invocation fails.
func runCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Runs a single invocation and exits",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			w, closeRegistry := getWatcher(ctx, cfg, noop.NewMeterProvider())
			defer closeRegistry()

			report, err := w.Invoke(ctx)
			if err != nil {
				return fmt.Errorf("invocation %s failed: %w", report.InvocationID, err)
			}

			logger.Info(ctx, "invocation finished",
				zap.String("invocationID", report.InvocationID),
				zap.Int("attempts", report.Attempts),
				zap.Strings("added", report.Result.Added),
				zap.Strings("removed", report.Result.Removed),
				zap.Bool("notified", report.Notified),
				zap.Bool("persisted", report.Persisted))

			return nil
		},
	}
	cmd.SilenceUsage = true

	return cmd
}
