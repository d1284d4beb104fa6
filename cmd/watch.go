package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"watcher/internal/api"
	"watcher/internal/config"
	"watcher/internal/scheduler"
	"watcher/pkg/controller"
	"watcher/pkg/logger"
	"watcher/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func setupServer(ctx context.Context, cfg *config.Config, health func() controller.HealthStatus) func(ctx context.Context) {
	server := api.NewServer(api.Deps{
		Gatherer: prometheus.DefaultGatherer,
		Health:   health,
	}, api.NewOptions(cfg))

	go func() {
		logger.Info(ctx, "starting webserver...", zap.String("addr", cfg.HTTP.Addr))
		if err := server.ListenAndServe(); err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				logger.Error(ctx, "could not start webserver", zap.Error(err))
			}
		}
	}()

	return func(ctx context.Context) {
		logger.Info(ctx, "stopping webserver...")
		if err := server.Shutdown(ctx); err != nil {
			logger.Error(ctx, "could not stop webserver", zap.Error(err))
		}
	}
}

func watchCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Runs the watcher on schedule and serves metrics",
		Run: func(cmd *cobra.Command, args []string) {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			mp, err := metrics.NewPrometheusProvider(prometheus.DefaultRegisterer)
			if err != nil {
				logger.Fatal(ctx, "could not create meter provider", zap.Error(err))
			}

			w, closeRegistry := getWatcher(ctx, cfg, mp)
			defer closeRegistry()

			sched, err := scheduler.New(ctx, w, cfg.Watcher.Schedule)
			if err != nil {
				logger.Fatal(ctx, "could not create scheduler", zap.Error(err))
			}

			stopWebserver := setupServer(ctx, cfg, sched.Health)

			logger.Info(ctx, "starting scheduler...", zap.String("schedule", cfg.Watcher.Schedule))
			sched.Start()

			// wait for interrupt
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GracefulShutdownTimeout)
			defer cancel()

			logger.Info(shutdownCtx, "stopping scheduler...")
			if err := sched.Stop(shutdownCtx); err != nil {
				logger.Error(shutdownCtx, "could not stop scheduler gracefully", zap.Error(err))
			}
			stopWebserver(shutdownCtx)
			if err := mp.Shutdown(shutdownCtx); err != nil {
				logger.Warn(shutdownCtx, "could not shut down meter provider", zap.Error(err))
			}
		},
	}

	return cmd
}
