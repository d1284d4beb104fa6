// Package main provides the CLI entrypoint for the catalog watcher.
// It wires subcommands (watch, run, migrate), loads configuration, and initializes logging.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"watcher/internal/config"
	"watcher/internal/watcher"
	"watcher/pkg/fetcher/httpfetch"
	"watcher/pkg/linkextract"
	"watcher/pkg/logger"
	"watcher/pkg/metrics"
	"watcher/pkg/notifier"
	"watcher/pkg/notifier/email"
	"watcher/pkg/notifier/lognotify"
	"watcher/pkg/storage"
	"watcher/pkg/storage/file"
	"watcher/pkg/storage/postgres"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// getPostgres creates a PostgreSQL client using configuration values and returns it
// along with a cleanup function to close the connection pool.
func getPostgres(ctx context.Context, cfg *config.Config) (*postgres.PgSQL, func()) {
	pgsql, err := postgres.New(ctx, postgres.Options{
		Username:           cfg.Database.Username,
		Password:           cfg.Database.Password,
		Host:               cfg.Database.Host,
		Port:               cfg.Database.Port,
		Database:           cfg.Database.DatabaseName,
		ConnMaxLifetime:    cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime:    cfg.Database.ConnMaxIdleTime,
		MaxOpenConnections: cfg.Database.MaxOpenConnections,
		MaxIdleConnections: cfg.Database.MaxIdleConnections,
		SslMode:            cfg.Database.SslMode,
	})
	if err != nil {
		logger.Fatal(ctx, "could not create postgres storage", zap.Error(err))
	}

	return pgsql, func() {
		logger.Info(ctx, "closing postgres client...")
		if err = pgsql.Close(); err != nil {
			logger.Warn(ctx, "could not close postgres connection", zap.Error(err))
		}
	}
}

// getRegistry returns the registry selected by the config and a cleanup
// function releasing it.
func getRegistry(ctx context.Context, cfg *config.Config) (storage.Storage, func()) {
	if cfg.Registry.Driver == config.RegistryDriverPostgres {
		return getPostgres(ctx, cfg)
	}

	logger.Info(ctx, "using file registry", zap.String("path", cfg.Registry.Path))

	return file.New(cfg.Registry.Path), func() {}
}

// getNotifier returns the notifier selected by the config.
func getNotifier(ctx context.Context, cfg *config.Config) notifier.Notifier {
	if cfg.Notifier.Driver != config.NotifierDriverSMTP {
		return lognotify.New(cfg.Notifier.Site)
	}

	opts := email.Options{
		Host:      cfg.Notifier.SMTP.Host,
		Port:      cfg.Notifier.SMTP.Port,
		Username:  cfg.Notifier.SMTP.Username,
		Password:  cfg.Notifier.SMTP.Password,
		SSL:       cfg.Notifier.SMTP.SSL,
		Timeout:   cfg.Notifier.SMTP.Timeout,
		From:      cfg.Notifier.From,
		SummaryTo: cfg.Notifier.SummaryTo,
		AlertTo:   cfg.Notifier.AlertTo,
		Site:      cfg.Notifier.Site,
	}
	client, err := email.NewClient(opts)
	if err != nil {
		logger.Fatal(ctx, "could not create SMTP client", zap.Error(err))
	}

	return email.New(client, opts)
}

// getWatcher wires a watcher from the config. The returned cleanup function
// releases the registry.
func getWatcher(ctx context.Context, cfg *config.Config, mp metric.MeterProvider) (watcher.Watcher, func()) {
	opts, err := watcher.NewOptions(cfg)
	if err != nil {
		logger.Fatal(ctx, "invalid watcher configuration", zap.Error(err))
	}

	recorder, err := metrics.NewRecorder(mp)
	if err != nil {
		logger.Fatal(ctx, "could not create metrics recorder", zap.Error(err))
	}

	fetcher := httpfetch.New(&http.Client{}, httpfetch.Options{
		Timeout:      cfg.Watcher.FetchTimeout,
		UserAgent:    cfg.Watcher.UserAgent,
		MaxBodyBytes: cfg.Watcher.MaxBodyBytes,
	})
	traverser := watcher.NewTraverser(fetcher, linkextract.New(), opts.Rules, recorder)

	registry, closeRegistry := getRegistry(ctx, cfg)

	return watcher.New(traverser, registry, getNotifier(ctx, cfg), recorder, opts), closeRegistry
}

// main sets up the root Cobra command, loads configuration and logging, and
// registers subcommands before executing the CLI.
func main() {
	rootCmd := &cobra.Command{
		Use:   "watcher",
		Short: "Watches a catalog for added and removed items",
	}

	// there is no way to access flags before command execution in cobra.
	// configPath here is parsed using the standard flags package.
	// following line is just added to prevent errors when Cobra is parsing the flags.
	rootCmd.PersistentFlags().StringP("config", "c", "config.yml", "Config File Path")

	configPath := flag.String("c", "config.yml", "The config file path")
	flag.Parse()

	log.Println("loading config ...")
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("could not load config file: ", err)
	}

	logger.Setup(cfg.Environment, cfg.LogLevel)

	ctx := context.Background()

	defer func() {
		if p := recover(); p != nil {
			logger.Error(ctx, "captured panic, exiting...", zap.Any("panic", p))
			_ = logger.Get(ctx).Sync()

			panic(p)
		}
	}()

	rootCmd.AddCommand(
		migrateCommand(cfg),
		watchCommand(cfg),
		runCommand(cfg),
	)

	err = rootCmd.Execute()
	_ = logger.Get(ctx).Sync()
	if err != nil {
		os.Exit(1) //nolint: gocritic
	}
}
