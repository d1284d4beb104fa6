// Package api configures the operational HTTP server of the watcher: metrics,
// health and profiling endpoints.
package api

import (
	"net/http"
	"time"
	"watcher/internal/config"
	"watcher/pkg/controller"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthPath is where the health of the last invocation is reported.
const HealthPath = "/healthz"

// Options holds configuration for the HTTP server.
// It is typically created from a config.Config via NewOptions.
// Zero durations fall back to the net/http defaults.
type Options struct {
	// Addr is the TCP address the server listens on, e.g. ":8080".
	Addr string
	// ReadTimeout is the maximum duration for reading the entire request, including the body.
	ReadTimeout time.Duration
	// ReadHeaderTimeout is the amount of time allowed to read request headers.
	ReadHeaderTimeout time.Duration
	// WriteTimeout is the maximum duration before timing out writes of the response.
	WriteTimeout time.Duration
	// IdleTimeout is the maximum amount of time to wait for the next request when keep-alives are enabled.
	IdleTimeout time.Duration
	// MaxHeaderBytes controls the maximum number of bytes the server
	// will read parsing the request header's keys and values, including the request line.
	MaxHeaderBytes int
	// MetricsPath is the HTTP path at which Prometheus metrics are served.
	MetricsPath string
}

// NewOptions constructs an Options value from the provided application configuration.
func NewOptions(cfg *config.Config) Options {
	return Options{
		Addr:              cfg.HTTP.Addr,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
		MaxHeaderBytes:    cfg.HTTP.MaxHeaderBytes,
		MetricsPath:       cfg.HTTP.MetricsPath,
	}
}

// Deps are the collaborators the server reports on.
type Deps struct {
	// Gatherer provides the metrics served at MetricsPath. Defaults to
	// prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer
	// Health reports the last invocation.
	Health func() controller.HealthStatus
}

// NewServer wires up and returns a configured *http.Server. It serves:
//   - Prometheus metrics at MetricsPath
//   - the last invocation's health at HealthPath
//   - pprof endpoints for profiling
//
// Every request goes through the logging middleware.
func NewServer(deps Deps, opts Options) *http.Server {
	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	health := deps.Health
	if health == nil {
		health = func() controller.HealthStatus { return controller.HealthStatus{Healthy: true} }
	}

	mux := http.NewServeMux()
	mux.Handle(opts.MetricsPath, promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	mux.Handle(HealthPath, controller.Health(health))
	mux.Handle(controller.PprofPrefix, controller.PprofMux())

	return &http.Server{
		Addr:              opts.Addr,
		Handler:           controller.WithLogger(mux, opts.MetricsPath, HealthPath),
		ReadTimeout:       opts.ReadTimeout,
		ReadHeaderTimeout: opts.ReadHeaderTimeout,
		WriteTimeout:      opts.WriteTimeout,
		IdleTimeout:       opts.IdleTimeout,
		MaxHeaderBytes:    opts.MaxHeaderBytes,
	}
}
