// Package metrics owns the OpenTelemetry instruments of the watcher and the
// Prometheus-backed meter provider that exports them.
package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// DefaultBuckets provides a common set of histogram buckets in seconds that can
// be reused across the application for latency metrics.
var DefaultBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120} //nolint: gochecknoglobals

const meterName = "watcher"

// NewPrometheusProvider creates a meter provider whose reader exports every
// instrument through the given Prometheus registerer.
func NewPrometheusProvider(reg prometheus.Registerer) (*sdkmetric.MeterProvider, error) {
	exp, err := otelprom.New(otelprom.WithRegisterer(reg))
	if err != nil {
		return nil, fmt.Errorf("could not create otel exporter: %w", err)
	}

	return sdkmetric.NewMeterProvider(sdkmetric.WithReader(exp)), nil
}

// Recorder records watcher activity. A Recorder is safe for concurrent use.
type Recorder struct {
	invocations   metric.Int64Counter
	attempts      metric.Int64Counter
	fetchFailures metric.Int64Counter
	notifications metric.Int64Counter
	duration      metric.Float64Histogram
	registrySize  metric.Int64Gauge
}

// NewRecorder creates all instruments from the given provider.
func NewRecorder(mp metric.MeterProvider) (*Recorder, error) {
	m := mp.Meter(meterName)

	var (
		r   Recorder
		err error
	)
	if r.invocations, err = m.Int64Counter("watcher.invocations",
		metric.WithDescription("Number of finished invocations by outcome")); err != nil {
		return nil, fmt.Errorf("could not create invocations counter: %w", err)
	}
	if r.attempts, err = m.Int64Counter("watcher.traversal.attempts",
		metric.WithDescription("Number of full traversal attempts")); err != nil {
		return nil, fmt.Errorf("could not create attempts counter: %w", err)
	}
	if r.fetchFailures, err = m.Int64Counter("watcher.fetch.failures",
		metric.WithDescription("Number of pages that could not be fetched")); err != nil {
		return nil, fmt.Errorf("could not create fetch failures counter: %w", err)
	}
	if r.notifications, err = m.Int64Counter("watcher.notifications",
		metric.WithDescription("Number of notifications by kind and result")); err != nil {
		return nil, fmt.Errorf("could not create notifications counter: %w", err)
	}
	if r.duration, err = m.Float64Histogram("watcher.invocation.duration",
		metric.WithUnit("s"),
		metric.WithDescription("Wall time of an invocation including retries"),
		metric.WithExplicitBucketBoundaries(DefaultBuckets...)); err != nil {
		return nil, fmt.Errorf("could not create duration histogram: %w", err)
	}
	if r.registrySize, err = m.Int64Gauge("watcher.registry.items",
		metric.WithDescription("Number of items in the confirmed registry")); err != nil {
		return nil, fmt.Errorf("could not create registry gauge: %w", err)
	}

	return &r, nil
}

// Invocation records a finished invocation with its outcome and duration.
func (r *Recorder) Invocation(ctx context.Context, outcome string, took time.Duration) {
	attrs := metric.WithAttributes(attribute.String("outcome", outcome))
	r.invocations.Add(ctx, 1, attrs)
	r.duration.Record(ctx, took.Seconds(), attrs)
}

// Attempt records one full traversal attempt.
func (r *Recorder) Attempt(ctx context.Context) {
	r.attempts.Add(ctx, 1)
}

// FetchFailure records a page that could not be fetched.
func (r *Recorder) FetchFailure(ctx context.Context) {
	r.fetchFailures.Add(ctx, 1)
}

// Notification records a notification attempt of the given kind.
func (r *Recorder) Notification(ctx context.Context, kind string, ok bool) {
	r.notifications.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.Bool("ok", ok),
	))
}

// RegistrySize records the number of confirmed items.
func (r *Recorder) RegistrySize(ctx context.Context, n int) {
	r.registrySize.Record(ctx, int64(n))
}
