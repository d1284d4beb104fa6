// Package watcher discovers the item pages of a catalog, compares them with the
// confirmed registry and reports changes once they are confirmed.
package watcher

import (
	"context"
	"fmt"
	"time"
	"watcher/internal/config"
	"watcher/pkg/domain"
	"watcher/pkg/logger"
	"watcher/pkg/metrics"
	"watcher/pkg/notifier"
	"watcher/pkg/serrors"
	"watcher/pkg/storage"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// DefaultRetryBudget is the number of extra traversals spent confirming a
// removal before it is accepted.
const DefaultRetryBudget = 3

const tracerName = "watcher"

// Options configure an invocation. They are typically derived from
// application configuration with NewOptions.
type Options struct {
	// Seeds are the pages every traversal starts from.
	Seeds []string
	// Rules classify discovered URLs.
	Rules Rules
	// RetryBudget is the number of times an unconfirmed removal triggers a
	// fresh traversal within one invocation.
	RetryBudget int
}

// NewOptions constructs an Options value from the provided application config.
func NewOptions(cfg *config.Config) (Options, error) {
	rules, err := NewRules(cfg.Watcher.ListingPattern, cfg.Watcher.ItemPattern, cfg.Watcher.ExclusionPattern)
	if err != nil {
		return Options{}, err
	}
	if cfg.Watcher.RetryBudget < 0 {
		return Options{}, serrors.With(serrors.ErrBadRequest, "retry budget must not be negative")
	}

	return Options{
		Seeds:       cfg.Watcher.Seeds,
		Rules:       rules,
		RetryBudget: cfg.Watcher.RetryBudget,
	}, nil
}

// State is the confirmation state of an invocation.
type State int

const (
	// StateStable means the last attempt was finalized.
	StateStable State = iota
	// StateAwaitingConfirmation means a removal was observed and another
	// traversal is needed before it is accepted.
	StateAwaitingConfirmation
)

func (s State) String() string {
	switch s {
	case StateStable:
		return "stable"
	case StateAwaitingConfirmation:
		return "awaiting_confirmation"
	default:
		return "unknown"
	}
}

// Report summarizes a finished invocation.
type Report struct {
	// InvocationID identifies the invocation in logs and traces.
	InvocationID string
	// Attempts is the number of full traversals performed.
	Attempts int
	// Result is the finalized diff.
	Result domain.DiffResult
	// Discovered is the number of items found by the finalizing attempt.
	Discovered int
	// Notified is true when every notification was delivered. It is false
	// when there was nothing to notify.
	Notified bool
	// Persisted is true when the registry was rewritten.
	Persisted bool
}

// watcher is the concrete implementation of the Watcher interface.
type watcher struct {
	options   Options
	traverser *Traverser
	registry  storage.Registry
	notifier  notifier.Notifier
	recorder  *metrics.Recorder
	tracer    trace.Tracer
}

// New creates a Watcher. Invocations must not overlap; callers serialize them.
func New(traverser *Traverser,
	registry storage.Registry,
	n notifier.Notifier,
	recorder *metrics.Recorder,
	options Options) Watcher {
	return &watcher{
		options:   options,
		traverser: traverser,
		registry:  registry,
		notifier:  n,
		recorder:  recorder,
		tracer:    otel.Tracer(tracerName),
	}
}

// Invoke runs one invocation. It loads the registry, traverses until the diff
// is confirmed, notifies about a non-empty diff and then replaces the registry
// with the discovered items. A notification failure is logged and does not
// prevent persistence. A registry failure aborts the invocation and is
// returned as serrors.ErrPersistence.
func (w *watcher) Invoke(ctx context.Context) (Report, error) {
	started := time.Now()
	report := Report{InvocationID: uuid.NewString()}

	ctx = logger.WithFields(ctx, zap.String("invocationID", report.InvocationID))
	ctx, span := w.tracer.Start(ctx, "watcher.Invoke",
		trace.WithAttributes(attribute.String("invocation.id", report.InvocationID)))
	defer span.End()

	err := w.invoke(ctx, &report)

	outcome := "unchanged"
	switch {
	case err != nil:
		outcome = "failed"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	case !report.Result.Empty():
		outcome = "changed"
	}
	span.SetAttributes(
		attribute.Int("attempts", report.Attempts),
		attribute.Int("added", len(report.Result.Added)),
		attribute.Int("removed", len(report.Result.Removed)))
	w.recorder.Invocation(ctx, outcome, time.Since(started))

	return report, err
}

func (w *watcher) invoke(ctx context.Context, report *Report) error {
	persisted, err := w.registry.Load(ctx)
	if err != nil {
		logger.Error(ctx, "could not load registry", zap.String("stage", "load"), zap.Error(err))

		return serrors.Wrap(serrors.ErrPersistence, err, "could not load registry")
	}
	w.recorder.RegistrySize(ctx, persisted.Len())

	discovered, result, err := w.confirm(ctx, persisted, report)
	if err != nil {
		logger.Error(ctx, "traversal did not finish", zap.String("stage", "traverse"), zap.Error(err))

		return fmt.Errorf("could not traverse: %w", err)
	}

	report.Result = result
	report.Discovered = discovered.Len()
	logger.Info(ctx, "Number of items seen this run",
		zap.Int("discovered", report.Discovered),
		zap.Int("attempts", report.Attempts),
		zap.Int("added", len(result.Added)),
		zap.Int("removed", len(result.Removed)))

	if result.Empty() {
		return nil
	}

	report.Notified = w.notify(ctx, result)

	if err := w.registry.Save(ctx, discovered); err != nil {
		logger.Error(ctx, "could not save registry", zap.String("stage", "save"), zap.Error(err))

		return serrors.Wrap(serrors.ErrPersistence, err, "could not save registry")
	}
	report.Persisted = true
	w.recorder.RegistrySize(ctx, discovered.Len())

	return nil
}

// confirm runs traversal attempts until the diff against persisted can be
// finalized. An attempt reporting removals is discarded and the site is
// traversed again while budget remains, so at most RetryBudget+1 attempts run.
// Additions never trigger a retry.
func (w *watcher) confirm(ctx context.Context,
	persisted domain.ItemSet,
	report *Report) (domain.ItemSet, domain.DiffResult, error) {
	budget := w.options.RetryBudget
	state := StateStable

	for attempt := 1; attempt <= w.options.RetryBudget+1; attempt++ {
		report.Attempts = attempt

		discovered, result, err := w.attempt(ctx, attempt, state, persisted)
		if err != nil {
			return nil, domain.DiffResult{}, err
		}

		if len(result.Removed) > 0 && budget > 0 {
			budget--
			state = StateAwaitingConfirmation
			logger.Info(ctx, "removal not confirmed, traversing again",
				zap.Int("attempt", attempt),
				zap.Strings("removed", result.Removed),
				zap.Int("budget", budget))

			continue
		}

		return discovered, result, nil
	}

	// Unreachable: the last attempt runs with an exhausted budget and always
	// finalizes.
	return nil, domain.DiffResult{}, serrors.With(serrors.ErrInternal, "retry budget overrun")
}

func (w *watcher) attempt(ctx context.Context,
	attempt int,
	state State,
	persisted domain.ItemSet) (domain.ItemSet, domain.DiffResult, error) {
	ctx = logger.WithFields(ctx, zap.Int("attempt", attempt))
	ctx, span := w.tracer.Start(ctx, "watcher.attempt", trace.WithAttributes(
		attribute.Int("attempt", attempt),
		attribute.String("state", state.String())))
	defer span.End()

	w.recorder.Attempt(ctx)
	logger.Debug(ctx, "starting traversal", zap.Stringer("state", state))

	discovered, err := w.traverser.Traverse(ctx, w.options.Seeds)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return nil, domain.DiffResult{}, err
	}

	result := Diff(discovered, persisted)
	span.SetAttributes(
		attribute.Int("discovered", discovered.Len()),
		attribute.Int("added", len(result.Added)),
		attribute.Int("removed", len(result.Removed)))

	return discovered, result, nil
}

// notify sends the summary and, when items were added, the alert. It reports
// whether every notification was delivered.
func (w *watcher) notify(ctx context.Context, result domain.DiffResult) bool {
	delivered := true

	err := w.notifier.NotifySummary(ctx, result.Added, result.Removed)
	w.recorder.Notification(ctx, "summary", err == nil)
	if err != nil {
		delivered = false
		logger.Error(ctx, "could not send summary", zap.String("stage", "notify"), zap.Error(err))
	}

	if len(result.Added) == 0 {
		return delivered
	}

	err = w.notifier.NotifyAlert(ctx, len(result.Added))
	w.recorder.Notification(ctx, "alert", err == nil)
	if err != nil {
		delivered = false
		logger.Error(ctx, "could not send alert", zap.String("stage", "notify"), zap.Error(err))
	}

	return delivered
}
