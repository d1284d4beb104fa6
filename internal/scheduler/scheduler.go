// Package scheduler runs watcher invocations periodically using a cron
// schedule. Invocations never overlap: a tick that fires while an invocation
// is still running is skipped.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
	"watcher/internal/watcher"
	"watcher/pkg/controller"
	"watcher/pkg/logger"
	"watcher/pkg/serrors"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DefaultSchedule runs an invocation every five minutes.
const DefaultSchedule = "@every 5m"

// Scheduler triggers invocations of a watcher.Watcher.
type Scheduler struct {
	watcher watcher.Watcher
	cron    *cron.Cron
	// job is the invocation wrapped with panic recovery and skip-if-busy. Both
	// the cron entry and Trigger share it, so they share the busy state.
	job cron.Job

	// ctx is passed to every invocation. It is canceled when Stop gives up
	// waiting.
	ctx    context.Context
	cancel context.CancelFunc
	// triggered tracks invocations started through Trigger, which cron does
	// not wait for.
	triggered sync.WaitGroup

	// mu protects last.
	mu   sync.Mutex
	last controller.HealthStatus
}

// New creates a Scheduler for w using a standard cron spec or a descriptor
// such as "@every 5m". The logger of ctx is used for every invocation.
func New(ctx context.Context, w watcher.Watcher, spec string) (*Scheduler, error) {
	if spec == "" {
		spec = DefaultSchedule
	}
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrBadRequest, err, "invalid schedule %q", spec)
	}

	cl := cronLogger{l: logger.Slog(ctx)}
	s := &Scheduler{
		watcher: w,
		cron:    cron.New(cron.WithLogger(cl)),
		last:    controller.HealthStatus{Healthy: true},
	}
	s.ctx, s.cancel = context.WithCancel(context.WithoutCancel(ctx))
	s.job = cron.NewChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)).Then(cron.FuncJob(s.invoke))
	s.cron.Schedule(schedule, s.job)

	return s, nil
}

// Start runs one invocation immediately and then follows the schedule. It
// does not block.
func (s *Scheduler) Start() {
	s.Trigger()
	s.cron.Start()
}

// Trigger starts an invocation in the background unless one is already
// running.
func (s *Scheduler) Trigger() {
	s.triggered.Add(1)
	go func() {
		defer s.triggered.Done()
		s.job.Run()
	}()
}

// Stop prevents further invocations and waits for the running one to finish.
// If ctx is done first, the running invocation is canceled and ctx's error is
// returned once it has returned.
func (s *Scheduler) Stop(ctx context.Context) error {
	defer s.cancel()

	cronDone := s.cron.Stop()
	done := make(chan struct{})
	go func() {
		<-cronDone.Done()
		s.triggered.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		s.cancel()
		<-done

		return fmt.Errorf("invocation did not finish in time: %w", ctx.Err())
	}
}

// Health reports the outcome of the last finished invocation. It is healthy
// before the first invocation finishes.
func (s *Scheduler) Health() controller.HealthStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.last
}

func (s *Scheduler) invoke() {
	report, err := s.watcher.Invoke(s.ctx)

	st := controller.HealthStatus{
		Healthy:      err == nil,
		InvocationID: report.InvocationID,
		FinishedAt:   time.Now(),
	}
	if err != nil {
		st.Error = err.Error()
	}
	s.mu.Lock()
	s.last = st
	s.mu.Unlock()

	ctx := logger.WithFields(s.ctx, zap.String("invocationID", report.InvocationID))
	if err != nil {
		logger.Error(ctx, "invocation failed", zap.Error(err))

		return
	}

	logger.Info(ctx, "invocation finished",
		zap.Int("attempts", report.Attempts),
		zap.Int("added", len(report.Result.Added)),
		zap.Int("removed", len(report.Result.Removed)),
		zap.Bool("persisted", report.Persisted))
}

// cronLogger routes cron's own messages to slog. Routine messages go to
// debug level.
type cronLogger struct {
	l *slog.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.l.Debug(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.l.Error(msg, append(keysAndValues, "error", err)...)
}
