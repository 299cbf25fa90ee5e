// Package scheduler runs the periodic maintenance jobs on robfig/cron.
package scheduler

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/metrics"
)

// JobFunc is one unit of scheduled work.
type JobFunc func(ctx context.Context) error

// Service owns the cron engine and the registered jobs.
type Service struct {
	cron    *cron.Cron
	logger  *zap.Logger
	metrics *metrics.Metrics
	timeout time.Duration

	mu   sync.RWMutex
	jobs map[string]JobFunc
}

// New builds a scheduler. Specs carry a leading seconds field and are
// evaluated in the configured location. A run that is still going when its
// next tick arrives makes that tick a no-op.
func New(opts ...Option) *Service {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	c := o.Cron
	if c == nil {
		log := cronLogger{o.Logger.Sugar()}
		c = cron.New(
			cron.WithSeconds(),
			cron.WithLocation(o.Location),
			cron.WithLogger(log),
			cron.WithChain(cron.Recover(log), cron.SkipIfStillRunning(log)),
		)
	}
	return &Service{
		cron:    c,
		logger:  o.Logger,
		metrics: o.Metrics,
		timeout: o.Timeout,
		jobs:    make(map[string]JobFunc),
	}
}

// Register schedules fn under name. An empty schedule registers the job for
// manual runs only.
func (s *Service) Register(name, schedule string, fn JobFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jobs[name]; ok {
		return fmt.Errorf("scheduler: job %q already registered", name)
	}
	if schedule != "" {
		if _, err := s.cron.AddFunc(schedule, func() { _ = s.Run(context.Background(), name) }); err != nil {
			return fmt.Errorf("scheduler: job %q: %w", name, err)
		}
	}
	s.jobs[name] = fn
	s.logger.Info("job registered", zap.String("job", name), zap.String("schedule", schedule))
	return nil
}

// Jobs lists the registered job names.
func (s *Service) Jobs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run executes a registered job once, now, bounded by the run timeout.
func (s *Service) Run(ctx context.Context, name string) error {
	s.mu.RLock()
	fn, ok := s.jobs[name]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("scheduler: unknown job %q", name)
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	done := s.metrics.SchedulerRun(name)
	start := time.Now()
	err := fn(ctx)
	done(err)
	if err != nil {
		s.logger.Error("job failed", zap.String("job", name), zap.Duration("took", time.Since(start)), zap.Error(err))
		return err
	}
	s.logger.Info("job finished", zap.String("job", name), zap.Duration("took", time.Since(start)))
	return nil
}

// Start begins firing scheduled jobs in the background.
func (s *Service) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started", zap.Int("entries", len(s.cron.Entries())))
}

// Stop prevents new runs and waits for running ones until ctx expires.
func (s *Service) Stop(ctx context.Context) error {
	select {
	case <-s.cron.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw("cron: "+msg, append(keysAndValues, "error", err)...)
}
