package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/metrics"
)

type options struct {
	Logger   *zap.Logger
	Metrics  *metrics.Metrics
	Cron     *cron.Cron
	Location *time.Location
	Timeout  time.Duration
}

// Option applies configuration to the scheduler.
type Option func(*options)

func defaultOptions() options {
	return options{Logger: zap.NewNop(), Location: time.UTC, Timeout: 10 * time.Minute}
}

// WithLogger injects the logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		o.Logger = l
	}
}

// WithMetrics records every run on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) {
		o.Metrics = m
	}
}

// WithCron supplies a preconfigured cron instance. It must accept
// six-field specs.
func WithCron(c *cron.Cron) Option {
	return func(o *options) {
		o.Cron = c
	}
}

// WithLocation sets the zone cron expressions are evaluated in.
func WithLocation(loc *time.Location) Option {
	return func(o *options) {
		o.Location = loc
	}
}

// WithTimeout bounds a single run.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.Timeout = d
	}
}
