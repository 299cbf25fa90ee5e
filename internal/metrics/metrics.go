// Package metrics holds the prometheus collectors. Every recording method is
// safe on a nil *Metrics so callers can run without instrumentation.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ems"

// Metrics is the set of collectors registered on one registry.
type Metrics struct {
	registry *prometheus.Registry

	transitions      *prometheus.CounterVec
	rejections       *prometheus.CounterVec
	attendance       *prometheus.CounterVec
	approvals        *prometheus.CounterVec
	scoresCreated    *prometheus.CounterVec
	schedulerRuns    *prometheus.CounterVec
	schedulerLatency *prometheus.HistogramVec
	httpRequests     *prometheus.CounterVec
	httpLatency      *prometheus.HistogramVec
}

// New registers every collector, plus the Go and process collectors, on a
// fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		transitions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "jobcard",
			Name:      "transitions_total",
			Help:      "Accepted job card status transitions",
		}, []string{"from", "to"}),
		rejections: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "jobcard",
			Name:      "transition_rejections_total",
			Help:      "Refused job card status transitions by reason",
		}, []string{"reason"}),
		attendance: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "attendance",
			Name:      "events_total",
			Help:      "Day starts and day ends",
		}, []string{"kind"}),
		approvals: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "approvals_total",
			Help:      "Job card reviews by result",
		}, []string{"result"}),
		scoresCreated: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scores_created_total",
			Help:      "Scores created, labeled by the path that created them",
		}, []string{"source"}),
		schedulerRuns: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "runs_total",
			Help:      "Scheduled job executions",
		}, []string{"job", "result"}),
		schedulerLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "run_duration_seconds",
			Help:      "Duration of scheduled job executions",
			Buckets:   prometheus.DefBuckets,
		}, []string{"job"}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status",
		}, []string{"method", "route", "status"}),
		httpLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Transition(from, to string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(from, to).Inc()
}

func (m *Metrics) TransitionRejected(reason string) {
	if m == nil {
		return
	}
	m.rejections.WithLabelValues(reason).Inc()
}

// Attendance kind is "start" or "end".
func (m *Metrics) Attendance(kind string) {
	if m == nil {
		return
	}
	m.attendance.WithLabelValues(kind).Inc()
}

// Approval result is "approved" or "rejected".
func (m *Metrics) Approval(result string) {
	if m == nil {
		return
	}
	m.approvals.WithLabelValues(result).Inc()
}

// ScoreCreated source is "approval", "manual" or "backfill".
func (m *Metrics) ScoreCreated(source string) {
	if m == nil {
		return
	}
	m.scoresCreated.WithLabelValues(source).Inc()
}

// SchedulerRun returns a func that records the outcome and duration.
func (m *Metrics) SchedulerRun(job string) func(err error) {
	if m == nil {
		return func(error) {}
	}
	start := time.Now()
	return func(err error) {
		result := "success"
		if err != nil {
			result = "failure"
		}
		m.schedulerRuns.WithLabelValues(job, result).Inc()
		m.schedulerLatency.WithLabelValues(job).Observe(time.Since(start).Seconds())
	}
}

// GinMiddleware records request counts and latency per route template.
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpLatency.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
