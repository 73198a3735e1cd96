// Package metrics exposes Prometheus instruments fed by engine lifecycle hooks.
package metrics

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/civicscribe/intake/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "civicscribe"

// Metrics owns a private registry so tests and multiple servers do not collide.
type Metrics struct {
	registry *prometheus.Registry

	stepVisits   *prometheus.CounterVec
	rejections   *prometheus.CounterVec
	finalized    prometheus.Counter
	turnDuration *prometheus.HistogramVec
}

// New creates and registers the instruments.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		stepVisits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "step_visits_total",
				Help:      "Total number of times a step was entered.",
			},
			[]string{"step"},
		),
		rejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "answer_rejections_total",
				Help:      "Answers held at a step because they did not validate.",
			},
			[]string{"step"},
		),
		finalized: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "applications_finalized_total",
			Help:      "Applications confirmed and assembled.",
		}),
		turnDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "turn_duration_seconds",
				Help:      "Time to process one turn, including persistence.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"transport"},
		),
	}
	m.registry.MustRegister(
		m.stepVisits,
		m.rejections,
		m.finalized,
		m.turnDuration,
		prometheus.NewGoCollector(),
	)
	return m
}

// Hooks returns lifecycle hooks that record metrics and log each event.
// A nil logger disables logging.
func (m *Metrics) Hooks(logger *slog.Logger) domain.LifecycleHooks {
	log := func(ctx context.Context, e *domain.StepEvent) {
		if logger != nil {
			logger.DebugContext(ctx, string(e.Type), "session_id", e.SessionID, "step", e.Step)
		}
	}
	return domain.LifecycleHooks{
		OnStepEnter: func(ctx context.Context, e *domain.StepEvent) {
			log(ctx, e)
			m.stepVisits.WithLabelValues(string(e.Step)).Inc()
		},
		OnStepLeave: log,
		OnReject: func(ctx context.Context, e *domain.StepEvent) {
			log(ctx, e)
			m.rejections.WithLabelValues(string(e.Step)).Inc()
		},
		OnFinalize: func(ctx context.Context, e *domain.StepEvent) {
			log(ctx, e)
			m.finalized.Inc()
		},
	}
}

// ObserveTurn records how long a turn took on the given transport (http, mcp, cli).
func (m *Metrics) ObserveTurn(transport string, d time.Duration) {
	m.turnDuration.WithLabelValues(transport).Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry for tests and extra collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
