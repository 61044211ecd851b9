package observability

import (
	"context"

	"github.com/aretw0/luckydraw/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the collectors updated by the lifecycle hooks.
type Metrics struct {
	StepLoads    *prometheus.CounterVec
	LoadDuration *prometheus.HistogramVec
	Draws        *prometheus.CounterVec
	Commits      *prometheus.CounterVec
	Halts        *prometheus.CounterVec
	Completed    prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg registers with the default Prometheus registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		StepLoads: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "luckydraw_step_loads_total",
			Help: "Total number of successful step loads",
		}, []string{"step"}),
		LoadDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "luckydraw_step_load_duration_seconds",
			Help:    "Duration of resource retrieval and parsing per step",
			Buckets: prometheus.DefBuckets,
		}, []string{"step"}),
		Draws: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "luckydraw_draws_total",
			Help: "Total number of draws per step",
		}, []string{"step"}),
		Commits: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "luckydraw_commits_total",
			Help: "Total number of committed picks per step",
		}, []string{"step"}),
		Halts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "luckydraw_halts_total",
			Help: "Total number of flows halted by a load failure",
		}, []string{"step"}),
		Completed: factory.NewCounter(prometheus.CounterOpts{
			Name: "luckydraw_flows_completed_total",
			Help: "Total number of flows with every step picked",
		}),
	}
}

// Hooks returns lifecycle hooks recording into the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStepLoad: func(_ context.Context, e *domain.StepEvent) {
			m.StepLoads.WithLabelValues(e.StepKey).Inc()
			m.LoadDuration.WithLabelValues(e.StepKey).Observe(e.Duration.Seconds())
		},
		OnDraw: func(_ context.Context, e *domain.StepEvent) {
			m.Draws.WithLabelValues(e.StepKey).Inc()
		},
		OnCommit: func(_ context.Context, e *domain.StepEvent) {
			m.Commits.WithLabelValues(e.StepKey).Inc()
		},
		OnHalt: func(_ context.Context, e *domain.HaltEvent) {
			m.Halts.WithLabelValues(e.StepKey).Inc()
		},
		OnComplete: func(context.Context, []domain.Entry) {
			m.Completed.Inc()
		},
	}
}
