package observability

import (
	"context"
	"net/http"

	"github.com/aretw0/chatsim/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace prefixes every metric name.
const Namespace = "chatsim"

// Metrics holds the simulator's Prometheus collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	Dispatches       *prometheus.CounterVec
	DispatchDuration *prometheus.HistogramVec
	NodeVisits       *prometheus.CounterVec
}

// NewMetrics creates and registers the collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Dispatches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "button_dispatch_total",
				Help:      "Button activations by type and outcome.",
			},
			[]string{"type", "outcome"},
		),
		DispatchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "button_dispatch_duration_seconds",
				Help:      "Time spent in a button action, dialogs included.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"type"},
		),
		NodeVisits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "node_visits_total",
				Help:      "Node entries across all sessions.",
			},
			[]string{"node_id"},
		),
	}
	m.registry.MustRegister(m.Dispatches, m.DispatchDuration, m.NodeVisits)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the metrics in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Hooks records every event into the collectors.
func (m *Metrics) Hooks() domain.DispatchHooks {
	return domain.DispatchHooks{
		OnDispatch: func(_ context.Context, e *domain.DispatchEvent) {
			t := e.ButtonType
			if t == "" {
				t = "none"
			}
			m.Dispatches.WithLabelValues(t, string(e.Outcome)).Inc()
			m.DispatchDuration.WithLabelValues(t).Observe(e.Duration.Seconds())
		},
		OnNavigate: func(_ context.Context, e *domain.NavigationEvent) {
			m.NodeVisits.WithLabelValues(e.To).Inc()
		},
	}
}
