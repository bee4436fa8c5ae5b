// AngelaMos | 2026
// metrics.go

package core

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "pulse_crm"

type Metrics struct {
	RequestsTotal      *prometheus.CounterVec
	RequestDuration    *prometheus.HistogramVec
	NotificationsTotal *prometheus.CounterVec
	RealtimeClients    prometheus.Gauge
	RealtimeBroadcasts *prometheus.CounterVec
}

// NewMetrics registers all collectors on reg. Tests pass a fresh
// prometheus.NewRegistry() to avoid duplicate registration panics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "http_requests_total",
				Help:      "Total HTTP requests processed.",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency distributions.",
				Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
			[]string{"method", "route"},
		),
		NotificationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "notify",
				Name:      "lead_won_total",
				Help:      "Lead-won notifications by outcome.",
			},
			[]string{"outcome"},
		),
		RealtimeClients: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Subsystem: "realtime",
				Name:      "connected_clients",
				Help:      "Currently connected real-time subscribers.",
			},
		),
		RealtimeBroadcasts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "realtime",
				Name:      "broadcasts_total",
				Help:      "Real-time events broadcast by type.",
			},
			[]string{"type"},
		),
	}

	reg.MustRegister(
		m.RequestsTotal,
		m.RequestDuration,
		m.NotificationsTotal,
		m.RealtimeClients,
		m.RealtimeBroadcasts,
	)

	return m
}
