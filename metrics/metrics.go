// Package metrics holds the prometheus collectors shared across the server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	// HTTPRequests counts requests by method, route and status class.
	HTTPRequests *prometheus.CounterVec
	// HTTPDuration observes request latency by route.
	HTTPDuration *prometheus.HistogramVec
	// ActivityEvents counts tracked engagement events by type.
	ActivityEvents *prometheus.CounterVec
	// ReservationsFinished counts reservation lifecycle outcomes.
	ReservationsFinished *prometheus.CounterVec
}

// New builds the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "commerce",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "commerce",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		ActivityEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "commerce",
			Name:      "activity_events_total",
			Help:      "Tracked activity events by type.",
		}, []string{"event_type"}),
		ReservationsFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "commerce",
			Name:      "reservations_finished_total",
			Help:      "Stock reservations by terminal status.",
		}, []string{"status"}),
	}
	reg.MustRegister(m.HTTPRequests, m.HTTPDuration, m.ActivityEvents, m.ReservationsFinished)
	return m
}
