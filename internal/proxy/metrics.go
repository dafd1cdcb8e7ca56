package proxy

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are the collectors of one proxy server.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates the proxy collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "iacup",
				Subsystem: "proxy",
				Name:      "requests_total",
				Help:      "Total number of proxied requests by route and status code",
			},
			[]string{"route", "code"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "iacup",
				Subsystem: "proxy",
				Name:      "invoke_duration_seconds",
				Help:      "Duration of function invocations in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~10s
			},
			[]string{"route"},
		),
	}
	reg.MustRegister(m.requests, m.duration)
	return m
}
