package proxyserver

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	upstream *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	f := promauto.With(reg)
	return &metrics{
		requests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "newsvox_proxy_requests_total",
				Help: "Total number of proxy requests",
			},
			[]string{"endpoint", "status"},
		),
		duration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "newsvox_proxy_request_duration_seconds",
				Help: "Proxy request duration in seconds",
			},
			[]string{"endpoint"},
		),
		upstream: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "newsvox_proxy_upstream_errors_total",
				Help: "Upstream failures by provider",
			},
			[]string{"provider"},
		),
	}
}
