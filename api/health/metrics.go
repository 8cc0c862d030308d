package health

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var startedAt = time.Now()

// Route metrics, labelled by chi route pattern rather than raw path.
var (
	HttpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "modfy",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Latency of storefront and admin API requests by route pattern",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "route", "status"},
	)

	HttpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "modfy",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Storefront and admin API requests by route pattern",
		},
		[]string{"method", "route", "status"},
	)

	HttpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "modfy",
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Requests currently being served",
		},
	)

	Uptime = prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: "modfy",
			Name:      "uptime_seconds",
			Help:      "Seconds since the process started",
		},
		func() float64 { return time.Since(startedAt).Seconds() },
	)
)
