package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// resultSuccess labels successful resolutions; failures use the error kind.
const resultSuccess = "success"

type metrics struct {
	resolutions        *prometheus.CounterVec
	resolutionDuration prometheus.Histogram
	requestCount       *prometheus.CounterVec
	requestDuration    *prometheus.HistogramVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	factory := promauto.With(reg)
	return &metrics{
		resolutions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "eosio_resolutions_total",
				Help: "Total number of did:eosio resolutions, by result.",
			},
			[]string{"result"},
		),
		resolutionDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "eosio_resolution_duration_seconds",
				Help:    "did:eosio resolution duration in seconds.",
				Buckets: prometheus.DefBuckets,
			},
		),
		requestCount: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests made.",
			},
			[]string{"method", "route", "code"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}
}
