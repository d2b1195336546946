package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"handler", "method", "status_code"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"handler", "method", "status_code"},
	)
)

var (
	CheckoutSessionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "checkout_sessions_created_total",
			Help: "Total number of checkout sessions created",
		},
	)

	CheckoutFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkout_failures_total",
			Help: "Total number of failed checkout session requests",
		},
		[]string{"reason"},
	)

	PaymentIntentsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "payment_intents_created_total",
			Help: "Total number of payment intents created",
		},
	)

	CallbackRecordsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "callback_records_total",
			Help: "Total number of callback audit records appended",
		},
		[]string{"route", "kind"},
	)

	CallbackEnrichFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "callback_enrich_failures_total",
			Help: "Total number of failed gateway enrichment lookups",
		},
		[]string{"route"},
	)
)
