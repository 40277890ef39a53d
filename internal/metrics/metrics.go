// Package metrics declares the Prometheus collectors exported by the bot.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Update outcomes used as the "outcome" label of UpdatesTotal.
const (
	OutcomeOK             = "ok"
	OutcomeUnknownSession = "unknown_session"
	OutcomeInvalidFormat  = "invalid_format"
	OutcomeTooLarge       = "too_large"
	OutcomeError          = "error"
)

var (
	// UpdatesTotal counts handled Telegram updates by route and outcome.
	UpdatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "enrollbot_updates_total",
			Help: "Telegram updates handled, by route and outcome",
		},
		[]string{"route", "outcome"},
	)

	// StoreOperationDuration observes record store latency per operation.
	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "enrollbot_store_operation_duration_seconds",
			Help:    "Record store operation latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// IdentitiesCreated counts identity records created by /start.
	IdentitiesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "enrollbot_identities_created_total",
		Help: "Identity records created",
	})

	// Identities is the number of identity records, refreshed by a scheduled task.
	Identities = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "enrollbot_identities",
		Help: "Identity records currently stored",
	})
)

// ObserveStore records the duration of a store operation started at start.
func ObserveStore(operation string, start time.Time) {
	StoreOperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
