package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	deliveriesRecordedCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ledger",
			Name:      "deliveries_recorded_total",
			Help:      "Total delivery record attempts by outcome.",
		},
		[]string{"status"}, // "accepted", "duplicate_document", "duplicate_page", "validation_error", "error"
	)

	warningsFiledCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ledger",
			Name:      "warnings_filed_total",
			Help:      "Total warning messages filed.",
		},
		[]string{"message_genre"},
	)

	discardsFiledCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ledger",
			Name:      "discards_filed_total",
			Help:      "Total discard record attempts by outcome.",
		},
		[]string{"status"}, // "filed", "duplicate", "unknown_warning", "error"
	)

	warningResolutionsCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ledger",
			Name:      "warning_resolutions_total",
			Help:      "Total warning status toggles, with dependent discard rows updated.",
		},
		[]string{"message_genre"},
	)

	gapsDetectedCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ledger",
			Name:      "gaps_detected_total",
			Help:      "Gap entries found per detector run.",
		},
		[]string{"classification"}, // "explained", "unexplained"
	)

	operationDurationHist = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ledger",
			Name:      "operation_duration_seconds",
			Help:      "Duration of ledger service operations.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)
