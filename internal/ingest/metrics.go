package ingest

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// upsertsTotal counts upsert outcomes.
	// Labels: result (created, updated, skipped)
	upsertsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kbflow",
			Subsystem: "ingest",
			Name:      "upserts_total",
			Help:      "Total number of document upserts by outcome",
		},
		[]string{"result"},
	)

	// pollDuration tracks how long resources take to reach PROCESSED.
	pollDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "kbflow",
			Subsystem: "ingest",
			Name:      "poll_duration_seconds",
			Help:      "Time spent waiting for remote processing to complete",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		},
	)

	// watcherEventsTotal counts watcher-triggered re-ingestions.
	// Labels: result (ok, error)
	watcherEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kbflow",
			Subsystem: "ingest",
			Name:      "watcher_events_total",
			Help:      "Total number of watcher-triggered ingestions",
		},
		[]string{"result"},
	)
)
