package search

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// searchesTotal counts executed searches.
	// Labels: strategy (semantic, hybrid, merged)
	searchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kbflow",
			Subsystem: "search",
			Name:      "queries_total",
			Help:      "Total number of executed searches by strategy",
		},
		[]string{"strategy"},
	)

	// cacheHitsTotal counts comparison-cache hits.
	cacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "kbflow",
			Subsystem: "search",
			Name:      "comparison_cache_hits_total",
			Help:      "Total number of comparisons served from cache",
		},
	)

	// cacheMissesTotal counts comparison-cache misses.
	cacheMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "kbflow",
			Subsystem: "search",
			Name:      "comparison_cache_misses_total",
			Help:      "Total number of comparisons that had to query all strategies",
		},
	)
)
