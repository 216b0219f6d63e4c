package metadata

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	fetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "review_parser_fetches_total",
			Help: "Completed fetches against the review site, by HTTP status",
		},
		[]string{"status"},
	)

	fetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "review_parser_fetch_duration_seconds",
			Help:    "Wall time of fetches against the review site",
			Buckets: prometheus.DefBuckets,
		},
	)

	cacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "review_parser_cache_lookups_total",
			Help: "Cache lookups, by outcome (hit or miss)",
		},
		[]string{"outcome"},
	)

	cacheStores = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "review_parser_cache_stores_total",
			Help: "Parsed results stored in the cache",
		},
	)

	errorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "review_parser_errors_total",
			Help: "Errors observed by the metadata recorder, by cause",
		},
		[]string{"cause"},
	)
)
