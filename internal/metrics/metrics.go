package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RankDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "blogrank_rank_duration_seconds",
			Help:    "Time spent scoring and sorting a corpus",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"}, // "recommend", "search"
	)

	RankedBlogs = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blogrank_ranked_blogs_total",
			Help: "Total number of blogs scored",
		},
		[]string{"operation"},
	)

	DegradedItems = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "blogrank_degraded_items_total",
			Help: "Blogs that fell back to engagement-only scoring",
		},
	)

	LookupFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blogrank_lookup_failures_total",
			Help: "Failed author or interest lookups replaced by defaults",
		},
		[]string{"lookup"}, // "author", "interests"
	)

	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blogrank_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "blogrank_api_request_duration_seconds",
			Help:    "API request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	FeedItemsImported = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "blogrank_feed_items_imported_total",
			Help: "Blogs created from feed imports",
		},
	)
)

func RecordRank(operation string, blogs, degraded int, duration time.Duration) {
	RankDuration.WithLabelValues(operation).Observe(duration.Seconds())
	RankedBlogs.WithLabelValues(operation).Add(float64(blogs))
	DegradedItems.Add(float64(degraded))
}

func RecordLookupFailure(lookup string) {
	LookupFailures.WithLabelValues(lookup).Inc()
}

func RecordAPIRequest(method, route string, status int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
