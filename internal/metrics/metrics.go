// Package metrics holds the Prometheus collectors shared by the HTTP layer
// and the services.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "movie_catalog"

var (
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Latency of HTTP requests by route pattern.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	AuthAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Registrations, logins and token rotations by outcome.",
	}, []string{"operation", "outcome"})

	CatalogWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "catalog_writes_total",
		Help:      "Catalog mutations by entity, operation and outcome.",
	}, []string{"entity", "operation", "outcome"})

	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "movie_cache_lookups_total",
		Help:      "Movie read cache lookups by result.",
	}, []string{"result"})
)

// Outcome labels a finished operation.
func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
