package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	relCacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "relationship",
		Subsystem: "cache",
		Name:      "requests_total",
		Help:      "Total number of relationship tree cache lookups broken down by hit/miss.",
	}, []string{"cache", "result"})

	relCacheInvalidate = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "relationship",
		Subsystem: "cache",
		Name:      "invalidate_total",
		Help:      "Total number of relationship tree cache invalidations broken down by reason.",
	}, []string{"reason"})

	relWriteConflicts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "relationship",
		Subsystem: "write",
		Name:      "conflicts_total",
		Help:      "Total number of relationship write conflicts broken down by kind.",
	}, []string{"kind"})

	relMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "relationship",
		Subsystem: "write",
		Name:      "mutations_total",
		Help:      "Total number of relationship mutations broken down by operation and result kind.",
	}, []string{"operation", "result"})
)

func recordCacheRequest(cache string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	relCacheRequests.WithLabelValues(cache, result).Inc()
}

func recordCacheInvalidate(reason string) {
	if reason == "" {
		reason = "manual"
	}
	relCacheInvalidate.WithLabelValues(reason).Inc()
}

func recordWriteConflict(kind string) {
	if kind == "" {
		kind = "other"
	}
	relWriteConflicts.WithLabelValues(kind).Inc()
}

func recordMutation(operation string, result string) {
	if result == "" {
		result = "ok"
	}
	relMutations.WithLabelValues(operation, result).Inc()
}
