package authz

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	decisionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "authz",
		Subsystem: "enforcer",
		Name:      "decisions_total",
		Help:      "Authorization decisions broken down by mode, object and result.",
	}, []string{"mode", "object", "result"})

	decisionLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "authz",
		Subsystem: "enforcer",
		Name:      "latency_seconds",
		Help:      "Latency distribution for casbin evaluations.",
		Buckets: []float64{
			0.00005, 0.0001, 0.0005, 0.001,
			0.005, 0.01, 0.05,
		},
	}, []string{"mode"})
)

func recordDecision(mode Mode, object string, allowed bool, latency time.Duration) {
	result := "denied"
	if allowed {
		result = "allowed"
	}
	decisionsTotal.WithLabelValues(string(mode), object, result).Inc()
	decisionLatency.WithLabelValues(string(mode)).Observe(latency.Seconds())
}
