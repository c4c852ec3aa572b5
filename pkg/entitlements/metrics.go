package entitlements

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	hitsTotal          *prometheus.CounterVec
	missesTotal        prometheus.Counter
	errorsTotal        prometheus.Counter
	evictionsTotal     prometheus.Counter
	invalidationsTotal prometheus.Counter
	guardTripsTotal    prometheus.Counter

	computationsTotal   *prometheus.CounterVec
	computationDuration prometheus.Histogram

	memoryEntries prometheus.Gauge
}

var metricsSingleton = sync.OnceValue(func() *metrics {
	return &metrics{
		hitsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "entitlements",
			Name:      "cache_hits_total",
			Help:      "Total number of cache hits, by serving tier.",
		}, []string{"tier"}),
		missesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "entitlements",
			Name:      "cache_misses_total",
			Help:      "Total number of cache misses.",
		}),
		errorsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "entitlements",
			Name:      "cache_errors_total",
			Help:      "Total number of swallowed storage failures.",
		}),
		evictionsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "entitlements",
			Name:      "cache_evictions_total",
			Help:      "Total number of memory-tier entries evicted under pressure.",
		}),
		invalidationsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "entitlements",
			Name:      "invalidations_total",
			Help:      "Total number of per-user invalidations.",
		}),
		guardTripsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "entitlements",
			Name:      "guard_trips_total",
			Help:      "Total number of computations blocked by the re-entrancy guard.",
		}),
		computationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "entitlements",
			Name:      "computations_total",
			Help:      "Total number of entitlement computations, by result.",
		}, []string{"result"}),
		computationDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: "entitlements",
			Name:      "computation_duration_seconds",
			Help:      "Latency distribution for entitlement computations.",
			Buckets: []float64{
				0.001, 0.002, 0.005,
				0.01, 0.02, 0.05,
				0.1, 0.2, 0.5,
				1, 2, 5,
			},
		}),
		memoryEntries: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: "entitlements",
			Name:      "memory_entries",
			Help:      "Current number of entries in the memory tier.",
		}),
	}
})

func getMetrics() *metrics {
	return metricsSingleton()
}
