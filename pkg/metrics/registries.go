package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OperationRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "feedzone_processed_operations_total",
		Help: "The total number of processed zone operations",
	}, []string{"operation", "result"})
	ListRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "feedzone_processed_list_ops_total",
		Help: "The total number of processed list feeds requests",
	})
	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "feedzone_processed_cache_hits_ops_total",
		Help: "The total number of cache hits",
	})
	CacheMiss = promauto.NewCounter(prometheus.CounterOpts{
		Name: "feedzone_processed_cache_miss_ops_total",
		Help: "The total number of cache misses",
	})
	AppErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "feedzone_errors_total",
		Help: "Number of errors for the app.",
	}, []string{"type"})
	ZoneChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "feedzone_zone_changes_total",
		Help: "Number of successful writes against the zone by record type.",
	}, []string{"record_type", "kind"})
	SweepResults = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "feedzone_sweep_results",
		Help: "Orphaned feed sweep results",
	}, []string{"result"})
)
