package report

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	reportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agrimind_reports_total",
		Help: "Intelligence reports served, by source.",
	}, []string{"source"})

	cacheInvalidations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agrimind_cache_invalidations_total",
		Help: "Decision-cache invalidations, by cause.",
	}, []string{"cause"})

	fusionFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agrimind_fusion_fallbacks_total",
		Help: "Upstream reads replaced by defaults during fusion, by store.",
	}, []string{"store"})

	computeSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "agrimind_report_compute_seconds",
		Help:    "Wall time to compute a fresh intelligence report.",
		Buckets: prometheus.DefBuckets,
	})
)
