// Package metrics exposes Prometheus instrumentation of the viewer.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	SelectionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "greenmap_selections_total",
		Help: "Committed selections by feature kind",
	}, []string{"kind"})
	PointerMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "greenmap_pointer_misses_total",
		Help: "Pointer interactions with no feature underneath",
	})
	CentroidFallbacksTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "greenmap_centroid_fallbacks_total",
		Help: "Selections that used the pointer location as directions target",
	})
	TreeCountFallbacksTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "greenmap_tree_count_fallbacks_total",
		Help: "Area selections whose tree count came from rendered tree points",
	})
	CatalogEntries = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "greenmap_catalog_entries",
		Help: "Number of catalogued area features",
	})
	CatalogSeedAttemptsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "greenmap_catalog_seed_attempts_total",
		Help: "Catalog population attempts by outcome",
	}, []string{"outcome"})
	RequestDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "greenmap_request_duration_ms",
		Help:    "HTTP request duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000},
	}, []string{"route"})
)

func init() {
	prometheus.MustRegister(SelectionsTotal)
	prometheus.MustRegister(PointerMissesTotal)
	prometheus.MustRegister(CentroidFallbacksTotal)
	prometheus.MustRegister(TreeCountFallbacksTotal)
	prometheus.MustRegister(CatalogEntries)
	prometheus.MustRegister(CatalogSeedAttemptsTotal)
	prometheus.MustRegister(RequestDurationMs)
}

// Handler serves the registered metrics.
func Handler() http.Handler { return promhttp.Handler() }
