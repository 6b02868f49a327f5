// Package metrics registers the service's Prometheus collectors and exposes
// the scrape handler mounted at /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "geocell_requests_total",
		Help: "Total HTTP requests by route and status",
	}, []string{"route", "status"})
	RequestDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "geocell_request_duration_ms",
		Help:    "Request duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000},
	})
	CacheCellHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "geocell_cache_cell_hits_total",
		Help: "Covered cells that held at least one cached item",
	})
	CacheCellMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "geocell_cache_cell_misses_total",
		Help: "Covered cells with no cached items",
	})
	CoverCellsTotal = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "geocell_cover_cells_total",
		Help:    "Number of cells produced per region covering",
		Buckets: []float64{1, 2, 4, 9, 16, 25, 50, 100, 250},
	})
	MarkersIndexed = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "geocell_markers_indexed",
		Help: "Markers currently held in the quadtree index",
	})
)

func init() {
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(RequestDurationMs)
	prometheus.MustRegister(CacheCellHitsTotal)
	prometheus.MustRegister(CacheCellMissesTotal)
	prometheus.MustRegister(CoverCellsTotal)
	prometheus.MustRegister(MarkersIndexed)
}

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler { return promhttp.Handler() }
