package obs

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	OperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "treatment_operation_duration_seconds",
		Help:    "Duration of timed service operations",
		Buckets: prometheus.DefBuckets,
	}, []string{"op", "outcome"})

	RoutingRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "treatment_routing_requests_total",
		Help: "Outbound routing service requests by endpoint and outcome",
	}, []string{"endpoint", "outcome"})

	BulkResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "treatment_bulk_results_total",
		Help: "Per-site results of bulk operations",
	}, []string{"action", "outcome"})

	ReconcileDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "treatment_reconcile_dropped_total",
		Help: "Optimized trip waypoints that matched no local site",
	})

	TickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "treatment_tick_duration_seconds",
		Help:    "Time spent recomputing countdowns per tick",
		Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1},
	})

	SitesByTier = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "treatment_sites_by_tier",
		Help: "Number of sites in each countdown tier at the last tick",
	}, []string{"tier"})
)

// Handler exposes the default registry in the Prometheus text format.
func Handler() http.Handler { return promhttp.Handler() }
