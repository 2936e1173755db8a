// Package metrics defines the application's Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ReceiptsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "splitscan_receipts_created_total",
		Help: "Number of receipts created.",
	})

	ReceiptsDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "splitscan_receipts_deleted_total",
		Help: "Number of receipts deleted, including bulk deletes.",
	})

	SplitsComputed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "splitscan_splits_computed_total",
		Help: "Number of split breakdowns computed, by mode.",
	}, []string{"mode"})

	ExtractionRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "splitscan_extraction_requests_total",
		Help: "Number of receipt extraction calls sent to the model.",
	})

	ExtractionFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "splitscan_extraction_failures_total",
		Help: "Number of failed receipt extraction calls.",
	})

	ExtractionCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "splitscan_extraction_cache_hits_total",
		Help: "Number of extraction requests served from the image cache.",
	})
)

// Handler returns the HTTP handler serving the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
