package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "portfolio", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "portfolio", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
	// SourceResults counts waterfall attempts per source and outcome (hit, empty, error).
	SourceResults = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "portfolio", Name: "reconcile_source_results_total", Help: "Waterfall attempts by source and outcome."},
		[]string{"op", "source", "outcome"},
	)
	BlobUploads = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "portfolio", Name: "blob_uploads_total", Help: "Blob uploads by backend and outcome."},
		[]string{"backend", "outcome"},
	)
	// OrphanedBlobs counts uploads whose metadata write failed afterwards.
	OrphanedBlobs = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "portfolio", Name: "orphaned_blobs_total", Help: "Uploaded blobs left unreferenced by a failed metadata write."},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(SourceResults)
	reg.MustRegister(BlobUploads)
	reg.MustRegister(OrphanedBlobs)
}
