package metrics

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	analysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "completeness_analyses_total",
			Help: "Total completeness analyses by outcome",
		},
		[]string{"document_type", "status"},
	)

	analysisDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "completeness_analysis_duration_seconds",
			Help:    "Time spent producing a completeness analysis",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.05, 0.25, 1, 5},
		},
		[]string{"document_type"},
	)

	scores = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "completeness_score",
			Help:    "Distribution of overall completeness scores",
			Buckets: prometheus.LinearBuckets(10, 10, 10),
		},
		[]string{"document_type"},
	)

	missingFields = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "completeness_missing_fields_total",
			Help: "Missing fields reported, by importance tier",
		},
		[]string{"document_type", "importance"},
	)

	workerJobs = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "completeness_worker_jobs_total",
			Help: "Queue messages handled by the worker, by outcome",
		},
		[]string{"outcome"},
	)
)

// Status labels for completeness_analyses_total.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusQueued    = "queued"
)

// IncAnalysis counts one analysis outcome.
func IncAnalysis(documentType, status string) {
	analysesTotal.WithLabelValues(label(documentType), status).Inc()
}

// ObserveAnalysisDuration records how long one engine run took.
func ObserveAnalysisDuration(documentType string, d time.Duration) {
	if d < 0 {
		d = 0
	}
	analysisDuration.WithLabelValues(label(documentType)).Observe(d.Seconds())
}

// ObserveScore records an overall score.
func ObserveScore(documentType string, score int) {
	scores.WithLabelValues(label(documentType)).Observe(float64(score))
}

// AddMissingFields counts n gaps of one importance tier.
func AddMissingFields(documentType, importance string, n int) {
	if n <= 0 {
		return
	}
	missingFields.WithLabelValues(label(documentType), importance).Add(float64(n))
}

// IncWorkerJob counts a worker message outcome (completed, failed, dropped, retry).
func IncWorkerJob(outcome string) {
	workerJobs.WithLabelValues(outcome).Inc()
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

func label(documentType string) string {
	if documentType == "" {
		return "unknown"
	}
	return documentType
}
