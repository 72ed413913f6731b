package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	extractionStartedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "agreements",
		Subsystem: "extraction",
		Name:      "started_total",
		Help:      "Total extraction runs started.",
	})
	extractionCompletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "agreements",
		Subsystem: "extraction",
		Name:      "completed_total",
		Help:      "Total extraction runs completed.",
	})
	extractionFailedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "agreements",
		Subsystem: "extraction",
		Name:      "failed_total",
		Help:      "Total extraction runs failed.",
	})
	extractionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "agreements",
		Subsystem: "extraction",
		Name:      "duration_ms",
		Help:      "Extraction run duration in milliseconds.",
		Buckets:   []float64{250, 500, 1000, 2000, 5000, 10000, 30000, 60000, 120000},
	})

	upsertTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "agreements",
		Subsystem: "store",
		Name:      "upsert_total",
		Help:      "Total agreement upserts.",
	})
	validationSoftFailTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "agreements",
		Subsystem: "store",
		Name:      "validation_soft_fail_total",
		Help:      "Total records persisted with is_valid=false.",
	})

	workerJobsReceivedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "agreements",
		Subsystem: "worker",
		Name:      "jobs_received_total",
		Help:      "Total queue messages received.",
	})
	workerJobsCompletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "agreements",
		Subsystem: "worker",
		Name:      "jobs_completed_total",
		Help:      "Total queue messages fully processed and deleted.",
	})
	workerJobsFailedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "agreements",
		Subsystem: "worker",
		Name:      "jobs_failed_total",
		Help:      "Total queue messages whose processing failed.",
	})
	workerJobsUnrecoverableTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "agreements",
		Subsystem: "worker",
		Name:      "jobs_deleted_unrecoverable_total",
		Help:      "Total messages deleted without processing because they can never succeed.",
	})
)

// IncExtractionStarted increments the started counter.
func IncExtractionStarted() {
	extractionStartedTotal.Inc()
}

// IncExtractionCompleted increments the completed counter.
func IncExtractionCompleted() {
	extractionCompletedTotal.Inc()
}

// IncExtractionFailed increments the failed counter.
func IncExtractionFailed() {
	extractionFailedTotal.Inc()
}

// ObserveExtractionDurationMs records an extraction run duration in milliseconds.
func ObserveExtractionDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	extractionDuration.Observe(value)
}

// IncUpsert increments the agreement upsert counter.
func IncUpsert() {
	upsertTotal.Inc()
}

// IncValidationSoftFail counts records persisted with is_valid=false.
func IncValidationSoftFail() {
	validationSoftFailTotal.Inc()
}

// IncWorkerJobsReceived counts queue messages picked up by a worker.
func IncWorkerJobsReceived() {
	workerJobsReceivedTotal.Inc()
}

// IncWorkerJobsCompleted counts queue messages fully processed and deleted.
func IncWorkerJobsCompleted() {
	workerJobsCompletedTotal.Inc()
}

// IncWorkerJobsFailed counts queue messages whose processing failed.
func IncWorkerJobsFailed() {
	workerJobsFailedTotal.Inc()
}

// IncWorkerJobsDeletedUnrecoverable counts messages deleted without
// processing because they can never succeed.
func IncWorkerJobsDeletedUnrecoverable() {
	workerJobsUnrecoverableTotal.Inc()
}

// Handler exposes the default Prometheus registry on a gin route.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
