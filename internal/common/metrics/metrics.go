// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	RentalEvaluations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rental_evaluations_total",
			Help: "Total number of rental applications evaluated, by verdict",
		},
		[]string{"verdict"},
	)

	RentalEvaluationScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "rental_evaluation_score",
			Help:    "Distribution of rental application scores",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	ProfileCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rental_profile_cache_lookups_total",
			Help: "Renter profile cache lookups, by result (hit, miss, error)",
		},
		[]string{"result"},
	)

	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rental_notifications_total",
			Help: "Renter notifications attempted, by channel and status",
		},
		[]string{"channel", "status"},
	)
)

// ObserveEvaluation records a completed evaluation.
func ObserveEvaluation(verdict string, score int) {
	RentalEvaluations.WithLabelValues(verdict).Inc()
	RentalEvaluationScore.Observe(float64(score))
}
