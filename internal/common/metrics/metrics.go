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
)

var (
	QueryRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "procurement_query_runs_total",
			Help: "Pipeline runs by sort column and seed usage",
		},
		[]string{"sort_column", "seeded"},
	)

	QueryResultSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "procurement_query_result_size",
			Help:    "Number of procedures returned by a pipeline run",
			Buckets: []float64{0, 1, 10, 50, 100, 500, 1000, 5000},
		},
	)

	CatalogRecords = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "procurement_catalog_records",
			Help: "Procedures held in the current snapshot",
		},
	)

	CatalogSeeds = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "procurement_catalog_seeds",
			Help: "Seeds held in the current snapshot",
		},
	)

	SnapshotRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "procurement_snapshot_refreshes_total",
			Help: "Record snapshot reloads by result",
		},
		[]string{"result"},
	)

	SeedsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "procurement_seeds_created_total",
			Help: "Seeds created and persisted",
		},
	)

	SeedFallbackPromotions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "procurement_seed_fallback_promotions_total",
			Help: "Times the fallback seed collection was written back to the primary store",
		},
	)
)
