// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	NotificationsScheduled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "notifications_scheduled_total",
			Help: "Total number of notifications scheduled",
		},
	)

	NotificationsSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "notifications_sent_total",
			Help: "Total number of reminder emails delivered",
		},
	)

	NotificationsCancelled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_cancelled_total",
			Help: "Total number of notifications cancelled",
		},
		[]string{"reason"},
	)

	SendDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "notification_send_duration_seconds",
			Help: "Duration of reminder delivery in seconds",
		},
	)

	QueueJobsEnqueued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "queue_jobs_enqueued_total",
			Help: "Total number of delayed jobs enqueued",
		},
	)

	QueueJobsCompleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "queue_jobs_completed_total",
			Help: "Total number of delayed jobs completed",
		},
	)

	QueueJobsRetried = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "queue_jobs_retried_total",
			Help: "Total number of delayed job retries",
		},
	)

	QueueJobsDead = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "queue_jobs_dead_total",
			Help: "Total number of delayed jobs dropped after exhausting retries",
		},
		[]string{"error_code"},
	)

	CleanupRowsDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cleanup_rows_deleted_total",
			Help: "Total number of cancelled notifications purged",
		},
	)
)
