// internal/queue/redisqueue/runner.go
package redisqueue

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	errs "finance-notifier/internal/common/errors"
	"finance-notifier/internal/common/logger"
	"finance-notifier/internal/common/metrics"
	"finance-notifier/internal/queue"
)

const claimBatchSize = 100

// Handler processes a fired job. A nil return completes the job; an error is
// retried or dropped according to the job's retry policy and the error's
// retryability.
type Handler func(ctx context.Context, job queue.Job) error

// Runner polls the delayed set and dispatches due jobs to a bounded worker
// pool. Several runner processes may share one namespace; the ZREM claim
// guarantees each firing is handled by exactly one of them.
type Runner struct {
	queue        *Queue
	handler      Handler
	log          logger.Logger
	pollInterval time.Duration
	workerCount  int
}

func NewRunner(q *Queue, handler Handler, log logger.Logger, pollInterval time.Duration, workerCount int) *Runner {
	return &Runner{
		queue:        q,
		handler:      handler,
		log:          log.WithFields(map[string]interface{}{"component": "queue-runner"}),
		pollInterval: pollInterval,
		workerCount:  workerCount,
	}
}

// Run blocks until ctx is cancelled.
func (r *Runner) Run(ctx context.Context) {
	jobs := make(chan queue.Job)

	for i := 0; i < r.workerCount; i++ {
		go r.work(ctx, i, jobs)
	}

	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	r.log.Info("runner started", map[string]interface{}{
		"workers":      r.workerCount,
		"pollInterval": r.pollInterval.String(),
	})

	for {
		select {
		case <-ctx.Done():
			r.log.Info("runner stopped", nil)
			return
		case <-ticker.C:
			r.claimDue(ctx, jobs)
		}
	}
}

// claimDue moves every due job it can win from the delayed set into the
// worker channel.
func (r *Runner) claimDue(ctx context.Context, jobs chan<- queue.Job) {
	now := time.Now().UnixMilli()

	ids, err := r.queue.client.ZRangeByScore(ctx, r.queue.delayedKey(), &redis.ZRangeBy{
		Min:   "-inf",
		Max:   strconv.FormatInt(now, 10),
		Count: claimBatchSize,
	}).Result()
	if err != nil {
		r.log.WithError(err).Error("failed to poll delayed set", nil)
		return
	}

	for _, jobID := range ids {
		removed, err := r.queue.client.ZRem(ctx, r.queue.delayedKey(), jobID).Result()
		if err != nil {
			r.log.WithError(err).Error("failed to claim job", map[string]interface{}{"jobId": jobID})
			continue
		}
		if removed == 0 {
			// Lost the claim race to another runner.
			continue
		}

		fields, err := r.queue.client.HGetAll(ctx, r.queue.jobKey(jobID)).Result()
		if err != nil || len(fields) == 0 {
			r.log.WithError(err).Error("claimed job has no hash", map[string]interface{}{"jobId": jobID})
			continue
		}

		job, err := jobFromHash(jobID, fields)
		if err != nil {
			r.log.WithError(err).Error("claimed job is corrupt", map[string]interface{}{"jobId": jobID})
			r.queue.client.Del(ctx, r.queue.jobKey(jobID))
			continue
		}

		select {
		case <-ctx.Done():
			return
		case jobs <- *job:
		}
	}
}

func (r *Runner) work(ctx context.Context, id int, jobs <-chan queue.Job) {
	log := r.log.WithFields(map[string]interface{}{"worker": id})
	log.Debug("worker started", nil)

	for {
		select {
		case <-ctx.Done():
			log.Debug("worker shutting down", nil)
			return
		case job := <-jobs:
			err := r.handler(ctx, job)
			r.settle(ctx, job, err)
		}
	}
}

// settle records the outcome of one firing: complete, requeue with backoff,
// or move to the dead set once attempts are exhausted or the error is not
// retryable.
func (r *Runner) settle(ctx context.Context, job queue.Job, handlerErr error) {
	if handlerErr == nil {
		if err := r.queue.client.Del(ctx, r.queue.jobKey(job.ID)).Err(); err != nil {
			r.log.WithError(err).Error("failed to delete completed job", map[string]interface{}{"jobId": job.ID})
		}
		metrics.QueueJobsCompleted.Inc()
		return
	}

	if errs.IsRetryable(handlerErr) && job.Attempt < job.Attempts {
		backoff := job.BackoffBase << (job.Attempt - 1)
		runAt := time.Now().Add(backoff)

		pipe := r.queue.client.TxPipeline()
		pipe.HSet(ctx, r.queue.jobKey(job.ID), map[string]interface{}{
			hashFieldAttempt: job.Attempt + 1,
			hashFieldRunAt:   runAt.UnixMilli(),
		})
		pipe.ZAdd(ctx, r.queue.delayedKey(), redis.Z{
			Score:  float64(runAt.UnixMilli()),
			Member: job.ID,
		})
		if _, err := pipe.Exec(ctx); err != nil {
			r.log.WithError(err).Error("failed to requeue job", map[string]interface{}{"jobId": job.ID})
			return
		}

		metrics.QueueJobsRetried.Inc()
		r.log.WithError(handlerErr).Warn("job failed, retrying", map[string]interface{}{
			"jobId":   job.ID,
			"attempt": job.Attempt,
			"backoff": backoff.String(),
		})
		return
	}

	if err := r.queue.client.ZAdd(ctx, r.queue.deadKey(), redis.Z{
		Score:  float64(time.Now().UnixMilli()),
		Member: job.ID,
	}).Err(); err != nil {
		r.log.WithError(err).Error("failed to record dead job", map[string]interface{}{"jobId": job.ID})
	}

	metrics.QueueJobsDead.WithLabelValues(string(errs.CodeOf(handlerErr))).Inc()
	r.log.WithError(handlerErr).Error("job dropped", map[string]interface{}{
		"jobId":   job.ID,
		"attempt": job.Attempt,
	})
}
