// Package redisqueue implements the delayed-job queue on Redis: one hash per
// job plus a sorted set ordered by due time. Claiming is a ZREM race — only
// the remover that gets 1 back owns the job — so multiple runner processes
// can poll the same namespace safely.
package redisqueue

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"finance-notifier/internal/common/metrics"
	"finance-notifier/internal/queue"
)

const (
	hashFieldPayload     = "payload"
	hashFieldRunAt       = "run_at"
	hashFieldAttempt     = "attempt"
	hashFieldAttempts    = "attempts"
	hashFieldBackoffBase = "backoff_base_ms"
)

// Queue is the Redis-backed implementation of queue.Queue.
type Queue struct {
	client    *redis.Client
	namespace string
}

func New(client *redis.Client, namespace string) *Queue {
	return &Queue{client: client, namespace: namespace}
}

func (q *Queue) delayedKey() string {
	return q.namespace + ":delayed"
}

func (q *Queue) deadKey() string {
	return q.namespace + ":dead"
}

func (q *Queue) jobKey(jobID string) string {
	return q.namespace + ":job:" + jobID
}

// Enqueue stores the job and registers it on the delayed set with a due time
// of now+delay. Returns the opaque job handle.
func (q *Queue) Enqueue(ctx context.Context, payload []byte, opts queue.Options) (string, error) {
	jobID := uuid.New().String()
	runAt := time.Now().Add(opts.Delay)

	pipe := q.client.TxPipeline()
	pipe.HSet(ctx, q.jobKey(jobID), map[string]interface{}{
		hashFieldPayload:     payload,
		hashFieldRunAt:       runAt.UnixMilli(),
		hashFieldAttempt:     1,
		hashFieldAttempts:    opts.Attempts,
		hashFieldBackoffBase: opts.BackoffBase.Milliseconds(),
	})
	pipe.ZAdd(ctx, q.delayedKey(), redis.Z{
		Score:  float64(runAt.UnixMilli()),
		Member: jobID,
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return "", fmt.Errorf("enqueue job: %w", err)
	}

	metrics.QueueJobsEnqueued.Inc()
	return jobID, nil
}

// Cancel removes a not-yet-claimed job. Returns queue.ErrJobNotFound when the
// job is no longer on the delayed set, meaning it already fired or never
// existed.
func (q *Queue) Cancel(ctx context.Context, jobID string) error {
	removed, err := q.client.ZRem(ctx, q.delayedKey(), jobID).Result()
	if err != nil {
		return fmt.Errorf("remove job from delayed set: %w", err)
	}
	if removed == 0 {
		return queue.ErrJobNotFound
	}

	if err := q.client.Del(ctx, q.jobKey(jobID)).Err(); err != nil {
		return fmt.Errorf("delete job hash: %w", err)
	}
	return nil
}

// Get resolves a job handle. Jobs remain resolvable while claimed and
// in-flight; they disappear on completion, cancellation, or death.
func (q *Queue) Get(ctx context.Context, jobID string) (*queue.Job, error) {
	fields, err := q.client.HGetAll(ctx, q.jobKey(jobID)).Result()
	if err != nil {
		return nil, fmt.Errorf("load job hash: %w", err)
	}
	if len(fields) == 0 {
		return nil, queue.ErrJobNotFound
	}
	return jobFromHash(jobID, fields)
}

func jobFromHash(jobID string, fields map[string]string) (*queue.Job, error) {
	runAtMs, err := strconv.ParseInt(fields[hashFieldRunAt], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse job run_at: %w", err)
	}
	attempt, err := strconv.Atoi(fields[hashFieldAttempt])
	if err != nil {
		return nil, fmt.Errorf("parse job attempt: %w", err)
	}
	attempts, err := strconv.Atoi(fields[hashFieldAttempts])
	if err != nil {
		return nil, fmt.Errorf("parse job attempts: %w", err)
	}
	backoffMs, err := strconv.ParseInt(fields[hashFieldBackoffBase], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse job backoff: %w", err)
	}

	return &queue.Job{
		ID:          jobID,
		Payload:     []byte(fields[hashFieldPayload]),
		RunAt:       time.UnixMilli(runAtMs),
		Attempt:     attempt,
		Attempts:    attempts,
		BackoffBase: time.Duration(backoffMs) * time.Millisecond,
	}, nil
}
