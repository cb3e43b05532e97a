package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"querybot/internal/models"
)

type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisClient connects and pings once so a dead server is reported at
// startup instead of on the first job.
func NewRedisClient(ctx context.Context, opts RedisOptions) (*redis.Client, error) {
	c := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("redis ping %s: %w", opts.Addr, err)
	}
	return c, nil
}

// RedisQueue is a FIFO list: producers LPUSH, consumers BRPOP. A popped job
// is gone from the list whether or not processing succeeds.
type RedisQueue struct {
	client      redis.UniversalClient
	key         string
	pollTimeout time.Duration
}

func NewRedisQueue(client redis.UniversalClient, key string, pollTimeout time.Duration) *RedisQueue {
	if pollTimeout <= 0 {
		pollTimeout = 5 * time.Second
	}
	return &RedisQueue{client: client, key: key, pollTimeout: pollTimeout}
}

func (q *RedisQueue) Enqueue(ctx context.Context, job models.IngestJob) error {
	payload, err := EncodeJob(job)
	if err != nil {
		return err
	}
	if err := q.client.LPush(ctx, q.key, payload).Err(); err != nil {
		return fmt.Errorf("enqueue job on %s: %w", q.key, err)
	}
	return nil
}

func (q *RedisQueue) Dequeue(ctx context.Context) (models.IngestJob, bool, error) {
	res, err := q.client.BRPop(ctx, q.pollTimeout, q.key).Result()
	if errors.Is(err, redis.Nil) {
		return models.IngestJob{}, false, nil
	}
	if err != nil {
		return models.IngestJob{}, false, fmt.Errorf("dequeue job from %s: %w", q.key, err)
	}
	if len(res) != 2 {
		return models.IngestJob{}, false, fmt.Errorf("dequeue job from %s: unexpected reply %v", q.key, res)
	}
	job, err := DecodeJob([]byte(res[1]))
	if err != nil {
		return models.IngestJob{}, true, err
	}
	return job, true, nil
}

func (q *RedisQueue) Len(ctx context.Context) (int64, error) {
	n, err := q.client.LLen(ctx, q.key).Result()
	if err != nil {
		return 0, fmt.Errorf("queue length of %s: %w", q.key, err)
	}
	return n, nil
}
