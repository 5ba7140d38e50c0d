package infra

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedis connects the shared go-redis client. Each job-pool worker parks a
// connection in BRPOP, so the pool is sized past the worker count to keep the
// unit-lookup cache and the transfer dispatcher from queueing behind them.
func NewRedis(redisURL string, workers int) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	if workers < 0 {
		workers = 0
	}
	opts.PoolSize = workers + 10
	opts.MinIdleConns = 2

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return rdb, nil
}
