package redis

import (
	"context"
	"fmt"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/fastygo/taskflow/repository"
)

type attemptCounter struct {
	client *redislib.Client
	prefix string
}

// NewAttemptCounter creates a Redis-backed fixed-window attempt counter.
// Windows are shared by every instance pointed at the same Redis.
func NewAttemptCounter(client *redislib.Client) repository.AttemptCounter {
	return &attemptCounter{
		client: client,
		prefix: "ratelimit:",
	}
}

func (r *attemptCounter) Hit(ctx context.Context, key string, window time.Duration) (int, error) {
	if window <= 0 {
		window = time.Minute
	}

	redisKey := r.key(key)
	var incr *redislib.IntCmd
	// SET NX EX and INCR run in one MULTI so the counter never exists without a TTL.
	_, err := r.client.TxPipelined(ctx, func(pipe redislib.Pipeliner) error {
		pipe.SetNX(ctx, redisKey, 0, window)
		incr = pipe.Incr(ctx, redisKey)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("count attempt: %w", err)
	}
	return int(incr.Val()), nil
}

func (r *attemptCounter) key(id string) string {
	return fmt.Sprintf("%s%s", r.prefix, id)
}
