package repository

import (
	"context"
	"time"
)

// AttemptCounter counts attempts per key inside a fixed window.
type AttemptCounter interface {
	// Hit records one attempt and returns the number of attempts in the current window.
	Hit(ctx context.Context, key string, window time.Duration) (int, error)
}
