package auth

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/taskflow/domain"
	"github.com/fastygo/taskflow/repository"
)

// AttemptLimiter throttles credential endpoints per client key.
type AttemptLimiter struct {
	counter  repository.AttemptCounter
	attempts int
	window   time.Duration
	logger   *zap.Logger
}

// NewAttemptLimiter allows attempts hits per window. attempts <= 0 disables limiting.
func NewAttemptLimiter(counter repository.AttemptCounter, attempts int, window time.Duration, logger *zap.Logger) *AttemptLimiter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttemptLimiter{
		counter:  counter,
		attempts: attempts,
		window:   window,
		logger:   logger,
	}
}

// Allow records an attempt and returns ErrTooManyAttempts once the window is exhausted.
// Counter failures let the request through.
func (l *AttemptLimiter) Allow(ctx context.Context, scope, key string) error {
	if l == nil || l.counter == nil || l.attempts <= 0 {
		return nil
	}
	count, err := l.counter.Hit(ctx, scope+":"+key, l.window)
	if err != nil {
		l.logger.Warn("attempt counter unavailable", zap.String("scope", scope), zap.Error(err))
		return nil
	}
	if count > l.attempts {
		l.logger.Info("attempt limit reached", zap.String("scope", scope), zap.String("key", key), zap.Int("count", count))
		return domain.ErrTooManyAttempts
	}
	return nil
}
