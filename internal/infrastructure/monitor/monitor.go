package monitor

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingerFunc adapts a function, e.g. a redis client's Ping(ctx).Err(), to Pinger.
type PingerFunc func(ctx context.Context) error

func (f PingerFunc) Ping(ctx context.Context) error { return f(ctx) }

// Monitor probes the service dependencies on demand. It keeps no background state.
type Monitor struct {
	pg      Pinger
	redis   Pinger
	timeout time.Duration
	logger  *zap.Logger
	now     func() time.Time
}

// New builds a Monitor. redis may be nil when the service runs without Redis.
func New(pg Pinger, redis Pinger, timeout time.Duration, logger *zap.Logger) *Monitor {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		pg:      pg,
		redis:   redis,
		timeout: timeout,
		logger:  logger,
		now:     time.Now,
	}
}

// Check pings every dependency and returns their state.
func (m *Monitor) Check(ctx context.Context) Status {
	status := Status{
		PostgreSQL: m.probe(ctx, "postgresql", m.pg),
		CheckedAt:  m.now().UTC(),
	}
	if m.redis != nil {
		ok := m.probe(ctx, "redis", m.redis)
		status.Redis = &ok
	}
	return status
}

func (m *Monitor) probe(ctx context.Context, name string, target Pinger) bool {
	if target == nil {
		return false
	}
	probeCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	if err := target.Ping(probeCtx); err != nil {
		m.logger.Warn("dependency probe failed", zap.String("dependency", name), zap.Error(err))
		return false
	}
	return true
}
