package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// StopFunc releases a component during shutdown.
type StopFunc func(ctx context.Context) error

type component struct {
	name string
	stop StopFunc
}

// Manager runs long-lived components and stops them in reverse start order.
type Manager struct {
	timeout time.Duration
	logger  *zap.Logger

	mu         sync.Mutex
	components []component
	failures   chan error
}

func New(timeout time.Duration, logger *zap.Logger) *Manager {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		timeout:  timeout,
		logger:   logger,
		failures: make(chan error, 1),
	}
}

// OnStop registers a component to stop during Shutdown.
func (m *Manager) OnStop(name string, stop StopFunc) {
	if stop == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.components = append(m.components, component{name: name, stop: stop})
}

// Go runs fn in the background. A non-nil return ends Wait.
func (m *Manager) Go(name string, fn func() error) {
	go func() {
		if err := fn(); err != nil {
			select {
			case m.failures <- fmt.Errorf("%s: %w", name, err):
			default:
			}
		}
	}()
}

// Wait blocks until ctx ends, SIGINT/SIGTERM arrives or a component started
// with Go fails. Only the failure is returned.
func (m *Manager) Wait(ctx context.Context) error {
	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case <-sigCtx.Done():
		m.logger.Info("shutdown requested", zap.NamedError("cause", context.Cause(sigCtx)))
		return nil
	case err := <-m.failures:
		m.logger.Error("component failed", zap.Error(err))
		return err
	}
}

// Shutdown stops every registered component within the configured timeout.
func (m *Manager) Shutdown(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	m.mu.Lock()
	components := m.components
	m.components = nil
	m.mu.Unlock()

	var result error
	for i := len(components) - 1; i >= 0; i-- {
		c := components[i]
		if err := c.stop(ctx); err != nil {
			m.logger.Error("shutdown hook failed", zap.String("component", c.name), zap.Error(err))
			result = errors.Join(result, fmt.Errorf("%s: %w", c.name, err))
			continue
		}
		m.logger.Info("component stopped", zap.String("component", c.name))
	}
	return result
}
