package memory

import (
	"context"
	"sync"
	"time"

	"github.com/fastygo/taskflow/repository"
)

type window struct {
	started time.Time
	count   int
}

// AttemptCounter is a fixed-window counter that resets lazily on access.
type AttemptCounter struct {
	mu      sync.Mutex
	windows map[string]*window
	now     func() time.Time
}

func NewAttemptCounter() *AttemptCounter {
	return &AttemptCounter{windows: make(map[string]*window), now: time.Now}
}

// WithClock replaces the time source.
func (c *AttemptCounter) WithClock(now func() time.Time) *AttemptCounter {
	c.now = now
	return c
}

func (c *AttemptCounter) Hit(_ context.Context, key string, length time.Duration) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	w, ok := c.windows[key]
	if !ok || now.Sub(w.started) >= length {
		// drop stale keys so the map does not grow with every client ever seen
		for k, other := range c.windows {
			if now.Sub(other.started) >= length {
				delete(c.windows, k)
			}
		}
		w = &window{started: now}
		c.windows[key] = w
	}
	w.count++
	return w.count, nil
}

var _ repository.AttemptCounter = (*AttemptCounter)(nil)
