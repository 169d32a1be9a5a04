package monitor

import "time"

// Status is the result of a single round of dependency probes.
type Status struct {
	PostgreSQL bool      `json:"postgresql"`
	Redis      *bool     `json:"redis,omitempty"`
	CheckedAt  time.Time `json:"checked_at"`
}

// Healthy reports whether every configured dependency answered.
func (s Status) Healthy() bool {
	return s.PostgreSQL && (s.Redis == nil || *s.Redis)
}
