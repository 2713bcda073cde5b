package gateway

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// Adapter translates between one external client surface and the
// canonical model. Dispatch never panics or returns an error past the
// adapter boundary: every failure becomes a protocol-shaped failure reply.
type Adapter interface {
	Name() string

	// Initialize marks the adapter healthy. It is idempotent and must not
	// take the process down on failure.
	Initialize(ctx context.Context) error

	// Shutdown clears adapter-local ephemeral state (sessions, command
	// history). It does not touch the health flag or counters.
	Shutdown(ctx context.Context) error

	// Dispatch validates and normalizes a protocol payload, runs it
	// through the central processor, and returns the protocol reply.
	Dispatch(ctx context.Context, payload json.RawMessage) any

	// Health reports the adapter's bookkeeping counters.
	Health() Health
}

// Health is the per-adapter status reported by the health endpoint.
type Health struct {
	Healthy      bool       `json:"healthy"`
	LastActivity *time.Time `json:"last_activity,omitempty"`
	MessageCount uint64     `json:"message_count"`
	ErrorCount   uint64     `json:"error_count"`

	// Variant-specific extras.
	ActiveSessions *int `json:"active_sessions,omitempty"`
	HistorySize    *int `json:"command_history_size,omitempty"`
}

// adapterStatus holds the counters every adapter maintains. Updates from
// concurrent dispatches on the same adapter go through one mutex so no
// read-modify-write is lost.
type adapterStatus struct {
	mu           sync.Mutex
	healthy      bool
	lastActivity time.Time
	messageCount uint64
	errorCount   uint64
}

func (s *adapterStatus) setHealthy(v bool) {
	s.mu.Lock()
	s.healthy = v
	s.mu.Unlock()
}

func (s *adapterStatus) isHealthy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.healthy
}

// recordMessage bumps the message counter and stamps activity.
func (s *adapterStatus) recordMessage() {
	s.mu.Lock()
	s.messageCount++
	s.lastActivity = time.Now()
	s.mu.Unlock()
}

// recordError bumps the error counter and stamps activity.
func (s *adapterStatus) recordError() {
	s.mu.Lock()
	s.errorCount++
	s.lastActivity = time.Now()
	s.mu.Unlock()
}

// touch stamps activity without counting a message, for locally handled
// work that never reaches the processor.
func (s *adapterStatus) touch() {
	s.mu.Lock()
	s.lastActivity = time.Now()
	s.mu.Unlock()
}

func (s *adapterStatus) health() Health {
	s.mu.Lock()
	defer s.mu.Unlock()

	h := Health{
		Healthy:      s.healthy,
		MessageCount: s.messageCount,
		ErrorCount:   s.errorCount,
	}
	if !s.lastActivity.IsZero() {
		last := s.lastActivity
		h.LastActivity = &last
	}
	return h
}
