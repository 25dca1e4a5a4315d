package engine

import (
	"sync"
	"time"
)

// TimeProvider abstracts the clock so frame timing is testable
type TimeProvider interface {
	Now() time.Time
}

// MonotonicTimeProvider returns real system time with monotonic clock
// readings, for measuring frame deltas
type MonotonicTimeProvider struct{}

// NewMonotonicTimeProvider creates a monotonic time provider
func NewMonotonicTimeProvider() *MonotonicTimeProvider {
	return &MonotonicTimeProvider{}
}

// Now returns the current time with monotonic clock reading
func (p *MonotonicTimeProvider) Now() time.Time {
	return time.Now()
}

// MockTimeProvider is a manually driven clock for tests: time stands
// still until Advance or SetTime moves it. Stored as a base instant
// plus an accumulated offset so repeated Advance calls cannot drift.
type MockTimeProvider struct {
	mu     sync.Mutex
	base   time.Time
	offset time.Duration
}

// NewMockTimeProvider creates a mock clock frozen at start
func NewMockTimeProvider(start time.Time) *MockTimeProvider {
	return &MockTimeProvider{base: start}
}

// Now returns the mocked instant
func (m *MockTimeProvider) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.base.Add(m.offset)
}

// Advance moves the clock forward by d
func (m *MockTimeProvider) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.offset += d
}

// SetTime jumps the clock to an absolute instant
func (m *MockTimeProvider) SetTime(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.base = t
	m.offset = 0
}
