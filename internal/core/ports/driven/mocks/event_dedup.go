package mocks

import (
	"context"
	"sync"
)

// MockEventDeduplicator is an unbounded in-memory EventDeduplicator
type MockEventDeduplicator struct {
	mu   sync.Mutex
	seen map[string]bool
	err  error
}

func NewMockEventDeduplicator() *MockEventDeduplicator {
	return &MockEventDeduplicator{seen: make(map[string]bool)}
}

func (m *MockEventDeduplicator) ShouldProcess(ctx context.Context, eventID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	if m.seen[eventID] {
		return false, nil
	}
	m.seen[eventID] = true
	return true, nil
}

func (m *MockEventDeduplicator) Len(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.seen), nil
}

func (m *MockEventDeduplicator) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}
