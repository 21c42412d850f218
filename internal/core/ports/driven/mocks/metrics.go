package mocks

import (
	"fmt"
	"sync"
	"time"

	"github.com/k02miu/inner-rag/internal/core/domain"
)

// MockMetrics counts recorded measurements
type MockMetrics struct {
	mu           sync.Mutex
	Events       map[string]int
	Deduplicated int
	Ingests      map[domain.Outcome]int
	Queries      map[domain.Outcome]int
	Requests     map[string]int // "METHOD route status"
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{
		Events:   make(map[string]int),
		Ingests:  make(map[domain.Outcome]int),
		Queries:  make(map[domain.Outcome]int),
		Requests: make(map[string]int),
	}
}

func (m *MockMetrics) EventReceived(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events[kind]++
}

func (m *MockMetrics) EventDeduplicated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Deduplicated++
}

func (m *MockMetrics) IngestCompleted(docType domain.DocType, outcome domain.Outcome) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Ingests[outcome]++
}

func (m *MockMetrics) QueryCompleted(outcome domain.Outcome) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Queries[outcome]++
}

func (m *MockMetrics) HTTPRequest(method, route string, status int, elapsed time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests[fmt.Sprintf("%s %s %d", method, route, status)]++
}
