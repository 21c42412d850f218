package mocks

import (
	"context"
	"sync"

	"github.com/k02miu/inner-rag/internal/core/ports/driven"
)

// MockFetcher serves canned responses keyed by URL
type MockFetcher struct {
	mu        sync.Mutex
	responses map[string]*driven.FetchResult
	errs      map[string]error
	requests  []string
}

func NewMockFetcher() *MockFetcher {
	return &MockFetcher{
		responses: make(map[string]*driven.FetchResult),
		errs:      make(map[string]error),
	}
}

func (m *MockFetcher) Get(ctx context.Context, url string) (*driven.FetchResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, url)
	if err, ok := m.errs[url]; ok {
		return nil, err
	}
	res, ok := m.responses[url]
	if !ok {
		return nil, context.DeadlineExceeded
	}
	return res, nil
}

func (m *MockFetcher) AddResponse(url, contentType string, body []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[url] = &driven.FetchResult{URL: url, ContentType: contentType, Body: body}
}

func (m *MockFetcher) SetError(url string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs[url] = err
}

func (m *MockFetcher) Requests() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.requests...)
}
