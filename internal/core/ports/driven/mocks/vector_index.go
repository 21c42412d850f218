package mocks

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/k02miu/inner-rag/internal/core/domain"
)

// MockVectorIndex is an in-memory VectorIndex ranking by cosine similarity
type MockVectorIndex struct {
	mu        sync.RWMutex
	docs      map[string]*domain.IndexedDocument
	upsertErr error
	queryErr  error
	queries   int
}

// NewMockVectorIndex creates a new MockVectorIndex
func NewMockVectorIndex() *MockVectorIndex {
	return &MockVectorIndex{
		docs: make(map[string]*domain.IndexedDocument),
	}
}

func (m *MockVectorIndex) Upsert(ctx context.Context, doc *domain.IndexedDocument) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.upsertErr != nil {
		return m.upsertErr
	}
	cp := *doc
	m.docs[doc.ID] = &cp
	return nil
}

func (m *MockVectorIndex) Query(ctx context.Context, embedding []float32, topK int) ([]domain.SearchResult, error) {
	m.mu.Lock()
	m.queries++
	m.mu.Unlock()

	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.queryErr != nil {
		return nil, m.queryErr
	}

	results := make([]domain.SearchResult, 0, len(m.docs))
	for _, doc := range m.docs {
		results = append(results, domain.SearchResult{
			ID:      doc.ID,
			Content: doc.Content,
			Source:  doc.Source,
			Type:    doc.Type,
			Score:   cosine(embedding, doc.Embedding),
		})
	}
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score == results[j].Score {
			return results[i].ID < results[j].ID
		}
		return results[i].Score > results[j].Score
	})
	if topK > 0 && len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

func (m *MockVectorIndex) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.docs, id)
	return nil
}

func (m *MockVectorIndex) HealthCheck(ctx context.Context) error {
	return nil
}

func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// Helper methods for testing

func (m *MockVectorIndex) SetUpsertError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upsertErr = err
}

func (m *MockVectorIndex) SetQueryError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queryErr = err
}

func (m *MockVectorIndex) Get(id string) *domain.IndexedDocument {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.docs[id]
}

func (m *MockVectorIndex) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.docs)
}

func (m *MockVectorIndex) Queries() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.queries
}

func (m *MockVectorIndex) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs = make(map[string]*domain.IndexedDocument)
	m.upsertErr = nil
	m.queryErr = nil
	m.queries = 0
}
