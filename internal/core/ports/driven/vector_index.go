package driven

import (
	"context"

	"github.com/k02miu/inner-rag/internal/core/domain"
)

// VectorIndex stores documents with their embeddings and answers
// nearest-neighbour queries.
type VectorIndex interface {
	// Upsert writes a document, replacing any document with the same ID
	Upsert(ctx context.Context, doc *domain.IndexedDocument) error

	// Query returns up to topK documents ordered by descending similarity
	Query(ctx context.Context, embedding []float32, topK int) ([]domain.SearchResult, error)

	// Delete removes a document by ID. Returns domain.ErrNotFound if absent.
	Delete(ctx context.Context, id string) error

	// HealthCheck verifies the index is reachable
	HealthCheck(ctx context.Context) error
}

// IndexProvisioner creates or updates the index schema.
// Implemented by backends that own their schema.
type IndexProvisioner interface {
	EnsureIndex(ctx context.Context) error
}
