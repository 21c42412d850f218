package driving

import (
	"context"

	"github.com/k02miu/inner-rag/internal/core/domain"
)

// EventService handles inbound chat mention events
type EventService interface {
	// HandleEvent deduplicates and routes one event. It never panics;
	// unexpected failures are reported to the originating thread.
	HandleEvent(ctx context.Context, event *domain.InboundEvent)
}

// IndexAdminService exposes index maintenance operations
type IndexAdminService interface {
	// EnsureIndex provisions the index schema when the backend supports it
	EnsureIndex(ctx context.Context) error

	// DeleteDocument removes one document from the index
	DeleteDocument(ctx context.Context, id string) error

	// Health reports the health of index and dedup dependencies
	Health(ctx context.Context) map[string]error
}
