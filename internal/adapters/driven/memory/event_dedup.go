package memory

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/k02miu/inner-rag/internal/core/ports/driven"
)

// DefaultCapacity is the number of event IDs remembered
const DefaultCapacity = 1000

// Verify interface compliance
var _ driven.EventDeduplicator = (*EventDeduplicator)(nil)

// EventDeduplicator remembers the most recent event IDs in process memory.
// IDs are never read back after insertion, so the cache evicts in
// insertion order.
type EventDeduplicator struct {
	seen *lru.Cache[string, struct{}]
}

// NewEventDeduplicator creates a deduplicator holding up to capacity IDs.
func NewEventDeduplicator(capacity int) (*EventDeduplicator, error) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	cache, err := lru.New[string, struct{}](capacity)
	if err != nil {
		return nil, fmt.Errorf("create dedup cache: %w", err)
	}
	return &EventDeduplicator{seen: cache}, nil
}

// ShouldProcess records eventID and reports whether it was new.
func (d *EventDeduplicator) ShouldProcess(_ context.Context, eventID string) (bool, error) {
	found, _ := d.seen.ContainsOrAdd(eventID, struct{}{})
	return !found, nil
}

// Len returns the number of remembered IDs.
func (d *EventDeduplicator) Len(_ context.Context) (int, error) {
	return d.seen.Len(), nil
}
