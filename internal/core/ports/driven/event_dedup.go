package driven

import (
	"context"
)

// EventDeduplicator remembers recently seen event IDs so that redelivered
// events are processed once.
type EventDeduplicator interface {
	// ShouldProcess atomically checks and records eventID.
	// Returns true the first time an ID is seen and false afterwards,
	// until the ID has been evicted by newer ones.
	ShouldProcess(ctx context.Context, eventID string) (bool, error)

	// Len returns the number of IDs currently remembered
	Len(ctx context.Context) (int, error)
}
