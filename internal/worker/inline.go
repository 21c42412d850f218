package worker

import (
	"context"
	"time"

	"github.com/k02miu/inner-rag/internal/core/domain"
	"github.com/k02miu/inner-rag/internal/core/ports/driving"
)

// Inline handles each event on the caller's goroutine. Dispatch returns once
// the event has been fully handled.
type Inline struct {
	events  driving.EventService
	timeout time.Duration
}

// NewInline creates a synchronous dispatcher. A non-positive timeout means
// the 5 minute default.
func NewInline(events driving.EventService, timeout time.Duration) *Inline {
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &Inline{events: events, timeout: timeout}
}

// Dispatch handles event before returning. It never fails.
func (d *Inline) Dispatch(event *domain.InboundEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	d.events.HandleEvent(ctx, event)
	return nil
}
