package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/k02miu/inner-rag/internal/core/domain"
	"github.com/k02miu/inner-rag/internal/core/ports/driven"
	"github.com/k02miu/inner-rag/internal/core/ports/driving"
)

// Verify interface compliance
var _ driving.EventService = (*EventRouter)(nil)

// Event kinds used for metrics labels
const (
	EventKindFile     = "file"
	EventKindURL      = "url"
	EventKindQuestion = "question"
)

// EventRouter deduplicates mention events and routes them to ingestion
// or question answering.
type EventRouter struct {
	dedup     driven.EventDeduplicator
	ingestion driving.IngestionService
	query     driving.QueryService
	notifier  driven.Notifier
	metrics   driven.PipelineMetrics
	logger    *slog.Logger
}

// EventRouterConfig holds dependencies for EventRouter.
type EventRouterConfig struct {
	Dedup     driven.EventDeduplicator
	Ingestion driving.IngestionService
	Query     driving.QueryService
	Notifier  driven.Notifier
	Metrics   driven.PipelineMetrics
	Logger    *slog.Logger
}

// NewEventRouter creates a new event router.
func NewEventRouter(cfg EventRouterConfig) *EventRouter {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = driven.NopMetrics{}
	}

	return &EventRouter{
		dedup:     cfg.Dedup,
		ingestion: cfg.Ingestion,
		query:     cfg.Query,
		notifier:  cfg.Notifier,
		metrics:   metrics,
		logger:    logger,
	}
}

// HandleEvent processes one mention event. Attachments take precedence
// over URLs, which take precedence over questions.
func (r *EventRouter) HandleEvent(ctx context.Context, event *domain.InboundEvent) {
	thread := event.Thread()

	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("event handling panicked", "event_id", event.EventID, "panic", rec)
			post(ctx, r.notifier, r.logger, thread, noticeInternalError(fmt.Sprint(rec)))
		}
	}()

	if !r.firstDelivery(ctx, event.EventID) {
		r.logger.Info("skipping duplicate event", "event_id", event.EventID)
		r.metrics.EventDeduplicated()
		return
	}

	switch {
	case len(event.Attachments) > 0:
		r.metrics.EventReceived(EventKindFile)
		for _, file := range event.Attachments {
			r.ingestion.IngestFile(ctx, thread, file)
		}

	case domain.WantsURLIngestion(event.Text):
		r.metrics.EventReceived(EventKindURL)
		urls := domain.ExtractURLs(event.Text)
		if len(urls) == 0 {
			post(ctx, r.notifier, r.logger, thread, noticeMissingURL)
			return
		}
		for _, url := range urls {
			r.ingestion.IngestURL(ctx, thread, url)
		}

	default:
		r.metrics.EventReceived(EventKindQuestion)
		r.query.Answer(ctx, thread, event.Text)
	}
}

// firstDelivery reports whether the event should be processed.
// Events without an ID are always processed. If the dedup store fails
// the event is processed rather than dropped.
func (r *EventRouter) firstDelivery(ctx context.Context, eventID string) bool {
	if eventID == "" || r.dedup == nil {
		return true
	}
	ok, err := r.dedup.ShouldProcess(ctx, eventID)
	if err != nil {
		r.logger.Warn("dedup check failed, processing event", "event_id", eventID, "error", err)
		return true
	}
	return ok
}
