package driving

import (
	"context"

	"github.com/k02miu/inner-rag/internal/core/domain"
)

// IngestRequest is extracted text ready to be embedded and indexed
type IngestRequest struct {
	DocumentID string
	Text       string
	Source     string
	Type       domain.DocType
}

// IngestionService adds content to the vector index.
// Every call posts exactly one notice to thread describing the outcome.
type IngestionService interface {
	// IngestFile downloads, extracts and indexes a chat attachment
	IngestFile(ctx context.Context, thread domain.Thread, file domain.Attachment) domain.IngestResult

	// IngestURL fetches, extracts and indexes a web page or document
	IngestURL(ctx context.Context, thread domain.Thread, url string) domain.IngestResult

	// Ingest embeds and indexes already extracted text
	Ingest(ctx context.Context, thread domain.Thread, req IngestRequest) domain.IngestResult
}
