package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/k02miu/inner-rag/internal/core/domain"
	"github.com/k02miu/inner-rag/internal/core/ports/driven"
	"github.com/k02miu/inner-rag/internal/core/ports/driving"
)

// Verify interface compliance
var _ driving.IngestionService = (*IngestionOrchestrator)(nil)

// IngestionOrchestrator coordinates the ingestion pipeline:
//  1. Check the declared type (files only)
//  2. Download the file or fetch the URL
//  3. Extract text
//  4. Chunk (computed and reported; the whole text is indexed)
//  5. Embed the truncated text
//  6. Upsert into the vector index
//
// Each call ends with exactly one notice to the originating thread.
type IngestionOrchestrator struct {
	fileStore driven.FileStore
	fetcher   driven.Fetcher
	extractor driven.ContentExtractor
	chunker   driven.TextChunker
	embedder  driven.EmbeddingService
	index     driven.VectorIndex
	notifier  driven.Notifier
	metrics   driven.PipelineMetrics
	logger    *slog.Logger
}

// IngestionOrchestratorConfig holds dependencies for IngestionOrchestrator.
type IngestionOrchestratorConfig struct {
	FileStore driven.FileStore
	Fetcher   driven.Fetcher
	Extractor driven.ContentExtractor
	Chunker   driven.TextChunker
	Embedder  driven.EmbeddingService
	Index     driven.VectorIndex
	Notifier  driven.Notifier
	Metrics   driven.PipelineMetrics
	Logger    *slog.Logger
}

// NewIngestionOrchestrator creates a new ingestion orchestrator.
func NewIngestionOrchestrator(cfg IngestionOrchestratorConfig) *IngestionOrchestrator {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = driven.NopMetrics{}
	}

	return &IngestionOrchestrator{
		fileStore: cfg.FileStore,
		fetcher:   cfg.Fetcher,
		extractor: cfg.Extractor,
		chunker:   cfg.Chunker,
		embedder:  cfg.Embedder,
		index:     cfg.Index,
		notifier:  cfg.Notifier,
		metrics:   metrics,
		logger:    logger,
	}
}

// IngestFile downloads, extracts and indexes one chat attachment.
// Unsupported types are rejected before any download.
func (o *IngestionOrchestrator) IngestFile(ctx context.Context, thread domain.Thread, file domain.Attachment) domain.IngestResult {
	docType, ok := domain.ParseFileType(file.DeclaredType)
	if !ok {
		return o.finish(ctx, thread, docType, domain.IngestResult{
			Source:  file.Name,
			Outcome: domain.OutcomeUnsupportedType,
			Err:     fmt.Errorf("%w: %q", domain.ErrUnsupportedType, file.DeclaredType),
		}, noticeUnsupportedFile(file.Name))
	}

	o.logger.Info("ingesting file", "file_id", file.Ref, "name", file.Name, "type", docType)

	data, err := o.fileStore.Download(ctx, file.Ref)
	if err != nil {
		return o.finish(ctx, thread, docType, domain.IngestResult{
			Source:  file.Name,
			Outcome: domain.OutcomeDownloadFailed,
			Err:     fmt.Errorf("%w: %v", domain.ErrDownloadFailed, err),
		}, noticeDownloadFailed(file.Name))
	}

	text, err := o.extractor.ExtractFile(data, docType, file.Name)
	if err == nil && strings.TrimSpace(text) == "" {
		err = fmt.Errorf("%w: no text in %s", domain.ErrExtractionFailed, file.Name)
	}
	if err != nil {
		if errors.Is(err, domain.ErrUnsupportedType) {
			return o.finish(ctx, thread, docType, domain.IngestResult{
				Source: file.Name, Outcome: domain.OutcomeUnsupportedType, Err: err,
			}, noticeUnsupportedFile(file.Name))
		}
		return o.finish(ctx, thread, docType, domain.IngestResult{
			Source: file.Name, Outcome: domain.OutcomeExtractionFailed, Err: err,
		}, noticeFileExtractionFailed(file.Name))
	}

	return o.Ingest(ctx, thread, driving.IngestRequest{
		DocumentID: file.Ref,
		Text:       text,
		Source:     file.Name,
		Type:       docType,
	})
}

// IngestURL fetches, extracts and indexes one URL.
func (o *IngestionOrchestrator) IngestURL(ctx context.Context, thread domain.Thread, url string) domain.IngestResult {
	o.logger.Info("ingesting url", "url", url)

	res, err := o.fetcher.Get(ctx, url)
	if err != nil {
		return o.finish(ctx, thread, domain.DocTypeURL, domain.IngestResult{
			Source:  url,
			Outcome: domain.OutcomeFetchFailed,
			Err:     fmt.Errorf("%w: %v", domain.ErrFetchFailed, err),
		}, noticeFetchFailed(url))
	}

	text, err := o.extractor.ExtractWeb(res.Body, res.ContentType, url)
	if err == nil && strings.TrimSpace(text) == "" {
		err = fmt.Errorf("%w: no text at %s", domain.ErrExtractionFailed, url)
	}
	if err != nil {
		outcome := domain.OutcomeExtractionFailed
		if errors.Is(err, domain.ErrUnsupportedType) {
			outcome = domain.OutcomeUnsupportedType
		}
		return o.finish(ctx, thread, domain.DocTypeURL, domain.IngestResult{
			Source: url, Outcome: outcome, Err: err,
		}, noticeURLExtractionFailed(url))
	}

	return o.Ingest(ctx, thread, driving.IngestRequest{
		DocumentID: domain.URLDocumentID(url),
		Text:       text,
		Source:     url,
		Type:       domain.DocTypeURL,
	})
}

// Ingest embeds and indexes extracted text as a single document.
func (o *IngestionOrchestrator) Ingest(ctx context.Context, thread domain.Thread, req driving.IngestRequest) domain.IngestResult {
	startTime := time.Now()

	id := req.DocumentID
	if id == "" {
		id = domain.URLDocumentID(req.Source)
	}
	result := domain.IngestResult{Source: req.Source, DocumentID: id}

	if o.chunker != nil {
		result.Chunks = len(o.chunker.Chunk(req.Text))
	}

	embedding, err := o.embedder.Embed(ctx, domain.TruncateForEmbedding(req.Text))
	if err == nil && len(embedding) == 0 {
		err = errors.New("empty embedding")
	}
	if err != nil {
		result.Outcome = domain.OutcomeEmbeddingFailed
		result.Err = fmt.Errorf("%w: %v", domain.ErrEmbeddingFailed, err)
		return o.finish(ctx, thread, req.Type, result, noticeEmbeddingFailed(req.Source))
	}

	doc := &domain.IndexedDocument{
		ID:        id,
		Content:   req.Text,
		Embedding: embedding,
		Source:    req.Source,
		Type:      req.Type,
	}
	if err := o.index.Upsert(ctx, doc); err != nil {
		result.Outcome = domain.OutcomeIndexingFailed
		result.Err = fmt.Errorf("%w: %v", domain.ErrIndexingFailed, err)
		return o.finish(ctx, thread, req.Type, result, noticeIndexingFailed(req.Source))
	}

	result.Outcome = domain.OutcomeIndexed
	o.logger.Info("document indexed",
		"document_id", id,
		"source", req.Source,
		"chars", len([]rune(req.Text)),
		"chunks", result.Chunks,
		"duration", time.Since(startTime),
	)
	return o.finish(ctx, thread, req.Type, result, noticeIndexed(req.Source))
}

// finish records the outcome and posts its notice.
func (o *IngestionOrchestrator) finish(ctx context.Context, thread domain.Thread, docType domain.DocType, result domain.IngestResult, notice string) domain.IngestResult {
	if result.Err != nil {
		o.logger.Warn("ingestion failed", "source", result.Source, "outcome", result.Outcome, "error", result.Err)
	}
	o.metrics.IngestCompleted(docType, result.Outcome)
	post(ctx, o.notifier, o.logger, thread, notice)
	return result
}

// post sends a notice, logging delivery failures.
func post(ctx context.Context, notifier driven.Notifier, logger *slog.Logger, thread domain.Thread, text string) {
	if err := notifier.Post(ctx, thread.Channel, text, thread.ThreadRef); err != nil {
		logger.Error("failed to post notice", "channel", thread.Channel, "error", err)
	}
}
