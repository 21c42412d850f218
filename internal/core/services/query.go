package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/k02miu/inner-rag/internal/core/domain"
	"github.com/k02miu/inner-rag/internal/core/ports/driven"
	"github.com/k02miu/inner-rag/internal/core/ports/driving"
)

// Verify interface compliance
var _ driving.QueryService = (*QueryOrchestrator)(nil)

// QueryOrchestrator answers questions from the vector index.
// It posts exactly one message per question: the answer or a notice.
type QueryOrchestrator struct {
	embedder  driven.EmbeddingService
	index     driven.VectorIndex
	generator driven.Generator
	notifier  driven.Notifier
	metrics   driven.PipelineMetrics
	topK      int
	logger    *slog.Logger
}

// QueryOrchestratorConfig holds dependencies for QueryOrchestrator.
type QueryOrchestratorConfig struct {
	Embedder  driven.EmbeddingService
	Index     driven.VectorIndex
	Generator driven.Generator
	Notifier  driven.Notifier
	Metrics   driven.PipelineMetrics
	TopK      int // defaults to domain.DefaultTopK
	Logger    *slog.Logger
}

// NewQueryOrchestrator creates a new query orchestrator.
func NewQueryOrchestrator(cfg QueryOrchestratorConfig) *QueryOrchestrator {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = driven.NopMetrics{}
	}
	topK := cfg.TopK
	if topK <= 0 {
		topK = domain.DefaultTopK
	}

	return &QueryOrchestrator{
		embedder:  cfg.Embedder,
		index:     cfg.Index,
		generator: cfg.Generator,
		notifier:  cfg.Notifier,
		metrics:   metrics,
		topK:      topK,
		logger:    logger,
	}
}

// WithNotifier returns a copy of the orchestrator that posts to n.
func (o *QueryOrchestrator) WithNotifier(n driven.Notifier) *QueryOrchestrator {
	cp := *o
	cp.notifier = n
	return &cp
}

// Answer strips mentions from rawText, retrieves the closest documents and
// generates an answer grounded in them.
func (o *QueryOrchestrator) Answer(ctx context.Context, thread domain.Thread, rawText string) domain.AnswerResult {
	question := domain.StripMentions(rawText)
	result := domain.AnswerResult{Question: question}

	if question == "" {
		result.Outcome = domain.OutcomeEmptyQuestion
		return o.finish(ctx, thread, result, noticeEmptyQuestion)
	}

	o.logger.Info("answering question", "channel", thread.Channel, "question_chars", len([]rune(question)))

	embedding, err := o.embedder.Embed(ctx, domain.TruncateForEmbedding(question))
	if err == nil && len(embedding) == 0 {
		err = fmt.Errorf("empty embedding")
	}
	if err != nil {
		result.Outcome = domain.OutcomeEmbeddingFailed
		result.Err = fmt.Errorf("%w: %v", domain.ErrEmbeddingFailed, err)
		return o.finish(ctx, thread, result, noticeQuestionEmbedding)
	}

	hits, err := o.index.Query(ctx, embedding, o.topK)
	if err != nil {
		result.Outcome = domain.OutcomeSearchFailed
		result.Err = fmt.Errorf("%w: %v", domain.ErrSearchFailed, err)
		return o.finish(ctx, thread, result, noticeSearchFailed)
	}
	if len(hits) == 0 {
		result.Outcome = domain.OutcomeNoRelevantResults
		return o.finish(ctx, thread, result, noticeNoResults)
	}
	result.Sources = hits

	answer, err := o.generator.Complete(ctx, question, domain.BuildContext(hits))
	answer = strings.TrimSpace(answer)
	if err == nil && answer == "" {
		err = fmt.Errorf("empty answer")
	}
	if err != nil {
		result.Outcome = domain.OutcomeGenerationFailed
		result.Err = fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
		return o.finish(ctx, thread, result, noticeGenerationFailed)
	}

	result.Answer = answer
	result.Outcome = domain.OutcomeAnswered
	return o.finish(ctx, thread, result, answer)
}

func (o *QueryOrchestrator) finish(ctx context.Context, thread domain.Thread, result domain.AnswerResult, message string) domain.AnswerResult {
	if result.Err != nil {
		o.logger.Warn("question failed", "outcome", result.Outcome, "error", result.Err)
	}
	o.metrics.QueryCompleted(result.Outcome)
	post(ctx, o.notifier, o.logger, thread, message)
	return result
}
