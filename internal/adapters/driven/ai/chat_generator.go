package ai

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/k02miu/inner-rag/internal/core/ports/driven"
)

// Ensure ChatGenerator implements Generator
var _ driven.Generator = (*ChatGenerator)(nil)

const (
	defaultCompletionModel      = "gpt-4o-mini"
	defaultCompletionAPIVersion = "2025-01-31"
	defaultMaxCompletionTokens  = 1000
)

// ChatGenerator answers questions with a chat completion model.
type ChatGenerator struct {
	client       llms.Model
	model        string
	systemPrompt string
	maxTokens    int
	logger       *slog.Logger
}

// NewChatGenerator creates a generator from settings
func NewChatGenerator(s Settings) (*ChatGenerator, error) {
	provider, err := s.provider()
	if err != nil {
		return nil, err
	}
	if s.APIKey == "" {
		return nil, fmt.Errorf("%s API key is required", provider)
	}

	model := s.CompletionModel
	if model == "" {
		model = defaultCompletionModel
	}

	opts := []openai.Option{
		openai.WithToken(s.APIKey),
		openai.WithModel(model),
		openai.WithHTTPClient(&http.Client{Timeout: 60 * time.Second}),
	}
	if s.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(s.BaseURL))
	}
	if provider == ProviderAzure {
		if s.BaseURL == "" {
			return nil, fmt.Errorf("azure endpoint is required")
		}
		version := s.CompletionAPIVersion
		if version == "" {
			version = defaultCompletionAPIVersion
		}
		opts = append(opts, openai.WithAPIType(openai.APITypeAzure), openai.WithAPIVersion(version))
	}

	client, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create chat client: %w", err)
	}

	return newChatGenerator(client, model, s.SystemPrompt, s.MaxCompletionTokens), nil
}

func newChatGenerator(client llms.Model, model, systemPrompt string, maxTokens int) *ChatGenerator {
	if systemPrompt == "" {
		systemPrompt = DefaultSystemPrompt
	}
	if maxTokens <= 0 {
		maxTokens = defaultMaxCompletionTokens
	}
	return &ChatGenerator{
		client:       client,
		model:        model,
		systemPrompt: systemPrompt,
		maxTokens:    maxTokens,
		logger:       slog.Default().With("component", "chat-generator"),
	}
}

// Complete answers question from contextBlock. The answer is returned trimmed.
func (g *ChatGenerator) Complete(ctx context.Context, question, contextBlock string) (string, error) {
	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(g.systemPrompt)},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(userMessage(question, contextBlock))},
		},
	}

	g.logger.Debug("requesting completion", "model", g.model, "context_chars", len(contextBlock))

	resp, err := g.client.GenerateContent(ctx, content, llms.WithMaxTokens(g.maxTokens))
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Content), nil
}

// Model returns the model or deployment name
func (g *ChatGenerator) Model() string {
	return g.model
}

func userMessage(question, contextBlock string) string {
	return fmt.Sprintf("Question: %s\n\nContext:\n%s", question, contextBlock)
}
