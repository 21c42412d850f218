package ai

import (
	"fmt"
	"strings"

	"github.com/k02miu/inner-rag/internal/core/domain"
)

// Supported AI providers
const (
	ProviderOpenAI = "openai"
	ProviderAzure  = "azure"
)

// DefaultSystemPrompt instructs the model to stay within retrieved context.
const DefaultSystemPrompt = `You are an assistant that answers questions about internal company documents.
Answer using only the provided context.
If the context does not contain the answer, say that the information is not in the context instead of guessing.
Keep answers concise and clear.`

// Settings configures the embedding and completion clients.
// For Azure, models are deployment names and BaseURL is the resource endpoint.
type Settings struct {
	Provider             string
	APIKey               string
	BaseURL              string
	EmbeddingModel       string
	EmbeddingAPIVersion  string
	Dimensions           int
	CompletionModel      string
	CompletionAPIVersion string
	MaxCompletionTokens  int
	SystemPrompt         string
}

func (s Settings) provider() (string, error) {
	p := strings.ToLower(strings.TrimSpace(s.Provider))
	if p == "" {
		p = ProviderOpenAI
	}
	switch p {
	case ProviderOpenAI, ProviderAzure:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %s", domain.ErrInvalidProvider, s.Provider)
	}
}

func (s Settings) embeddingModel() string {
	if s.EmbeddingModel == "" {
		return defaultEmbeddingModel
	}
	return s.EmbeddingModel
}

// EmbeddingDimensions returns the vector size the embedding model produces.
// An explicit Dimensions wins; otherwise known models map to their native
// size and unknown ones to 1536.
func (s Settings) EmbeddingDimensions() int {
	if s.Dimensions > 0 {
		return s.Dimensions
	}
	if d, ok := openAIModelDimensions[s.embeddingModel()]; ok {
		return d
	}
	return 1536
}
