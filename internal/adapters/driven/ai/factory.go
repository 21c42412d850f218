package ai

import (
	"github.com/k02miu/inner-rag/internal/core/ports/driven"
)

// NewEmbeddingService creates the embedding service for the configured provider
func NewEmbeddingService(s Settings) (driven.EmbeddingService, error) {
	e, err := NewOpenAIEmbedding(s)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// NewGenerator creates the answer generator for the configured provider
func NewGenerator(s Settings) (driven.Generator, error) {
	g, err := NewChatGenerator(s)
	if err != nil {
		return nil, err
	}
	return g, nil
}
