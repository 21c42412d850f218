package driven

import (
	"context"
)

// EmbeddingService turns text into a fixed-length vector
type EmbeddingService interface {
	// Embed generates an embedding for one text.
	// Callers truncate the text before calling.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the embedding dimension size
	Dimensions() int

	// Model returns the model name being used
	Model() string

	// HealthCheck verifies the embedding service is available
	HealthCheck(ctx context.Context) error
}
