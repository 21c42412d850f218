package driven

import (
	"context"
)

// Generator produces an answer to a question from retrieved context
type Generator interface {
	// Complete answers question using only the given context block.
	// An empty answer is returned as-is; callers treat it as a failure.
	Complete(ctx context.Context, question, contextBlock string) (string, error)

	// Model returns the model name being used
	Model() string
}
