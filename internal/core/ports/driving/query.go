package driving

import (
	"context"

	"github.com/k02miu/inner-rag/internal/core/domain"
)

// QueryService answers questions from indexed content.
// Every call posts exactly one notice or answer to thread.
type QueryService interface {
	Answer(ctx context.Context, thread domain.Thread, rawText string) domain.AnswerResult
}
