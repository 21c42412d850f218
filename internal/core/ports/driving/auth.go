package driving

import (
	"context"
	"time"

	"github.com/k02miu/inner-rag/internal/core/domain"
)

// AuthService issues and validates admin API tokens
type AuthService interface {
	// IssueToken mints a token for subject with the given role and lifetime
	IssueToken(ctx context.Context, subject string, role domain.Role, ttl time.Duration) (string, error)

	// ValidateToken checks a token and returns the caller it identifies
	ValidateToken(ctx context.Context, token string) (*domain.AuthContext, error)
}
