package driven

import "github.com/k02miu/inner-rag/internal/core/domain"

// AuthAdapter handles admin token cryptographic operations
type AuthAdapter interface {
	GenerateToken(claims *domain.TokenClaims) (string, error)
	ParseToken(token string) (*domain.TokenClaims, error)
}
