package mocks

import (
	"github.com/k02miu/inner-rag/internal/core/domain"
)

// MockAuthAdapter treats the token string as the subject of an admin token
type MockAuthAdapter struct {
	Tokens map[string]*domain.TokenClaims
}

func NewMockAuthAdapter() *MockAuthAdapter {
	return &MockAuthAdapter{Tokens: make(map[string]*domain.TokenClaims)}
}

func (m *MockAuthAdapter) GenerateToken(claims *domain.TokenClaims) (string, error) {
	token := "token-" + claims.Subject
	m.Tokens[token] = claims
	return token, nil
}

func (m *MockAuthAdapter) ParseToken(token string) (*domain.TokenClaims, error) {
	claims, ok := m.Tokens[token]
	if !ok {
		return nil, domain.ErrTokenInvalid
	}
	return claims, nil
}
