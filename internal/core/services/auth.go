package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/k02miu/inner-rag/internal/core/domain"
	"github.com/k02miu/inner-rag/internal/core/ports/driven"
	"github.com/k02miu/inner-rag/internal/core/ports/driving"
)

// Verify interface compliance
var _ driving.AuthService = (*AuthService)(nil)

// AuthService implements driving.AuthService on top of a token adapter.
// Tokens are stateless; there is no session store to consult.
type AuthService struct {
	auth driven.AuthAdapter
	now  func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(auth driven.AuthAdapter) *AuthService {
	return &AuthService{auth: auth, now: time.Now}
}

// IssueToken mints a token for subject
func (s *AuthService) IssueToken(ctx context.Context, subject string, role domain.Role, ttl time.Duration) (string, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return "", fmt.Errorf("%w: subject is required", domain.ErrInvalidInput)
	}
	if !role.IsValid() {
		return "", fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, role)
	}
	if ttl <= 0 {
		ttl = domain.DefaultTokenTTL
	}

	now := s.now()
	return s.auth.GenerateToken(&domain.TokenClaims{
		Subject:   subject,
		Role:      role,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(ttl).Unix(),
	})
}

// ValidateToken parses token and returns the caller
func (s *AuthService) ValidateToken(ctx context.Context, token string) (*domain.AuthContext, error) {
	claims, err := s.auth.ParseToken(token)
	if err != nil {
		if errors.Is(err, domain.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}
	if claims.ExpiresAt != 0 && s.now().Unix() >= claims.ExpiresAt {
		return nil, domain.ErrTokenExpired
	}

	return &domain.AuthContext{
		Subject: claims.Subject,
		Role:    claims.Role,
	}, nil
}
