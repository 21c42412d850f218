package domain

import "time"

// Role represents an API caller's role
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleReader Role = "reader"
)

// IsValid checks if the role is a known value
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleReader
}

// TokenClaims represents the JWT token payload for the admin API
type TokenClaims struct {
	Subject   string `json:"sub"`
	Role      Role   `json:"role"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

// AuthContext contains the authenticated caller for request context
type AuthContext struct {
	Subject string `json:"subject"`
	Role    Role   `json:"role"`
}

// IsAdmin checks if the caller is an admin
func (a *AuthContext) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// DefaultTokenTTL is how long minted admin tokens stay valid
const DefaultTokenTTL = 24 * time.Hour
