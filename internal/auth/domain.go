package auth

import (
	"time"

	"github.com/vendora/vendora/internal/rbac"
)

// User represents a marketplace account.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         rbac.Role
	Permissions  []rbac.Permission
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TokenPair bundles the two credentials issued on a successful login: a
// short-lived access token and a long-lived refresh token.
type TokenPair struct {
	Access  string
	Refresh string
}

// Cookie names used for credential transport.
const (
	AccessTokenCookie  = "token"
	RefreshTokenCookie = "refreshToken"
)
