package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/vendora/vendora/internal/rbac"
)

// ErrInvalidToken covers every verification failure: bad signature,
// malformed structure, expired token, or wrong token type.
var ErrInvalidToken = errors.New("auth: invalid token")

// tokenTypeRefresh marks refresh credentials so they cannot authenticate
// ordinary requests.
const tokenTypeRefresh = "refresh"

// Claims carries the identity reference embedded in issued tokens. Access
// tokens include the role and any direct permission grants; refresh tokens
// carry only the subject id plus the refresh discriminator.
type Claims struct {
	UserID      string            `json:"uid"`
	Role        rbac.Role         `json:"role,omitempty"`
	Permissions []rbac.Permission `json:"perms,omitempty"`
	TokenType   string            `json:"type,omitempty"`
	jwt.RegisteredClaims
}

// IsRefresh reports whether the claims belong to a refresh credential.
func (c *Claims) IsRefresh() bool {
	return c.TokenType == tokenTypeRefresh
}

// TokenManager signs and verifies the HS256 credentials used by the API.
type TokenManager struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenManager constructs a TokenManager.
func NewTokenManager(secret, issuer string, accessTTL, refreshTTL time.Duration) *TokenManager {
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &TokenManager{
		secret:     []byte(secret),
		issuer:     issuer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// AccessTTL exposes the configured access-token lifetime.
func (m *TokenManager) AccessTTL() time.Duration {
	return m.accessTTL
}

// RefreshTTL exposes the configured refresh-token lifetime.
func (m *TokenManager) RefreshTTL() time.Duration {
	return m.refreshTTL
}

// IssueAccess signs a short-lived access token for the user.
func (m *TokenManager) IssueAccess(user *User) (string, error) {
	return m.sign(&Claims{
		UserID:      user.ID,
		Role:        user.Role,
		Permissions: user.Permissions,
	}, m.accessTTL)
}

// IssueRefresh signs a long-lived refresh token for the user.
func (m *TokenManager) IssueRefresh(user *User) (string, error) {
	return m.sign(&Claims{
		UserID:    user.ID,
		TokenType: tokenTypeRefresh,
	}, m.refreshTTL)
}

func (m *TokenManager) sign(claims *Claims, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Issuer:    m.issuer,
		Subject:   claims.UserID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		ID:        uuid.NewString(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies signature, structure and expiry, returning the embedded
// claims.
func (m *TokenManager) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, m.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// RemainingLifetime returns how long the token stays naturally valid,
// falling back to the supplied window when the expiry cannot be read. Used
// to size revocation entries on logout.
func (m *TokenManager) RemainingLifetime(tokenString string, fallback time.Duration) time.Duration {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, m.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation())
	if err != nil || claims.ExpiresAt == nil {
		return fallback
	}
	remaining := time.Until(claims.ExpiresAt.Time)
	if remaining <= 0 {
		// Already expired; keep the entry briefly so repeated logout
		// calls stay idempotent.
		return time.Second
	}
	return remaining
}

func (m *TokenManager) keyFunc(token *jwt.Token) (any, error) {
	return m.secret, nil
}
