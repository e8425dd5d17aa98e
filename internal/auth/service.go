package auth

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/vendora/vendora/internal/rbac"
	"github.com/vendora/vendora/internal/shared"
)

// Service wraps authentication business rules.
type Service struct {
	repo   Repository
	tokens *TokenManager
	store  RevocationStore
}

// NewService constructs a new Service.
func NewService(repo Repository, tokens *TokenManager, store RevocationStore) *Service {
	return &Service{repo: repo, tokens: tokens, store: store}
}

// Register creates an account and issues a token pair for auto-login.
func (s *Service) Register(ctx context.Context, name, email, password string, role rbac.Role) (*User, TokenPair, error) {
	if role == "" {
		role = rbac.RoleCustomer
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, TokenPair{}, err
	}
	user := &User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hashed),
		Role:         role,
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, TokenPair{}, err
	}
	pair, err := s.IssueTokens(user)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return user, pair, nil
}

// Authenticate validates email/password credentials. Every failure mode
// collapses into ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	return user, nil
}

// IssueTokens signs a fresh access/refresh pair for the user.
func (s *Service) IssueTokens(user *User) (TokenPair, error) {
	access, err := s.tokens.IssueAccess(user)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.tokens.IssueRefresh(user)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{Access: access, Refresh: refresh}, nil
}

// Logout registers both credentials with the revocation store for their
// remaining lifetimes. The session is only considered terminated once both
// entries are in place.
func (s *Service) Logout(ctx context.Context, access, refresh string) error {
	if access != "" {
		ttl := s.tokens.RemainingLifetime(access, s.tokens.AccessTTL())
		if err := s.store.Add(ctx, access, ttl); err != nil {
			return err
		}
	}
	if refresh != "" {
		ttl := s.tokens.RemainingLifetime(refresh, s.tokens.RefreshTTL())
		if err := s.store.Add(ctx, refresh, ttl); err != nil {
			return err
		}
	}
	return nil
}

// Refresh redeems a refresh credential for a new token pair. Only tokens
// carrying the refresh discriminator are accepted here.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*User, TokenPair, error) {
	revoked, err := s.store.Has(ctx, refreshToken)
	if err != nil {
		return nil, TokenPair{}, err
	}
	if revoked {
		return nil, TokenPair{}, ErrInvalidToken
	}
	claims, err := s.tokens.Parse(refreshToken)
	if err != nil {
		return nil, TokenPair{}, ErrInvalidToken
	}
	if !claims.IsRefresh() {
		return nil, TokenPair{}, ErrInvalidToken
	}
	user, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, TokenPair{}, ErrInvalidToken
	}
	pair, err := s.IssueTokens(user)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return user, pair, nil
}
