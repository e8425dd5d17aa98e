package auth_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/vendora/vendora/internal/auth"
	"github.com/vendora/vendora/internal/rbac"
	"github.com/vendora/vendora/internal/shared"
	_ "github.com/vendora/vendora/testing"
)

type stubRepo struct {
	users map[string]*auth.User
	err   error
}

func (s *stubRepo) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (s *stubRepo) FindByID(ctx context.Context, id string) (*auth.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, shared.ErrNotFound
}

func (s *stubRepo) Create(ctx context.Context, user *auth.User) error {
	if s.err != nil {
		return s.err
	}
	for _, u := range s.users {
		if u.Email == user.Email {
			return shared.ErrEmailTaken
		}
	}
	if s.users == nil {
		s.users = make(map[string]*auth.User)
	}
	s.users[user.ID] = user
	return nil
}

type gateFixture struct {
	tokens *auth.TokenManager
	store  *auth.MemoryRevocationStore
	repo   *stubRepo
	gate   *auth.Gate
}

func newGateFixture(t *testing.T, users ...*auth.User) *gateFixture {
	t.Helper()
	repo := &stubRepo{users: make(map[string]*auth.User)}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	tokens := auth.NewTokenManager("test-secret", "vendora", 15*time.Minute, 7*24*time.Hour)
	store := auth.NewMemoryRevocationStore()
	return &gateFixture{
		tokens: tokens,
		store:  store,
		repo:   repo,
		gate:   auth.NewGate(nil, tokens, store, repo),
	}
}

func protectedEcho(f *gateFixture) http.Handler {
	return f.gate.Protect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity := rbac.IdentityFromContext(r.Context())
		shared.JSON(w, http.StatusOK, map[string]any{"id": identity.ID, "role": identity.Role})
	}))
}

func rejectionMessage(t *testing.T, res *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
	assert.False(t, body.Success)
	return body.Message
}

func TestProtectMissingToken(t *testing.T) {
	f := newGateFixture(t)
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	res := httptest.NewRecorder()
	protectedEcho(f).ServeHTTP(res, req)

	assert.Equal(t, http.StatusUnauthorized, res.Code)
	assert.Equal(t, "Not authorized, no token", rejectionMessage(t, res))
}

func TestProtectRevokedToken(t *testing.T) {
	user := testUser()
	f := newGateFixture(t, user)
	token, err := f.tokens.IssueAccess(user)
	require.NoError(t, err)
	require.NoError(t, f.store.Add(context.Background(), token, 15*time.Minute))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res := httptest.NewRecorder()
	protectedEcho(f).ServeHTTP(res, req)

	assert.Equal(t, http.StatusUnauthorized, res.Code)
	assert.Equal(t, "Token has been invalidated", rejectionMessage(t, res))
}

func TestProtectMalformedToken(t *testing.T) {
	f := newGateFixture(t)
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not.a.valid.token")
	res := httptest.NewRecorder()
	protectedEcho(f).ServeHTTP(res, req)

	assert.Equal(t, http.StatusUnauthorized, res.Code)
	assert.Equal(t, "Not authorized, token failed", rejectionMessage(t, res))
}

func TestProtectRejectsRefreshTokenAsAccess(t *testing.T) {
	user := testUser()
	f := newGateFixture(t, user)
	refresh, err := f.tokens.IssueRefresh(user)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+refresh)
	res := httptest.NewRecorder()
	protectedEcho(f).ServeHTTP(res, req)

	assert.Equal(t, http.StatusUnauthorized, res.Code)
	assert.Equal(t, "Not authorized, token failed", rejectionMessage(t, res))
}

func TestProtectUnknownSubject(t *testing.T) {
	user := testUser()
	f := newGateFixture(t) // user never stored
	token, err := f.tokens.IssueAccess(user)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res := httptest.NewRecorder()
	protectedEcho(f).ServeHTTP(res, req)

	assert.Equal(t, http.StatusUnauthorized, res.Code)
	assert.Equal(t, "User not found", rejectionMessage(t, res))
}

func TestProtectLookupFailureFailsClosed(t *testing.T) {
	user := testUser()
	f := newGateFixture(t, user)
	token, err := f.tokens.IssueAccess(user)
	require.NoError(t, err)
	f.repo.err = errors.New("connection refused")

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res := httptest.NewRecorder()
	protectedEcho(f).ServeHTTP(res, req)

	assert.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestProtectAttachesFreshIdentity(t *testing.T) {
	user := testUser()
	f := newGateFixture(t, user)
	token, err := f.tokens.IssueAccess(user)
	require.NoError(t, err)

	// The stored record changed after the token was minted; the gate must
	// serve the freshest role.
	user.Role = rbac.RoleSupport

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res := httptest.NewRecorder()
	protectedEcho(f).ServeHTTP(res, req)

	require.Equal(t, http.StatusOK, res.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
	assert.Equal(t, "u-1", body["id"])
	assert.Equal(t, "SUPPORT", body["role"])
}

func TestProtectAcceptsCookieCredential(t *testing.T) {
	user := testUser()
	f := newGateFixture(t, user)
	token, err := f.tokens.IssueAccess(user)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: auth.AccessTokenCookie, Value: token})
	res := httptest.NewRecorder()
	protectedEcho(f).ServeHTTP(res, req)

	assert.Equal(t, http.StatusOK, res.Code)
}

func TestProtectHeaderWinsOverCookie(t *testing.T) {
	user := testUser()
	f := newGateFixture(t, user)
	token, err := f.tokens.IssueAccess(user)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req.AddCookie(&http.Cookie{Name: auth.AccessTokenCookie, Value: "stale-cookie-token"})
	res := httptest.NewRecorder()
	protectedEcho(f).ServeHTTP(res, req)

	assert.Equal(t, http.StatusOK, res.Code)
}

func TestRequireSuperAdmin(t *testing.T) {
	admin := &auth.User{ID: "a-1", Email: "root@example.com", Role: rbac.RoleSuperAdmin, IsActive: true}
	vendor := testUser()
	f := newGateFixture(t, admin, vendor)

	handler := f.gate.Protect(f.gate.RequireSuperAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})))

	adminToken, err := f.tokens.IssueAccess(admin)
	require.NoError(t, err)
	vendorToken, err := f.tokens.IssueAccess(vendor)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	assert.Equal(t, http.StatusNoContent, res.Code)

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+vendorToken)
	res = httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	assert.Equal(t, http.StatusForbidden, res.Code)
	assert.Equal(t, "Access denied. Super Admins only.", rejectionMessage(t, res))
}

func TestLogoutInvalidatesAccessToken(t *testing.T) {
	user := testUser()
	f := newGateFixture(t, user)
	service := auth.NewService(f.repo, f.tokens, f.store)

	pair, err := service.IssueTokens(user)
	require.NoError(t, err)

	// Token works before logout.
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+pair.Access)
	res := httptest.NewRecorder()
	protectedEcho(f).ServeHTTP(res, req)
	require.Equal(t, http.StatusOK, res.Code)

	require.NoError(t, service.Logout(context.Background(), pair.Access, pair.Refresh))

	// Same token is now rejected before reaching the handler.
	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+pair.Access)
	res = httptest.NewRecorder()
	protectedEcho(f).ServeHTTP(res, req)
	assert.Equal(t, http.StatusUnauthorized, res.Code)
	assert.Equal(t, "Token has been invalidated", rejectionMessage(t, res))

	// The refresh token can no longer be redeemed either.
	_, _, err = service.Refresh(context.Background(), pair.Refresh)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)
	return string(hashed)
}
