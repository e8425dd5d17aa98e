package auth

import (
	"errors"
	"net/http"
	"strings"

	"log/slog"

	"github.com/vendora/vendora/internal/rbac"
	"github.com/vendora/vendora/internal/shared"
)

// Gate authenticates inbound requests: it locates the bearer credential,
// rejects revoked or invalid tokens, resolves the subject against the user
// store and attaches the resulting identity to the request context.
type Gate struct {
	logger *slog.Logger
	tokens *TokenManager
	store  RevocationStore
	users  Repository
}

// NewGate constructs a Gate.
func NewGate(logger *slog.Logger, tokens *TokenManager, store RevocationStore, users Repository) *Gate {
	return &Gate{logger: logger, tokens: tokens, store: store, users: users}
}

// Protect is the authentication middleware for ordinary protected routes.
func (g *Gate) Protect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			shared.Reject(w, http.StatusUnauthorized, "Not authorized, no token")
			return
		}

		revoked, err := g.store.Has(r.Context(), token)
		if err != nil {
			// Fail closed: an unreachable revocation store must not
			// let a possibly revoked credential through.
			if g.logger != nil {
				g.logger.Error("revocation lookup", slog.Any("error", err))
			}
			shared.Reject(w, http.StatusUnauthorized, "Not authorized, token failed")
			return
		}
		if revoked {
			shared.Reject(w, http.StatusUnauthorized, "Token has been invalidated")
			return
		}

		claims, err := g.tokens.Parse(token)
		if err != nil || claims.IsRefresh() {
			shared.Reject(w, http.StatusUnauthorized, "Not authorized, token failed")
			return
		}

		user, err := g.users.FindByID(r.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				shared.Reject(w, http.StatusUnauthorized, "User not found")
				return
			}
			if g.logger != nil {
				g.logger.Error("identity lookup", slog.Any("error", err))
			}
			shared.Reject(w, http.StatusUnauthorized, "Not authorized, token failed")
			return
		}

		identity := &rbac.Identity{
			ID:          user.ID,
			Role:        user.Role,
			Permissions: mergeGrants(user.Permissions, claims.Permissions),
		}
		next.ServeHTTP(w, r.WithContext(rbac.ContextWithIdentity(r.Context(), identity)))
	})
}

// RequireSuperAdmin rejects any identity below the top administrative role.
// Chain after Protect; it bypasses the permission matrix entirely.
func (g *Gate) RequireSuperAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity := rbac.IdentityFromContext(r.Context())
		if identity == nil || identity.Role != rbac.RoleSuperAdmin {
			shared.Reject(w, http.StatusForbidden, "Access denied. Super Admins only.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// bearerToken extracts the credential from the Authorization header or,
// failing that, the access-token cookie. The header wins when both are
// present.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	if cookie, err := r.Cookie(AccessTokenCookie); err == nil {
		return cookie.Value
	}
	return ""
}

// mergeGrants combines the stored direct grants with any grants embedded in
// the credential, deduplicated, stored grants first.
func mergeGrants(stored, claimed []rbac.Permission) []rbac.Permission {
	if len(claimed) == 0 {
		return stored
	}
	seen := make(map[rbac.Permission]struct{}, len(stored)+len(claimed))
	out := make([]rbac.Permission, 0, len(stored)+len(claimed))
	for _, p := range stored {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	for _, p := range claimed {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
