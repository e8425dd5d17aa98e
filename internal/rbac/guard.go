package rbac

import (
	"net/http"

	"log/slog"

	"github.com/vendora/vendora/internal/shared"
)

// Guard builds authorization middleware from the permission evaluator. Each
// factory returns a single-shot gate: either control passes to the next
// handler or the request terminates with a structured rejection.
type Guard struct {
	Logger *slog.Logger
}

// OwnershipResolver loads the ownership descriptor for the resource a
// request targets. Returning nil with no error means the resource does not
// exist.
type OwnershipResolver func(r *http.Request) (*Ownership, error)

// RequirePermission ensures the current identity holds the given permission.
func (g Guard) RequirePermission(required Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := IdentityFromContext(r.Context())
			if identity == nil {
				shared.Reject(w, http.StatusUnauthorized, "Authentication required")
				return
			}
			if !HasPermission(*identity, required) {
				shared.RejectRequired(w, http.StatusForbidden, "Insufficient permissions", required)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAny ensures the current identity holds at least one of the given
// permissions.
func (g Guard) RequireAny(required ...Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := IdentityFromContext(r.Context())
			if identity == nil {
				shared.Reject(w, http.StatusUnauthorized, "Authentication required")
				return
			}
			if !HasAnyPermission(*identity, required) {
				shared.RejectRequired(w, http.StatusForbidden, "Insufficient permissions", required)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAll ensures the current identity holds every one of the given
// permissions.
func (g Guard) RequireAll(required ...Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := IdentityFromContext(r.Context())
			if identity == nil {
				shared.Reject(w, http.StatusUnauthorized, "Authentication required")
				return
			}
			if !HasAllPermissions(*identity, required) {
				shared.RejectRequired(w, http.StatusForbidden, "Insufficient permissions", required)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireOwnership ensures the current identity owns the resource the
// request targets. The resolver's error is logged but never surfaced to the
// client.
func (g Guard) RequireOwnership(resolve OwnershipResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := IdentityFromContext(r.Context())
			if identity == nil {
				shared.Reject(w, http.StatusUnauthorized, "Authentication required")
				return
			}
			resource, err := resolve(r)
			if err != nil {
				if g.Logger != nil {
					g.Logger.Error("resolve resource ownership", slog.Any("error", err))
				}
				shared.Reject(w, http.StatusInternalServerError, "Error checking resource ownership")
				return
			}
			if resource == nil {
				shared.Reject(w, http.StatusNotFound, "Resource not found")
				return
			}
			if !CheckOwnership(identity.ID, *resource) {
				shared.Reject(w, http.StatusForbidden, "Access denied - resource ownership required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
