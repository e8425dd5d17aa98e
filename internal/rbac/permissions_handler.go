package rbac

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vendora/vendora/internal/shared"
)

// PermissionsHandler exposes the permission catalog for administrative
// tooling.
type PermissionsHandler struct {
	guard Guard
}

// NewPermissionsHandler builds a PermissionsHandler instance.
func NewPermissionsHandler(guard Guard) *PermissionsHandler {
	return &PermissionsHandler{guard: guard}
}

// MountRoutes registers catalog routes.
func (h *PermissionsHandler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequirePermission(PermPlatformSettings))
		r.Get("/permissions", h.listPermissions)
		r.Get("/roles", h.listRoles)
	})
}

func (h *PermissionsHandler) listPermissions(w http.ResponseWriter, r *http.Request) {
	shared.JSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"permissions": AllPermissions(),
	})
}

func (h *PermissionsHandler) listRoles(w http.ResponseWriter, r *http.Request) {
	matrix := make(map[Role][]Permission, len(rolePermissions)+1)
	for _, role := range []Role{RoleSuperAdmin, RoleVendor, RoleCustomer, RoleSupport} {
		matrix[role] = RolePermissions(role)
	}
	shared.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"roles":   matrix,
	})
}
