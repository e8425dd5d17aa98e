package rbac

// HasPermission reports whether the identity may perform the action gated by
// required. Super admins pass unconditionally; direct grants are checked
// before the role matrix because they are an override, not a restriction.
func HasPermission(identity Identity, required Permission) bool {
	if identity.Role == RoleSuperAdmin {
		return true
	}
	for _, p := range identity.Permissions {
		if p == required {
			return true
		}
	}
	for _, p := range rolePermissions[identity.Role] {
		if p == required {
			return true
		}
	}
	return false
}

// HasAnyPermission reports whether the identity holds at least one of the
// listed permissions.
func HasAnyPermission(identity Identity, required []Permission) bool {
	for _, p := range required {
		if HasPermission(identity, p) {
			return true
		}
	}
	return false
}

// HasAllPermissions reports whether the identity holds every listed
// permission.
func HasAllPermissions(identity Identity, required []Permission) bool {
	for _, p := range required {
		if !HasPermission(identity, p) {
			return false
		}
	}
	return true
}

// CheckOwnership reports whether identityID matches any recorded owner field
// of the resource.
func CheckOwnership(identityID string, resource Ownership) bool {
	if identityID == "" {
		return false
	}
	return resource.VendorID == identityID ||
		resource.UserID == identityID ||
		resource.OwnerID == identityID
}

// EffectivePermissions returns the deduplicated union of the identity's role
// grants and direct grants, role grants first. Super admins receive the full
// universe regardless of direct grants.
func EffectivePermissions(identity Identity) []Permission {
	if identity.Role == RoleSuperAdmin {
		return AllPermissions()
	}
	granted := rolePermissions[identity.Role]
	seen := make(map[Permission]struct{}, len(granted)+len(identity.Permissions))
	out := make([]Permission, 0, len(granted)+len(identity.Permissions))
	for _, p := range granted {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	for _, p := range identity.Permissions {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
