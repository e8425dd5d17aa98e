package rbac

// allPermissions is the single authoritative enumeration of every defined
// permission. The super-admin grant is derived from it, so adding a
// permission here extends that grant without a second edit.
var allPermissions = []Permission{
	PermUserRead,
	PermUserCreate,
	PermUserUpdate,
	PermUserDelete,
	PermVendorRead,
	PermVendorCreate,
	PermVendorUpdate,
	PermVendorApprove,
	PermVendorSuspend,
	PermVendorDelete,
	PermProductRead,
	PermProductCreate,
	PermProductUpdate,
	PermProductDelete,
	PermProductModerate,
	PermOrderRead,
	PermOrderCreate,
	PermOrderUpdate,
	PermOrderCancel,
	PermOrderRefund,
	PermCommissionRead,
	PermCommissionConfigure,
	PermPlatformSettings,
	PermAnalyticsView,
}

// rolePermissions maps each non-admin role to its granted permissions.
// Read-only after init; RoleSuperAdmin is intentionally absent because its
// grant is the full universe.
var rolePermissions = map[Role][]Permission{
	RoleVendor: {
		PermProductRead,
		PermProductCreate,
		PermProductUpdate,
		PermProductDelete,
		PermOrderRead,
		PermOrderUpdate,
		PermCommissionRead,
	},
	RoleCustomer: {
		PermProductRead,
		PermOrderRead,
		PermOrderCreate,
		PermOrderCancel,
	},
	RoleSupport: {
		PermUserRead,
		PermVendorRead,
		PermProductRead,
		PermOrderRead,
		PermOrderUpdate,
	},
}

// AllPermissions returns the full permission universe.
func AllPermissions() []Permission {
	out := make([]Permission, len(allPermissions))
	copy(out, allPermissions)
	return out
}

// RolePermissions returns the permissions granted by a role. Unknown roles
// yield an empty slice, never an error.
func RolePermissions(role Role) []Permission {
	if role == RoleSuperAdmin {
		return AllPermissions()
	}
	perms, ok := rolePermissions[role]
	if !ok {
		return []Permission{}
	}
	out := make([]Permission, len(perms))
	copy(out, perms)
	return out
}
