package rbac

// Role is a coarse-grained identity category. Every account carries exactly
// one role; the role determines the default permission set.
type Role string

// Defined roles.
const (
	RoleSuperAdmin Role = "SUPER_ADMIN"
	RoleVendor     Role = "VENDOR"
	RoleCustomer   Role = "CUSTOMER"
	RoleSupport    Role = "SUPPORT"
)

// Permission is an atomic capability token gating one action class.
// Permissions are non-hierarchical; no permission implies another.
type Permission string

// Defined permissions, namespaced by domain.
const (
	PermUserRead   Permission = "USER_READ"
	PermUserCreate Permission = "USER_CREATE"
	PermUserUpdate Permission = "USER_UPDATE"
	PermUserDelete Permission = "USER_DELETE"

	PermVendorRead    Permission = "VENDOR_READ"
	PermVendorCreate  Permission = "VENDOR_CREATE"
	PermVendorUpdate  Permission = "VENDOR_UPDATE"
	PermVendorApprove Permission = "VENDOR_APPROVE"
	PermVendorSuspend Permission = "VENDOR_SUSPEND"
	PermVendorDelete  Permission = "VENDOR_DELETE"

	PermProductRead     Permission = "PRODUCT_READ"
	PermProductCreate   Permission = "PRODUCT_CREATE"
	PermProductUpdate   Permission = "PRODUCT_UPDATE"
	PermProductDelete   Permission = "PRODUCT_DELETE"
	PermProductModerate Permission = "PRODUCT_MODERATE"

	PermOrderRead   Permission = "ORDER_READ"
	PermOrderCreate Permission = "ORDER_CREATE"
	PermOrderUpdate Permission = "ORDER_UPDATE"
	PermOrderCancel Permission = "ORDER_CANCEL"
	PermOrderRefund Permission = "ORDER_REFUND"

	PermCommissionRead      Permission = "COMMISSION_READ"
	PermCommissionConfigure Permission = "COMMISSION_CONFIGURE"

	PermPlatformSettings Permission = "PLATFORM_SETTINGS"
	PermAnalyticsView    Permission = "ANALYTICS_VIEW"
)

// Identity is the resolved, authenticated subject of a request. Permissions
// holds direct grants attached to the individual account; they augment the
// role's defaults and never restrict them.
type Identity struct {
	ID          string
	Role        Role
	Permissions []Permission
}

// Ownership describes the recorded owner fields of a resource. A resource
// may populate more than one field; matching any of them grants access.
type Ownership struct {
	VendorID string `json:"vendorId,omitempty"`
	UserID   string `json:"userId,omitempty"`
	OwnerID  string `json:"ownerId,omitempty"`
}
