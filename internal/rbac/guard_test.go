package rbac_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendora/vendora/internal/rbac"
	_ "github.com/vendora/vendora/testing"
)

func passThrough(t *testing.T, hit *bool) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*hit = true
		w.WriteHeader(http.StatusNoContent)
	})
}

func doGuarded(t *testing.T, mw func(http.Handler) http.Handler, identity *rbac.Identity) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	hit := false
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	if identity != nil {
		req = req.WithContext(rbac.ContextWithIdentity(req.Context(), identity))
	}
	res := httptest.NewRecorder()
	mw(passThrough(t, &hit)).ServeHTTP(res, req)
	return res, hit
}

func decodeRejection(t *testing.T, res *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
	return body
}

func TestRequirePermissionNoIdentity(t *testing.T) {
	guard := rbac.Guard{}
	res, hit := doGuarded(t, guard.RequirePermission(rbac.PermProductRead), nil)

	assert.Equal(t, http.StatusUnauthorized, res.Code)
	assert.False(t, hit)
	body := decodeRejection(t, res)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Authentication required", body["message"])
}

func TestRequirePermissionDenied(t *testing.T) {
	guard := rbac.Guard{}
	customer := &rbac.Identity{ID: "u-1", Role: rbac.RoleCustomer}
	res, hit := doGuarded(t, guard.RequirePermission(rbac.PermVendorApprove), customer)

	assert.Equal(t, http.StatusForbidden, res.Code)
	assert.False(t, hit)
	body := decodeRejection(t, res)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Insufficient permissions", body["message"])
	assert.Equal(t, "VENDOR_APPROVE", body["required"])
}

func TestRequirePermissionPasses(t *testing.T) {
	guard := rbac.Guard{}
	vendor := &rbac.Identity{ID: "v-1", Role: rbac.RoleVendor}
	res, hit := doGuarded(t, guard.RequirePermission(rbac.PermProductCreate), vendor)

	assert.Equal(t, http.StatusNoContent, res.Code)
	assert.True(t, hit)
}

func TestRequireAnyReportsAllRequired(t *testing.T) {
	guard := rbac.Guard{}
	customer := &rbac.Identity{ID: "u-1", Role: rbac.RoleCustomer}
	res, hit := doGuarded(t, guard.RequireAny(rbac.PermVendorApprove, rbac.PermVendorSuspend), customer)

	assert.Equal(t, http.StatusForbidden, res.Code)
	assert.False(t, hit)
	body := decodeRejection(t, res)
	assert.Equal(t, []any{"VENDOR_APPROVE", "VENDOR_SUSPEND"}, body["required"])
}

func TestRequireAllPartialGrantDenied(t *testing.T) {
	guard := rbac.Guard{}
	vendor := &rbac.Identity{ID: "v-1", Role: rbac.RoleVendor}
	res, hit := doGuarded(t, guard.RequireAll(rbac.PermProductRead, rbac.PermPlatformSettings), vendor)

	assert.Equal(t, http.StatusForbidden, res.Code)
	assert.False(t, hit)

	res, hit = doGuarded(t, guard.RequireAll(rbac.PermProductRead, rbac.PermOrderUpdate), vendor)
	assert.Equal(t, http.StatusNoContent, res.Code)
	assert.True(t, hit)
}

func TestRequireOwnership(t *testing.T) {
	guard := rbac.Guard{}
	owner := &rbac.Identity{ID: "v-7", Role: rbac.RoleVendor}

	t.Run("resolver error yields 500", func(t *testing.T) {
		mw := guard.RequireOwnership(func(r *http.Request) (*rbac.Ownership, error) {
			return nil, errors.New("connection reset")
		})
		res, hit := doGuarded(t, mw, owner)
		assert.Equal(t, http.StatusInternalServerError, res.Code)
		assert.False(t, hit)
		assert.Equal(t, "Error checking resource ownership", decodeRejection(t, res)["message"])
	})

	t.Run("absent resource yields 404", func(t *testing.T) {
		mw := guard.RequireOwnership(func(r *http.Request) (*rbac.Ownership, error) {
			return nil, nil
		})
		res, hit := doGuarded(t, mw, owner)
		assert.Equal(t, http.StatusNotFound, res.Code)
		assert.False(t, hit)
		assert.Equal(t, "Resource not found", decodeRejection(t, res)["message"])
	})

	t.Run("foreign resource yields 403", func(t *testing.T) {
		mw := guard.RequireOwnership(func(r *http.Request) (*rbac.Ownership, error) {
			return &rbac.Ownership{VendorID: "v-other"}, nil
		})
		res, hit := doGuarded(t, mw, owner)
		assert.Equal(t, http.StatusForbidden, res.Code)
		assert.False(t, hit)
		assert.Equal(t, "Access denied - resource ownership required", decodeRejection(t, res)["message"])
	})

	t.Run("owned resource passes", func(t *testing.T) {
		mw := guard.RequireOwnership(func(r *http.Request) (*rbac.Ownership, error) {
			return &rbac.Ownership{VendorID: "v-7", UserID: "someone-else"}, nil
		})
		res, hit := doGuarded(t, mw, owner)
		assert.Equal(t, http.StatusNoContent, res.Code)
		assert.True(t, hit)
	})

	t.Run("no identity yields 401 before resolving", func(t *testing.T) {
		resolved := false
		mw := guard.RequireOwnership(func(r *http.Request) (*rbac.Ownership, error) {
			resolved = true
			return &rbac.Ownership{}, nil
		})
		res, hit := doGuarded(t, mw, nil)
		assert.Equal(t, http.StatusUnauthorized, res.Code)
		assert.False(t, hit)
		assert.False(t, resolved)
	})
}

func TestGuardChainFailsFast(t *testing.T) {
	guard := rbac.Guard{}
	customer := &rbac.Identity{ID: "u-1", Role: rbac.RoleCustomer}

	resolved := false
	ownership := guard.RequireOwnership(func(r *http.Request) (*rbac.Ownership, error) {
		resolved = true
		return &rbac.Ownership{UserID: "u-1"}, nil
	})
	chain := guard.RequirePermission(rbac.PermVendorApprove)(ownership(passThrough(t, new(bool))))

	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	req = req.WithContext(rbac.ContextWithIdentity(req.Context(), customer))
	res := httptest.NewRecorder()
	chain.ServeHTTP(res, req)

	assert.Equal(t, http.StatusForbidden, res.Code)
	assert.False(t, resolved, "later checks must not run after a rejection")
}
