package vendors

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/vendora/vendora/internal/rbac"
	"github.com/vendora/vendora/internal/shared"
)

// Handler wires HTTP endpoints for vendor management.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	guard     rbac.Guard
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, guard rbac.Guard) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		guard:     guard,
		validator: validator.New(),
	}
}

// MountRoutes registers vendor routes. The caller mounts these behind the
// authentication gate; permission checks happen here.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.guard.RequirePermission(rbac.PermVendorCreate)).Post("/", h.handleCreate)
	r.With(h.guard.RequirePermission(rbac.PermVendorRead)).Get("/{id}", h.handleGet)
	r.With(h.guard.RequirePermission(rbac.PermVendorApprove)).Post("/{id}/approve", h.handleApprove)
	r.With(h.guard.RequirePermission(rbac.PermVendorSuspend)).Post("/{id}/suspend", h.handleSuspend)
}

type createVendorRequest struct {
	BusinessName string `json:"businessName" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	PhoneNumber  string `json:"phoneNumber" validate:"omitempty"`
	Address      string `json:"address" validate:"omitempty"`
	City         string `json:"city" validate:"omitempty"`
	State        string `json:"state" validate:"omitempty"`
}

type vendorResponse struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	BusinessName string    `json:"businessName"`
	Email        string    `json:"email"`
	Status       Status    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}

func toVendorResponse(v *Vendor) vendorResponse {
	return vendorResponse{
		ID:           v.ID,
		UserID:       v.UserID,
		BusinessName: v.BusinessName,
		Email:        v.Email,
		Status:       v.Status,
		CreatedAt:    v.CreatedAt,
	}
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	identity := rbac.IdentityFromContext(r.Context())
	if identity == nil {
		shared.Reject(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req createVendorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.Reject(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.Reject(w, http.StatusBadRequest, err.Error())
		return
	}

	vendor, err := h.service.Create(r.Context(), &Vendor{
		UserID:       identity.ID,
		BusinessName: req.BusinessName,
		Email:        req.Email,
		PhoneNumber:  req.PhoneNumber,
		Address:      req.Address,
		City:         req.City,
		State:        req.State,
	})
	if err != nil {
		h.logger.Error("create vendor", slog.Any("error", err))
		shared.Reject(w, http.StatusInternalServerError, "Failed to create vendor")
		return
	}
	shared.JSON(w, http.StatusCreated, map[string]any{"success": true, "vendor": toVendorResponse(vendor)})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	vendor, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err, "fetch vendor")
		return
	}
	shared.JSON(w, http.StatusOK, map[string]any{"success": true, "vendor": toVendorResponse(vendor)})
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	vendor, err := h.service.Approve(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err, "approve vendor")
		return
	}
	shared.JSON(w, http.StatusOK, map[string]any{"success": true, "vendor": toVendorResponse(vendor)})
}

func (h *Handler) handleSuspend(w http.ResponseWriter, r *http.Request) {
	vendor, err := h.service.Suspend(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err, "suspend vendor")
		return
	}
	shared.JSON(w, http.StatusOK, map[string]any{"success": true, "vendor": toVendorResponse(vendor)})
}

func (h *Handler) respondError(w http.ResponseWriter, err error, op string) {
	if errors.Is(err, shared.ErrNotFound) {
		shared.Reject(w, http.StatusNotFound, "Resource not found")
		return
	}
	h.logger.Error(op, slog.Any("error", err))
	shared.Reject(w, http.StatusInternalServerError, "Internal server error")
}
