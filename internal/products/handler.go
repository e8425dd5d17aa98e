package products

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/vendora/vendora/internal/rbac"
	"github.com/vendora/vendora/internal/shared"
)

// Handler wires HTTP endpoints for the product catalog. Mutating routes on
// an existing product chain a permission check with an ownership check, so a
// vendor can only touch its own listings.
type Handler struct {
	logger    *slog.Logger
	repo      Repository
	guard     rbac.Guard
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, repo Repository, guard rbac.Guard) *Handler {
	return &Handler{
		logger:    logger,
		repo:      repo,
		guard:     guard,
		validator: validator.New(),
	}
}

// MountRoutes registers product routes behind the authentication gate.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.guard.RequirePermission(rbac.PermProductRead)).Get("/{id}", h.handleGet)
	r.With(h.guard.RequirePermission(rbac.PermProductCreate)).Post("/", h.handleCreate)
	r.With(
		h.guard.RequirePermission(rbac.PermProductUpdate),
		h.guard.RequireOwnership(h.resolveOwnership),
	).Put("/{id}", h.handleUpdate)
	r.With(
		h.guard.RequirePermission(rbac.PermProductDelete),
		h.guard.RequireOwnership(h.resolveOwnership),
	).Delete("/{id}", h.handleDelete)
}

// resolveOwnership adapts the repository lookup to the guard's resolver
// contract: absent products map to (nil, nil) so the guard answers 404.
func (h *Handler) resolveOwnership(r *http.Request) (*rbac.Ownership, error) {
	ownership, err := h.repo.Ownership(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return ownership, nil
}

type productRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	PriceCents  int64  `json:"priceCents" validate:"required,gt=0"`
	IsPublished bool   `json:"isPublished"`
}

type productResponse struct {
	ID          string    `json:"id"`
	VendorID    string    `json:"vendorId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	PriceCents  int64     `json:"priceCents"`
	IsPublished bool      `json:"isPublished"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toProductResponse(p *Product) productResponse {
	return productResponse{
		ID:          p.ID,
		VendorID:    p.VendorID,
		Name:        p.Name,
		Description: p.Description,
		PriceCents:  p.PriceCents,
		IsPublished: p.IsPublished,
		CreatedAt:   p.CreatedAt,
	}
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	product, err := h.repo.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err, "fetch product")
		return
	}
	shared.JSON(w, http.StatusOK, map[string]any{"success": true, "product": toProductResponse(product)})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	identity := rbac.IdentityFromContext(r.Context())
	if identity == nil {
		shared.Reject(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.Reject(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.Reject(w, http.StatusBadRequest, err.Error())
		return
	}

	product := &Product{
		ID:          uuid.NewString(),
		VendorID:    identity.ID,
		Name:        req.Name,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		IsPublished: req.IsPublished,
	}
	if err := h.repo.Create(r.Context(), product); err != nil {
		h.logger.Error("create product", slog.Any("error", err))
		shared.Reject(w, http.StatusInternalServerError, "Failed to create product")
		return
	}
	shared.JSON(w, http.StatusCreated, map[string]any{"success": true, "product": toProductResponse(product)})
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	product, err := h.repo.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err, "fetch product")
		return
	}

	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.Reject(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.Reject(w, http.StatusBadRequest, err.Error())
		return
	}

	product.Name = req.Name
	product.Description = req.Description
	product.PriceCents = req.PriceCents
	product.IsPublished = req.IsPublished
	if err := h.repo.Update(r.Context(), product); err != nil {
		h.respondError(w, err, "update product")
		return
	}
	shared.JSON(w, http.StatusOK, map[string]any{"success": true, "product": toProductResponse(product)})
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.respondError(w, err, "delete product")
		return
	}
	shared.JSON(w, http.StatusOK, map[string]any{"success": true, "message": "Product deleted"})
}

func (h *Handler) respondError(w http.ResponseWriter, err error, op string) {
	if errors.Is(err, shared.ErrNotFound) {
		shared.Reject(w, http.StatusNotFound, "Resource not found")
		return
	}
	h.logger.Error(op, slog.Any("error", err))
	shared.Reject(w, http.StatusInternalServerError, "Internal server error")
}
