package auth

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

// Handler wires the JSON endpoints for authentication flows.
type Handler struct {
	logger        *slog.Logger
	service       *Service
	gate          *Gate
	validator     *validator.Validate
	secureCookies bool
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, gate *Gate, secureCookies bool) *Handler {
	return &Handler{
		logger:        logger,
		service:       service,
		gate:          gate,
		validator:     validator.New(),
		secureCookies: secureCookies,
	}
}

// MountRoutes registers auth routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/register", h.handleRegister)
	r.Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)
	r.Post("/refresh", h.handleRefresh)
	r.Group(func(r chi.Router) {
		r.Use(h.gate.Protect)
		r.Get("/me", h.handleMe)
	})
}

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"omitempty,oneof=CUSTOMER VENDOR"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type userResponse struct {
	ID    string    `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Role  rbac.Role `json:"role"`
}

func toUserResponse(user *User) userResponse {
	return userResponse{ID: user.ID, Name: user.Name, Email: user.Email, Role: user.Role}
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.Reject(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.Reject(w, http.StatusBadRequest, err.Error())
		return
	}

	user, pair, err := h.service.Register(r.Context(), req.Name, req.Email, req.Password, rbac.Role(req.Role))
	if err != nil {
		if errors.Is(err, shared.ErrEmailTaken) {
			shared.Reject(w, http.StatusBadRequest, "User already exists")
			return
		}
		h.logger.Error("register", slog.Any("error", err))
		shared.Reject(w, http.StatusInternalServerError, "Failed to register")
		return
	}

	h.setTokenCookies(w, pair)
	shared.JSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"user":    toUserResponse(user),
		"token":   pair.Access,
		"message": "Account created successfully",
	})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.Reject(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.Reject(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.service.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		shared.Reject(w, http.StatusUnauthorized, "Invalid Credentials!")
		return
	}
	pair, err := h.service.IssueTokens(user)
	if err != nil {
		h.logger.Error("issue tokens", slog.Any("error", err))
		shared.Reject(w, http.StatusInternalServerError, "Failed to login!")
		return
	}

	h.setTokenCookies(w, pair)
	shared.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user":    toUserResponse(user),
		"token":   pair.Access,
	})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	access := bearerToken(r)
	var refresh string
	if cookie, err := r.Cookie(RefreshTokenCookie); err == nil {
		refresh = cookie.Value
	}

	if err := h.service.Logout(r.Context(), access, refresh); err != nil {
		h.logger.Error("logout", slog.Any("error", err))
		shared.Reject(w, http.StatusInternalServerError, "Failed to logout")
		return
	}

	h.clearTokenCookies(w)
	shared.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Logout Successful",
	})
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var refresh string
	if cookie, err := r.Cookie(RefreshTokenCookie); err == nil {
		refresh = cookie.Value
	}
	if refresh == "" {
		var req struct {
			RefreshToken string `json:"refreshToken"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
			refresh = req.RefreshToken
		}
	}
	if refresh == "" {
		shared.Reject(w, http.StatusUnauthorized, "Not authorized, no token")
		return
	}

	user, pair, err := h.service.Refresh(r.Context(), refresh)
	if err != nil {
		if errors.Is(err, ErrInvalidToken) {
			shared.Reject(w, http.StatusUnauthorized, "Not authorized, token failed")
			return
		}
		h.logger.Error("refresh", slog.Any("error", err))
		shared.Reject(w, http.StatusInternalServerError, "Failed to refresh token")
		return
	}

	h.setTokenCookies(w, pair)
	shared.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user":    toUserResponse(user),
		"token":   pair.Access,
	})
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	identity := rbac.IdentityFromContext(r.Context())
	if identity == nil {
		shared.Reject(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	shared.JSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"id":          identity.ID,
		"role":        identity.Role,
		"permissions": rbac.EffectivePermissions(*identity),
	})
}

func (h *Handler) setTokenCookies(w http.ResponseWriter, pair TokenPair) {
	http.SetCookie(w, &http.Cookie{
		Name:     AccessTokenCookie,
		Value:    pair.Access,
		Path:     "/",
		MaxAge:   int(h.service.tokens.AccessTTL() / time.Second),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteStrictMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshTokenCookie,
		Value:    pair.Refresh,
		Path:     "/",
		MaxAge:   int(h.service.tokens.RefreshTTL() / time.Second),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *Handler) clearTokenCookies(w http.ResponseWriter) {
	for _, name := range []string{AccessTokenCookie, RefreshTokenCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   h.secureCookies,
			SameSite: http.SameSiteStrictMode,
		})
	}
}
