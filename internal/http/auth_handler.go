package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/tuanvumaihuynh/product-catalog/internal/apperr"
	"github.com/tuanvumaihuynh/product-catalog/internal/auth"
	"github.com/tuanvumaihuynh/product-catalog/internal/http/render"
	"github.com/tuanvumaihuynh/product-catalog/internal/service"
)

// maxAuthBodySize bounds login and register payloads.
const maxAuthBodySize = 1 << 20

type authHandler struct {
	logger  *slog.Logger
	authSvc service.AuthService
}

func newAuthHandler(logger *slog.Logger, authSvc service.AuthService) *authHandler {
	return &authHandler{
		logger:  logger,
		authSvc: authSvc,
	}
}

func (h *authHandler) Login(w http.ResponseWriter, r *http.Request) {
	var params service.LoginParams
	if err := decodeJSON(w, r, maxAuthBodySize, &params); err != nil {
		render.Error(w, r, h.logger, err)
		return
	}

	res, err := h.authSvc.Login(r.Context(), params)
	if err != nil {
		render.Error(w, r, h.logger, fmt.Errorf("auth service login: %w", err))
		return
	}

	render.OK(w, r, h.logger, http.StatusOK, newAuthResponse(res), "login successful")
}

func (h *authHandler) Register(w http.ResponseWriter, r *http.Request) {
	var params service.RegisterParams
	if err := decodeJSON(w, r, maxAuthBodySize, &params); err != nil {
		render.Error(w, r, h.logger, err)
		return
	}

	res, err := h.authSvc.Register(r.Context(), params)
	if err != nil {
		render.Error(w, r, h.logger, fmt.Errorf("auth service register: %w", err))
		return
	}

	render.OK(w, r, h.logger, http.StatusCreated, newAuthResponse(res), "admin registered successfully")
}

func (h *authHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.FromContext(r.Context())
	if !ok {
		render.Error(w, r, h.logger, apperr.UnauthorizedErr)
		return
	}

	admin, err := h.authSvc.GetAdmin(r.Context(), identity.AdminID)
	if err != nil {
		render.Error(w, r, h.logger, fmt.Errorf("auth service get admin: %w", err))
		return
	}

	render.OK(w, r, h.logger, http.StatusOK, newAdminResponse(admin), "")
}

// Logout only acknowledges. Tokens are stateless and discarded by the client.
func (h *authHandler) Logout(w http.ResponseWriter, r *http.Request) {
	render.OK(w, r, h.logger, http.StatusOK, nil, "logged out successfully")
}
