package adaptor

import (
	"net/http"

	"movie-review/internal/authz"
	"movie-review/internal/dto/request"
	"movie-review/internal/usecase"
	"movie-review/pkg/utils"

	"go.uber.org/zap"
)

type AuthHandler struct {
	service usecase.AuthService
	log     *zap.Logger
}

func NewAuthHandler(service usecase.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		log:     log.With(zap.String("handler", "auth")),
	}
}

// Register handles POST /api/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if _, ok := gate(w, r, authz.ActionRegister); !ok {
		return
	}

	var req request.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.service.Register(r.Context(), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "register")
		return
	}

	utils.ResponseCreated(w, user)
}

// Login handles POST /api/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if _, ok := gate(w, r, authz.ActionLogin); !ok {
		return
	}

	var req request.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	tokens, err := h.service.Login(r.Context(), &req, clientInfo(r))
	if err != nil {
		handleServiceError(h.log, w, err, "login")
		return
	}

	utils.ResponseSuccess(w, tokens)
}

// Refresh handles POST /api/token/refresh
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if _, ok := gate(w, r, authz.ActionRefreshToken); !ok {
		return
	}

	var req request.RefreshRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	tokens, err := h.service.Refresh(r.Context(), &req, clientInfo(r))
	if err != nil {
		handleServiceError(h.log, w, err, "refresh token")
		return
	}

	utils.ResponseSuccess(w, tokens)
}

// Logout handles POST /api/logout (protected)
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	p, ok := gate(w, r, authz.ActionLogout)
	if !ok {
		return
	}

	var req request.RefreshRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.service.Logout(r.Context(), p, &req); err != nil {
		handleServiceError(h.log, w, err, "logout")
		return
	}

	utils.ResponseMessage(w, "Logged out successfully")
}
