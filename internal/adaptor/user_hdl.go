package adaptor

import (
	"net/http"

	"movie-review/internal/authz"
	"movie-review/internal/dto/request"
	"movie-review/internal/query"
	"movie-review/internal/usecase"
	"movie-review/pkg/utils"

	"go.uber.org/zap"
)

type UserHandler struct {
	service usecase.UserService
	log     *zap.Logger
}

func NewUserHandler(service usecase.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		log:     log.With(zap.String("handler", "user")),
	}
}

// GetProfile handles GET /api/profile (protected)
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	p, ok := gate(w, r, authz.ActionReadProfile)
	if !ok {
		return
	}

	user, err := h.service.GetProfile(r.Context(), p)
	if err != nil {
		handleServiceError(h.log, w, err, "get profile")
		return
	}

	utils.ResponseSuccess(w, user)
}

// UpdateProfile handles PUT /api/profile (protected)
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	p, ok := gate(w, r, authz.ActionUpdateProfile)
	if !ok {
		return
	}

	var req request.UpdateProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), p, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "update profile")
		return
	}

	utils.ResponseSuccess(w, user)
}

// DeleteProfile handles DELETE /api/profile (protected)
func (h *UserHandler) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	p, ok := gate(w, r, authz.ActionDeleteProfile)
	if !ok {
		return
	}

	if err := h.service.DeleteProfile(r.Context(), p); err != nil {
		handleServiceError(h.log, w, err, "delete profile")
		return
	}

	utils.ResponseMessage(w, "Account deleted successfully")
}

// GetAllUsers handles GET /api/users (admin)
func (h *UserHandler) GetAllUsers(w http.ResponseWriter, r *http.Request) {
	if _, ok := gate(w, r, authz.ActionListUsers); !ok {
		return
	}

	q, ok := listQuery(w, r, query.KindUser)
	if !ok {
		return
	}

	users, err := h.service.GetAllUsers(r.Context(), q, r.URL)
	if err != nil {
		handleServiceError(h.log, w, err, "list users")
		return
	}

	utils.ResponseSuccess(w, users)
}

// DeleteUser handles DELETE /api/users/{id} (admin)
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if _, ok := gate(w, r, authz.ActionDeleteUser); !ok {
		return
	}

	id, ok := pathID(w, r, "id", "user")
	if !ok {
		return
	}

	if err := h.service.DeleteUser(r.Context(), id); err != nil {
		handleServiceError(h.log, w, err, "delete user")
		return
	}

	utils.ResponseMessage(w, "User deleted successfully")
}
