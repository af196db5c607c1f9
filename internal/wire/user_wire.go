package wire

import (
	"movie-review/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireUser(r chi.Router, userHandler *adaptor.UserHandler) {
	// Own account
	r.Get("/api/profile", userHandler.GetProfile)
	r.Put("/api/profile", userHandler.UpdateProfile)
	r.Delete("/api/profile", userHandler.DeleteProfile)

	// ==================== ADMIN ROUTES ====================
	r.Get("/api/users", userHandler.GetAllUsers)
	r.Delete("/api/users/{id}", userHandler.DeleteUser)
}
