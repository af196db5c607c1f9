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

type MovieHandler struct {
	service usecase.MovieService
	log     *zap.Logger
}

func NewMovieHandler(service usecase.MovieService, log *zap.Logger) *MovieHandler {
	return &MovieHandler{
		service: service,
		log:     log.With(zap.String("handler", "movie")),
	}
}

// GetMovies handles GET /api/movies
func (h *MovieHandler) GetMovies(w http.ResponseWriter, r *http.Request) {
	if _, ok := gate(w, r, authz.ActionListMovies); !ok {
		return
	}

	q, ok := listQuery(w, r, query.KindMovie)
	if !ok {
		return
	}

	movies, err := h.service.GetMovies(r.Context(), q, r.URL)
	if err != nil {
		handleServiceError(h.log, w, err, "list movies")
		return
	}

	utils.ResponseSuccess(w, movies)
}

// GetMovieByID handles GET /api/movies/{id}
func (h *MovieHandler) GetMovieByID(w http.ResponseWriter, r *http.Request) {
	if _, ok := gate(w, r, authz.ActionReadMovie); !ok {
		return
	}

	id, ok := pathID(w, r, "id", "movie")
	if !ok {
		return
	}

	movie, err := h.service.GetMovieByID(r.Context(), id)
	if err != nil {
		handleServiceError(h.log, w, err, "get movie")
		return
	}

	utils.ResponseSuccess(w, movie)
}

// CreateMovie handles POST /api/movies (admin)
func (h *MovieHandler) CreateMovie(w http.ResponseWriter, r *http.Request) {
	if _, ok := gate(w, r, authz.ActionWriteMovie); !ok {
		return
	}

	var req request.MovieRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	movie, err := h.service.CreateMovie(r.Context(), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "create movie")
		return
	}

	utils.ResponseCreated(w, movie)
}

// UpdateMovie handles PUT /api/movies/{id} (admin)
func (h *MovieHandler) UpdateMovie(w http.ResponseWriter, r *http.Request) {
	if _, ok := gate(w, r, authz.ActionWriteMovie); !ok {
		return
	}

	id, ok := pathID(w, r, "id", "movie")
	if !ok {
		return
	}

	var req request.MovieUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	movie, err := h.service.UpdateMovie(r.Context(), id, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "update movie")
		return
	}

	utils.ResponseSuccess(w, movie)
}

// DeleteMovie handles DELETE /api/movies/{id} (admin)
func (h *MovieHandler) DeleteMovie(w http.ResponseWriter, r *http.Request) {
	if _, ok := gate(w, r, authz.ActionWriteMovie); !ok {
		return
	}

	id, ok := pathID(w, r, "id", "movie")
	if !ok {
		return
	}

	if err := h.service.DeleteMovie(r.Context(), id); err != nil {
		handleServiceError(h.log, w, err, "delete movie")
		return
	}

	utils.ResponseMessage(w, "Movie deleted successfully")
}
