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

type ReviewHandler struct {
	service usecase.ReviewService
	log     *zap.Logger
}

func NewReviewHandler(service usecase.ReviewService, log *zap.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: service,
		log:     log.With(zap.String("handler", "review")),
	}
}

// GetReviews handles GET /api/reviews
func (h *ReviewHandler) GetReviews(w http.ResponseWriter, r *http.Request) {
	if _, ok := gate(w, r, authz.ActionListReviews); !ok {
		return
	}

	q, ok := listQuery(w, r, query.KindReview)
	if !ok {
		return
	}

	reviews, err := h.service.GetReviews(r.Context(), q, r.URL)
	if err != nil {
		handleServiceError(h.log, w, err, "list reviews")
		return
	}

	utils.ResponseSuccess(w, reviews)
}

// GetMovieReviews handles GET /api/movies/{id}/reviews
func (h *ReviewHandler) GetMovieReviews(w http.ResponseWriter, r *http.Request) {
	if _, ok := gate(w, r, authz.ActionListReviews); !ok {
		return
	}

	movieID, ok := pathID(w, r, "id", "movie")
	if !ok {
		return
	}

	q, ok := listQuery(w, r, query.KindReview)
	if !ok {
		return
	}

	reviews, err := h.service.GetMovieReviews(r.Context(), movieID, q, r.URL)
	if err != nil {
		handleServiceError(h.log, w, err, "list movie reviews")
		return
	}

	utils.ResponseSuccess(w, reviews)
}

// GetReviewByID handles GET /api/reviews/{id}
func (h *ReviewHandler) GetReviewByID(w http.ResponseWriter, r *http.Request) {
	if _, ok := gate(w, r, authz.ActionReadReview); !ok {
		return
	}

	id, ok := pathID(w, r, "id", "review")
	if !ok {
		return
	}

	review, err := h.service.GetReviewByID(r.Context(), id)
	if err != nil {
		handleServiceError(h.log, w, err, "get review")
		return
	}

	utils.ResponseSuccess(w, review)
}

// CreateReview handles POST /api/movies/{id}/reviews
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	p, ok := gate(w, r, authz.ActionCreateReview)
	if !ok {
		return
	}

	movieID, ok := pathID(w, r, "id", "movie")
	if !ok {
		return
	}

	var req request.CreateReviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	review, err := h.service.CreateReview(r.Context(), p, movieID, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "create review")
		return
	}

	utils.ResponseCreated(w, review)
}

// UpdateReview handles PUT /api/reviews/{id} (owner only)
func (h *ReviewHandler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	p, ok := gate(w, r, authz.ActionUpdateReview)
	if !ok {
		return
	}

	id, ok := pathID(w, r, "id", "review")
	if !ok {
		return
	}

	var req request.UpdateReviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	review, err := h.service.UpdateReview(r.Context(), p, id, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "update review")
		return
	}

	utils.ResponseSuccess(w, review)
}

// DeleteReview handles DELETE /api/reviews/{id} (owner only)
func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	p, ok := gate(w, r, authz.ActionDeleteReview)
	if !ok {
		return
	}

	id, ok := pathID(w, r, "id", "review")
	if !ok {
		return
	}

	if err := h.service.DeleteReview(r.Context(), p, id); err != nil {
		handleServiceError(h.log, w, err, "delete review")
		return
	}

	utils.ResponseMessage(w, "Review deleted successfully")
}

// GetMovieReviewStats handles GET /api/movies/{id}/review-stats
func (h *ReviewHandler) GetMovieReviewStats(w http.ResponseWriter, r *http.Request) {
	if _, ok := gate(w, r, authz.ActionReadMovie); !ok {
		return
	}

	movieID, ok := pathID(w, r, "id", "movie")
	if !ok {
		return
	}

	stats, err := h.service.GetMovieReviewStats(r.Context(), movieID)
	if err != nil {
		handleServiceError(h.log, w, err, "movie review stats")
		return
	}

	utils.ResponseSuccess(w, stats)
}
