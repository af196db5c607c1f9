package wire

import (
	"movie-review/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireReview(r chi.Router, reviewHandler *adaptor.ReviewHandler) {
	// Reviews of one movie
	r.Get("/api/movies/{id}/reviews", reviewHandler.GetMovieReviews)
	r.Post("/api/movies/{id}/reviews", reviewHandler.CreateReview)
	r.Get("/api/movies/{id}/review-stats", reviewHandler.GetMovieReviewStats)

	// All reviews
	r.Get("/api/reviews", reviewHandler.GetReviews)
	r.Get("/api/reviews/{id}", reviewHandler.GetReviewByID)

	// PUT/DELETE are owner only, checked after the review is loaded
	r.Put("/api/reviews/{id}", reviewHandler.UpdateReview)
	r.Delete("/api/reviews/{id}", reviewHandler.DeleteReview)
}
