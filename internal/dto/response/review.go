package response

import (
	"time"

	"movie-review/internal/data/entity"
)

// ReviewResponse names the reviewer and the movie the way a reader sees them,
// alongside the ids clients use for follow-up calls.
type ReviewResponse struct {
	ID        int64     `json:"id"`
	User      string    `json:"user"`
	UserID    int64     `json:"user_id"`
	Movie     string    `json:"movie"`
	MovieID   int64     `json:"movie_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

type MovieReviewStats struct {
	MovieID       int64   `json:"movie_id"`
	AverageRating float64 `json:"average_rating"`
	ReviewCount   int64   `json:"review_count"`
}

func ReviewToResponse(review *entity.Review) ReviewResponse {
	return ReviewResponse{
		ID:        review.ID,
		User:      review.Username,
		UserID:    review.UserID,
		Movie:     review.MovieTitle,
		MovieID:   review.MovieID,
		Rating:    review.Rating,
		Comment:   review.Comment,
		CreatedAt: review.CreatedAt,
	}
}

func StatsToResponse(stats *entity.ReviewStats) MovieReviewStats {
	return MovieReviewStats{
		MovieID:       stats.MovieID,
		AverageRating: stats.AverageRating,
		ReviewCount:   stats.ReviewCount,
	}
}
