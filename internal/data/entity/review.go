package entity

import (
	"fmt"
)

const (
	MinRating = 1
	MaxRating = 5
)

type Review struct {
	BaseSimple
	UserID  int64  `db:"user_id"`
	MovieID int64  `db:"movie_id"`
	Rating  int    `db:"rating"` // 1-5
	Comment string `db:"comment"`

	// Filled by list/detail reads, never written.
	Username   string `db:"username"`
	MovieTitle string `db:"movie_title"`
}

// ValidRating reports whether r is within the accepted range.
func ValidRating(r int) bool {
	return r >= MinRating && r <= MaxRating
}

// Validate checks the invariants every stored review must hold.
func (r *Review) Validate() error {
	if !ValidRating(r.Rating) {
		return fmt.Errorf("rating must be between %d and %d", MinRating, MaxRating)
	}
	if r.UserID == 0 || r.MovieID == 0 {
		return fmt.Errorf("review must reference a user and a movie")
	}
	return nil
}

// ReviewStats aggregates the reviews of one movie.
type ReviewStats struct {
	MovieID       int64
	AverageRating float64
	ReviewCount   int64
}
