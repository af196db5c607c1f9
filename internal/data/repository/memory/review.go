package memory

import (
	"context"
	"fmt"
	"slices"

	"movie-review/internal/data/entity"
	"movie-review/internal/data/repository"
	"movie-review/internal/query"
)

type reviewStore struct {
	*store
}

func (s *reviewStore) Create(_ context.Context, review *entity.Review) error {
	if err := review.Validate(); err != nil {
		return fmt.Errorf("create review: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.movies[review.MovieID]; !ok {
		return fmt.Errorf("create review for movie %d: %w", review.MovieID, repository.ErrNotFound)
	}
	if _, ok := s.users[review.UserID]; !ok {
		return fmt.Errorf("create review by user %d: %w", review.UserID, repository.ErrNotFound)
	}

	s.nextReviewID++
	review.ID = s.nextReviewID
	review.CreatedAt = s.now()

	stored := *review
	stored.Username = ""
	stored.MovieTitle = ""
	s.reviews[review.ID] = stored
	return nil
}

// joined fills the display fields a postgres read gets from its joins.
// Callers hold the lock.
func (s *reviewStore) joined(r entity.Review) *entity.Review {
	r.Username = s.users[r.UserID].Username
	r.MovieTitle = s.movies[r.MovieID].Title
	return &r
}

func (s *reviewStore) FindByID(_ context.Context, id int64) (*entity.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.reviews[id]
	if !ok {
		return nil, nil
	}
	return s.joined(r), nil
}

func (s *reviewStore) List(_ context.Context, q *query.ValidatedQuery) ([]*entity.Review, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f := q.Filter
	matched := make([]*entity.Review, 0)
	for _, r := range s.reviews {
		if f.MovieID != nil && r.MovieID != *f.MovieID {
			continue
		}
		if f.Rating != nil && r.Rating != *f.Rating {
			continue
		}
		if f.MovieTitle != "" && !containsFold(s.movies[r.MovieID].Title, f.MovieTitle) {
			continue
		}
		matched = append(matched, s.joined(r))
	}

	switch q.Sort.Field {
	case query.SortRating:
		slices.SortFunc(matched, func(a, b *entity.Review) int {
			return orderBy(a.Rating, b.Rating, a.ID, b.ID, q.Sort.Desc)
		})
	case query.SortID:
		sortByID(matched, func(r *entity.Review) int64 { return r.ID })
	default:
		slices.SortFunc(matched, func(a, b *entity.Review) int {
			return orderBy(a.CreatedAt.UnixNano(), b.CreatedAt.UnixNano(), a.ID, b.ID, q.Sort.Desc)
		})
	}

	return window(matched, q), int64(len(matched)), nil
}

func (s *reviewStore) Update(_ context.Context, review *entity.Review) error {
	if !entity.ValidRating(review.Rating) {
		return fmt.Errorf("update review %d: rating out of range", review.ID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.reviews[review.ID]
	if !ok {
		return fmt.Errorf("update review %d: %w", review.ID, repository.ErrNotFound)
	}

	current.Rating = review.Rating
	current.Comment = review.Comment
	s.reviews[review.ID] = current
	return nil
}

func (s *reviewStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.reviews[id]; !ok {
		return fmt.Errorf("delete review %d: %w", id, repository.ErrNotFound)
	}
	delete(s.reviews, id)
	return nil
}

func (s *reviewStore) GetMovieReviewStats(_ context.Context, movieID int64) (*entity.ReviewStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &entity.ReviewStats{MovieID: movieID}
	var sum int64
	for _, r := range s.reviews {
		if r.MovieID == movieID {
			stats.ReviewCount++
			sum += int64(r.Rating)
		}
	}
	if stats.ReviewCount > 0 {
		stats.AverageRating = float64(sum) / float64(stats.ReviewCount)
	}
	return stats, nil
}
