package memory

import (
	"context"
	"fmt"
	"slices"

	"movie-review/internal/data/entity"
	"movie-review/internal/data/repository"
	"movie-review/internal/query"
)

type movieStore struct {
	*store
}

func (s *movieStore) Create(_ context.Context, movie *entity.Movie) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextMovieID++
	now := s.now()
	movie.ID = s.nextMovieID
	movie.CreatedAt = now
	movie.UpdatedAt = now
	s.movies[movie.ID] = *movie
	return nil
}

func (s *movieStore) FindByID(_ context.Context, id int64) (*entity.Movie, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.movies[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (s *movieStore) List(_ context.Context, q *query.ValidatedQuery) ([]*entity.Movie, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]*entity.Movie, 0, len(s.movies))
	for _, m := range s.movies {
		if q.Filter.Search != "" && !containsFold(m.Title, q.Filter.Search) && !containsFold(m.Genre, q.Filter.Search) {
			continue
		}
		matched = append(matched, &m)
	}

	switch q.Sort.Field {
	case query.SortTitle:
		slices.SortFunc(matched, func(a, b *entity.Movie) int {
			return orderBy(a.Title, b.Title, a.ID, b.ID, q.Sort.Desc)
		})
	case query.SortReleaseDate:
		slices.SortFunc(matched, func(a, b *entity.Movie) int {
			return orderBy(a.ReleaseDate.Unix(), b.ReleaseDate.Unix(), a.ID, b.ID, q.Sort.Desc)
		})
	default:
		sortByID(matched, func(m *entity.Movie) int64 { return m.ID })
	}

	return window(matched, q), int64(len(matched)), nil
}

func (s *movieStore) Update(_ context.Context, movie *entity.Movie) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.movies[movie.ID]
	if !ok {
		return fmt.Errorf("update movie %d: %w", movie.ID, repository.ErrNotFound)
	}

	movie.CreatedAt = current.CreatedAt
	movie.UpdatedAt = s.now()
	s.movies[movie.ID] = *movie
	return nil
}

// Delete removes the movie and its reviews.
func (s *movieStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.movies[id]; !ok {
		return fmt.Errorf("delete movie %d: %w", id, repository.ErrNotFound)
	}

	delete(s.movies, id)
	for rid, r := range s.reviews {
		if r.MovieID == id {
			delete(s.reviews, rid)
		}
	}
	return nil
}
