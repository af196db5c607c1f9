package usecase

import (
	"context"
	"errors"
	"net/url"
	"time"

	"movie-review/internal/data/entity"
	"movie-review/internal/data/repository"
	"movie-review/internal/dto/request"
	"movie-review/internal/dto/response"
	"movie-review/internal/query"
	"movie-review/pkg/apperr"

	"go.uber.org/zap"
)

// MovieService assumes the caller passed the write_movie gate for mutations;
// movies have no owner so there is nothing further to check.
type MovieService interface {
	GetMovies(ctx context.Context, q *query.ValidatedQuery, reqURL *url.URL) (*response.PaginatedResponse[response.MovieResponse], error)
	GetMovieByID(ctx context.Context, movieID int64) (*response.MovieResponse, error)
	CreateMovie(ctx context.Context, req *request.MovieRequest) (*response.MovieResponse, error)
	UpdateMovie(ctx context.Context, movieID int64, req *request.MovieUpdateRequest) (*response.MovieResponse, error)
	DeleteMovie(ctx context.Context, movieID int64) error
}

type movieService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewMovieService(
	repo *repository.Repository,
	log *zap.Logger,
) MovieService {
	return &movieService{
		repo: repo,
		log:  log.With(zap.String("service", "movie")),
	}
}

var errMovieNotFound = apperr.NotFound("movie not found")

func (s *movieService) GetMovies(ctx context.Context, q *query.ValidatedQuery, reqURL *url.URL) (*response.PaginatedResponse[response.MovieResponse], error) {
	movies, total, err := s.repo.Movie.List(ctx, q)
	if err != nil {
		s.log.Error("Failed to list movies",
			zap.Error(err),
			zap.Int("page", q.Page),
			zap.String("search", q.Filter.Search),
		)
		return nil, apperr.Internal(err)
	}

	return response.NewPaginatedResponse(movies, response.MovieToResponse, query.Paginate(q, total), reqURL), nil
}

func (s *movieService) GetMovieByID(ctx context.Context, movieID int64) (*response.MovieResponse, error) {
	movie, err := s.find(ctx, movieID)
	if err != nil {
		return nil, err
	}

	resp := response.MovieToResponse(movie)
	return &resp, nil
}

func (s *movieService) CreateMovie(ctx context.Context, req *request.MovieRequest) (*response.MovieResponse, error) {
	if err := validate(s.log, "Create movie", req); err != nil {
		return nil, err
	}

	releaseDate, err := time.Parse(entity.DateLayout, req.ReleaseDate)
	if err != nil {
		return nil, apperr.ValidationFields("validation failed", map[string]string{"release_date": "Must match the format 2006-01-02"})
	}

	movie := &entity.Movie{
		Title:       req.Title,
		Genre:       req.Genre,
		ReleaseDate: releaseDate,
		Description: req.Description,
	}

	if err := s.repo.Movie.Create(ctx, movie); err != nil {
		s.log.Error("Failed to create movie", zap.Error(err), zap.String("title", req.Title))
		return nil, apperr.Internal(err)
	}

	s.log.Info("Movie created", zap.Int64("movie_id", movie.ID), zap.String("title", movie.Title))

	resp := response.MovieToResponse(movie)
	return &resp, nil
}

func (s *movieService) UpdateMovie(ctx context.Context, movieID int64, req *request.MovieUpdateRequest) (*response.MovieResponse, error) {
	movie, err := s.find(ctx, movieID)
	if err != nil {
		return nil, err
	}

	if err := validate(s.log, "Update movie", req); err != nil {
		return nil, err
	}

	if req.Title != nil {
		movie.Title = *req.Title
	}
	if req.Genre != nil {
		movie.Genre = *req.Genre
	}
	if req.Description != nil {
		movie.Description = *req.Description
	}
	if req.ReleaseDate != nil {
		releaseDate, err := time.Parse(entity.DateLayout, *req.ReleaseDate)
		if err != nil {
			return nil, apperr.ValidationFields("validation failed", map[string]string{"release_date": "Must match the format 2006-01-02"})
		}
		movie.ReleaseDate = releaseDate
	}

	if err := s.repo.Movie.Update(ctx, movie); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errMovieNotFound
		}
		s.log.Error("Failed to update movie", zap.Error(err), zap.Int64("movie_id", movieID))
		return nil, apperr.Internal(err)
	}

	s.log.Info("Movie updated", zap.Int64("movie_id", movieID))

	resp := response.MovieToResponse(movie)
	return &resp, nil
}

// DeleteMovie removes the movie and, through the cascade, its reviews.
func (s *movieService) DeleteMovie(ctx context.Context, movieID int64) error {
	if err := s.repo.Movie.Delete(ctx, movieID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return errMovieNotFound
		}
		s.log.Error("Failed to delete movie", zap.Error(err), zap.Int64("movie_id", movieID))
		return apperr.Internal(err)
	}

	s.log.Info("Movie deleted", zap.Int64("movie_id", movieID))
	return nil
}

func (s *movieService) find(ctx context.Context, movieID int64) (*entity.Movie, error) {
	movie, err := s.repo.Movie.FindByID(ctx, movieID)
	if err != nil {
		s.log.Error("Failed to find movie", zap.Error(err), zap.Int64("movie_id", movieID))
		return nil, apperr.Internal(err)
	}
	if movie == nil {
		return nil, errMovieNotFound
	}
	return movie, nil
}
