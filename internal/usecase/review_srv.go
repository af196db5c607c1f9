package usecase

import (
	"context"
	"errors"
	"net/url"

	"movie-review/internal/authz"
	"movie-review/internal/data/entity"
	"movie-review/internal/data/repository"
	"movie-review/internal/dto/request"
	"movie-review/internal/dto/response"
	"movie-review/internal/query"
	"movie-review/pkg/apperr"
	"movie-review/pkg/metrics"

	"go.uber.org/zap"
)

type ReviewService interface {
	GetReviews(ctx context.Context, q *query.ValidatedQuery, reqURL *url.URL) (*response.PaginatedResponse[response.ReviewResponse], error)
	GetMovieReviews(ctx context.Context, movieID int64, q *query.ValidatedQuery, reqURL *url.URL) (*response.PaginatedResponse[response.ReviewResponse], error)
	GetReviewByID(ctx context.Context, reviewID int64) (*response.ReviewResponse, error)

	CreateReview(ctx context.Context, p *authz.Principal, movieID int64, req *request.CreateReviewRequest) (*response.ReviewResponse, error)
	UpdateReview(ctx context.Context, p *authz.Principal, reviewID int64, req *request.UpdateReviewRequest) (*response.ReviewResponse, error)
	DeleteReview(ctx context.Context, p *authz.Principal, reviewID int64) error

	// Stats
	GetMovieReviewStats(ctx context.Context, movieID int64) (*response.MovieReviewStats, error)
}

type reviewService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewReviewService(repo *repository.Repository, log *zap.Logger) ReviewService {
	return &reviewService{
		repo: repo,
		log:  log.With(zap.String("service", "review")),
	}
}

var errReviewNotFound = apperr.NotFound("review not found")

func (s *reviewService) GetReviews(ctx context.Context, q *query.ValidatedQuery, reqURL *url.URL) (*response.PaginatedResponse[response.ReviewResponse], error) {
	reviews, total, err := s.repo.Review.List(ctx, q)
	if err != nil {
		s.log.Error("Failed to list reviews",
			zap.Error(err),
			zap.Int("page", q.Page),
			zap.Int("page_size", q.PageSize),
		)
		return nil, apperr.Internal(err)
	}

	return response.NewPaginatedResponse(reviews, response.ReviewToResponse, query.Paginate(q, total), reqURL), nil
}

// GetMovieReviews scopes q to movieID. The caller's q is left untouched.
func (s *reviewService) GetMovieReviews(ctx context.Context, movieID int64, q *query.ValidatedQuery, reqURL *url.URL) (*response.PaginatedResponse[response.ReviewResponse], error) {
	if err := s.requireMovie(ctx, movieID); err != nil {
		return nil, err
	}
	return s.GetReviews(ctx, q.WithMovie(movieID), reqURL)
}

func (s *reviewService) GetReviewByID(ctx context.Context, reviewID int64) (*response.ReviewResponse, error) {
	review, err := s.find(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	resp := response.ReviewToResponse(review)
	return &resp, nil
}

// CreateReview always records p as the author.
func (s *reviewService) CreateReview(ctx context.Context, p *authz.Principal, movieID int64, req *request.CreateReviewRequest) (*response.ReviewResponse, error) {
	if err := authz.Require(p, authz.ActionCreateReview, nil); err != nil {
		return nil, err
	}

	if err := s.requireMovie(ctx, movieID); err != nil {
		return nil, err
	}

	if err := validate(s.log, "Create review", req); err != nil {
		return nil, err
	}

	review := &entity.Review{
		UserID:  p.ID,
		MovieID: movieID,
		Rating:  req.Rating,
		Comment: req.Comment,
	}

	if err := s.repo.Review.Create(ctx, review); err != nil {
		// The movie was deleted after the existence check.
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errMovieNotFound
		}
		s.log.Error("Failed to create review",
			zap.Error(err),
			zap.Int64("user_id", p.ID),
			zap.Int64("movie_id", movieID),
		)
		return nil, apperr.Internal(err)
	}

	metrics.RecordReviewWrite("create")
	s.log.Info("Review created",
		zap.Int64("review_id", review.ID),
		zap.Int64("user_id", p.ID),
		zap.Int64("movie_id", movieID),
		zap.Int("rating", review.Rating),
	)

	return s.GetReviewByID(ctx, review.ID)
}

func (s *reviewService) UpdateReview(ctx context.Context, p *authz.Principal, reviewID int64, req *request.UpdateReviewRequest) (*response.ReviewResponse, error) {
	review, err := s.owned(ctx, p, authz.ActionUpdateReview, reviewID)
	if err != nil {
		return nil, err
	}

	if err := validate(s.log, "Update review", req); err != nil {
		return nil, err
	}

	if req.Rating != nil {
		review.Rating = *req.Rating
	}
	if req.Comment != nil {
		review.Comment = *req.Comment
	}

	if err := s.repo.Review.Update(ctx, review); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errReviewNotFound
		}
		s.log.Error("Failed to update review", zap.Error(err), zap.Int64("review_id", reviewID))
		return nil, apperr.Internal(err)
	}

	metrics.RecordReviewWrite("update")
	s.log.Info("Review updated", zap.Int64("review_id", reviewID), zap.Int64("user_id", p.ID))

	resp := response.ReviewToResponse(review)
	return &resp, nil
}

func (s *reviewService) DeleteReview(ctx context.Context, p *authz.Principal, reviewID int64) error {
	review, err := s.owned(ctx, p, authz.ActionDeleteReview, reviewID)
	if err != nil {
		return err
	}

	if err := s.repo.Review.Delete(ctx, review.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return errReviewNotFound
		}
		s.log.Error("Failed to delete review", zap.Error(err), zap.Int64("review_id", reviewID))
		return apperr.Internal(err)
	}

	metrics.RecordReviewWrite("delete")
	s.log.Info("Review deleted",
		zap.Int64("review_id", reviewID),
		zap.Int64("user_id", p.ID),
		zap.Int64("movie_id", review.MovieID),
	)
	return nil
}

func (s *reviewService) GetMovieReviewStats(ctx context.Context, movieID int64) (*response.MovieReviewStats, error) {
	if err := s.requireMovie(ctx, movieID); err != nil {
		return nil, err
	}

	stats, err := s.repo.Review.GetMovieReviewStats(ctx, movieID)
	if err != nil {
		s.log.Error("Failed to get movie review stats", zap.Error(err), zap.Int64("movie_id", movieID))
		return nil, apperr.Internal(err)
	}

	resp := response.StatsToResponse(stats)
	return &resp, nil
}

// ==================== HELPER METHODS ====================

// owned loads a review for a mutation. A missing review is reported before
// ownership so callers cannot probe ids they do not own.
func (s *reviewService) owned(ctx context.Context, p *authz.Principal, action authz.Action, reviewID int64) (*entity.Review, error) {
	if err := authz.Require(p, action, nil); err != nil {
		return nil, err
	}

	review, err := s.find(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	if err := authorize(p, action, review.UserID); err != nil {
		s.log.Warn("Review ownership check failed",
			zap.Int64("review_id", reviewID),
			zap.Int64("owner_id", review.UserID),
			zap.Int64("user_id", p.ID),
		)
		return nil, err
	}
	return review, nil
}

func (s *reviewService) find(ctx context.Context, reviewID int64) (*entity.Review, error) {
	review, err := s.repo.Review.FindByID(ctx, reviewID)
	if err != nil {
		s.log.Error("Failed to find review", zap.Error(err), zap.Int64("review_id", reviewID))
		return nil, apperr.Internal(err)
	}
	if review == nil {
		return nil, errReviewNotFound
	}
	return review, nil
}

func (s *reviewService) requireMovie(ctx context.Context, movieID int64) error {
	movie, err := s.repo.Movie.FindByID(ctx, movieID)
	if err != nil {
		s.log.Error("Failed to find movie", zap.Error(err), zap.Int64("movie_id", movieID))
		return apperr.Internal(err)
	}
	if movie == nil {
		return errMovieNotFound
	}
	return nil
}
