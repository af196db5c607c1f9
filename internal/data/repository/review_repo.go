package repository

import (
	"context"
	"errors"
	"fmt"

	"movie-review/internal/data/entity"
	"movie-review/internal/query"
	"movie-review/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *entity.Review) error
	FindByID(ctx context.Context, id int64) (*entity.Review, error)
	List(ctx context.Context, q *query.ValidatedQuery) ([]*entity.Review, int64, error)
	Update(ctx context.Context, review *entity.Review) error
	Delete(ctx context.Context, id int64) error

	GetMovieReviewStats(ctx context.Context, movieID int64) (*entity.ReviewStats, error)
}

type reviewRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewReviewRepository(db database.PgxIface, log *zap.Logger) ReviewRepository {
	return &reviewRepository{
		db:  db,
		log: log.With(zap.String("repository", "review")),
	}
}

// Create inserts review and fills id and created_at. A missing movie or user
// surfaces as ErrNotFound through the foreign key.
func (r *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	query := `
		INSERT INTO reviews (user_id, movie_id, rating, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		review.UserID,
		review.MovieID,
		review.Rating,
		review.Comment,
	).Scan(&review.ID, &review.CreatedAt)

	if err != nil {
		err = handleSQLError(err, "create review for movie %d by user %d", review.MovieID, review.UserID)
		if !errors.Is(err, ErrNotFound) {
			r.log.Error("Failed to create review",
				zap.Error(err),
				zap.Int64("user_id", review.UserID),
				zap.Int64("movie_id", review.MovieID),
			)
		}
		return err
	}

	return nil
}

func (r *reviewRepository) FindByID(ctx context.Context, id int64) (*entity.Review, error) {
	sql, args, err := reviewBase(reviewColumns).Where("r.id = ?", id).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build review lookup: %w", err)
	}

	review, err := scanReview(r.db.QueryRow(ctx, sql, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find review by ID",
			zap.Error(err),
			zap.Int64("review_id", id),
		)
		return nil, fmt.Errorf("find review by ID %d: %w", id, err)
	}

	return review, nil
}

// List runs the validated query: filters, the requested ordering with id as
// tie-breaker, and the page window.
func (r *reviewRepository) List(ctx context.Context, q *query.ValidatedQuery) ([]*entity.Review, int64, error) {
	listQ, countQ := buildReviewList(q)

	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build review count: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		r.log.Error("Failed to count reviews", zap.Error(err))
		return nil, 0, fmt.Errorf("count reviews: %w", err)
	}

	listSQL, listArgs, err := listQ.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build review list: %w", err)
	}

	rows, err := r.db.Query(ctx, listSQL, listArgs...)
	if err != nil {
		r.log.Error("Failed to list reviews",
			zap.Error(err),
			zap.Int("limit", q.Limit()),
			zap.Int("offset", q.Offset()),
		)
		return nil, 0, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	reviews := make([]*entity.Review, 0, q.Limit())
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			r.log.Error("Failed to scan review row", zap.Error(err))
			return nil, 0, fmt.Errorf("scan review row: %w", err)
		}
		reviews = append(reviews, review)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate review rows: %w", err)
	}

	return reviews, total, nil
}

// Update writes rating and comment. created_at and ownership never change.
func (r *reviewRepository) Update(ctx context.Context, review *entity.Review) error {
	query := `
		UPDATE reviews
		SET rating = $2, comment = $3
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		review.ID,
		review.Rating,
		review.Comment,
	)

	if err != nil {
		r.log.Error("Failed to update review",
			zap.Error(err),
			zap.Int64("review_id", review.ID),
		)
		return fmt.Errorf("update review %d: %w", review.ID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("update review %d: %w", review.ID, ErrNotFound)
	}

	return nil
}

func (r *reviewRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM reviews WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete review",
			zap.Error(err),
			zap.Int64("review_id", id),
		)
		return fmt.Errorf("delete review %d: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("delete review %d: %w", id, ErrNotFound)
	}

	r.log.Info("Review deleted", zap.Int64("review_id", id))
	return nil
}

func (r *reviewRepository) GetMovieReviewStats(ctx context.Context, movieID int64) (*entity.ReviewStats, error) {
	query := `
		SELECT
			COALESCE(AVG(rating), 0)::float8 AS avg_rating,
			COUNT(*) AS review_count
		FROM reviews
		WHERE movie_id = $1
	`

	stats := &entity.ReviewStats{MovieID: movieID}
	err := r.db.QueryRow(ctx, query, movieID).Scan(&stats.AverageRating, &stats.ReviewCount)
	if err != nil {
		r.log.Error("Failed to get movie review stats",
			zap.Error(err),
			zap.Int64("movie_id", movieID),
		)
		return nil, fmt.Errorf("get movie review stats for %d: %w", movieID, err)
	}

	return stats, nil
}

func scanReview(row pgx.Row) (*entity.Review, error) {
	var review entity.Review
	err := row.Scan(
		&review.ID,
		&review.UserID,
		&review.MovieID,
		&review.Rating,
		&review.Comment,
		&review.CreatedAt,
		&review.Username,
		&review.MovieTitle,
	)
	if err != nil {
		return nil, err
	}
	return &review, nil
}
