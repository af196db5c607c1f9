package repository

import (
	"movie-review/pkg/database"

	sq "github.com/Masterminds/squirrel"
	"go.uber.org/zap"
)

// Repository groups the stores used by the use cases. The postgres and
// memory engines both fill it.
type Repository struct {
	User    UserRepository
	Session SessionRepository
	Movie   MovieRepository
	Review  ReviewRepository
}

// psql builds statements with postgres placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:    NewUserRepository(db, log),
		Session: NewSessionRepository(db, log),
		Movie:   NewMovieRepository(db, log),
		Review:  NewReviewRepository(db, log),
	}
}
