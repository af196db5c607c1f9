package usecase

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"movie-review/internal/authz"
	"movie-review/internal/data/entity"
	"movie-review/internal/data/repository"
	"movie-review/internal/data/repository/memory"
	"movie-review/internal/query"
	"movie-review/pkg/token"
	"movie-review/pkg/utils"
)

type env struct {
	repo   *repository.Repository
	tokens *token.Manager
	svc    *Service

	alice *authz.Principal
	bob   *authz.Principal
	admin *authz.Principal
	movie *entity.Movie
}

func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()

	tokens, err := token.NewManager("0123456789abcdef0123456789abcdef", "test", time.Minute, time.Hour)
	require.NoError(t, err)

	e := &env{repo: memory.New(), tokens: tokens}
	e.svc = NewService(e.repo, tokens, zap.NewNop())

	e.alice = e.user(t, "alice", false)
	e.bob = e.user(t, "bob", false)
	e.admin = e.user(t, "root", true)

	e.movie = &entity.Movie{Title: "The Matrix", Genre: "Sci-Fi", ReleaseDate: time.Date(1999, 3, 31, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, e.repo.Movie.Create(ctx, e.movie))
	return e
}

func (e *env) user(t *testing.T, name string, admin bool) *authz.Principal {
	t.Helper()
	hash, err := utils.HashPassword("password123")
	require.NoError(t, err)
	u := &entity.User{Username: name, Email: name + "@example.com", PasswordHash: hash, IsAdmin: admin}
	require.NoError(t, e.repo.User.Create(context.Background(), u))
	return &authz.Principal{ID: u.ID, Username: u.Username, IsAdmin: u.IsAdmin}
}

func mustQuery(t *testing.T, raw map[string]string, kind query.EntityKind) *query.ValidatedQuery {
	t.Helper()
	q, err := query.Build(raw, kind)
	require.NoError(t, err)
	return q
}

func listURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}
