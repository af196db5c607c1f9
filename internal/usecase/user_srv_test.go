package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movie-review/internal/dto/request"
	"movie-review/internal/query"
	"movie-review/pkg/apperr"
)

func TestProfile(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.svc.User.GetProfile(ctx, nil)
	require.ErrorIs(t, err, apperr.ErrUnauthenticated)

	me, err := e.svc.User.GetProfile(ctx, e.alice)
	require.NoError(t, err)
	assert.Equal(t, "alice", me.Username)

	email := "alice@new.example.com"
	first := "Alice"
	updated, err := e.svc.User.UpdateProfile(ctx, e.alice, &request.UpdateProfileRequest{Email: &email, FirstName: &first})
	require.NoError(t, err)
	assert.Equal(t, email, updated.Email)
	assert.Equal(t, first, updated.FirstName)

	bad := "nope"
	_, err = e.svc.User.UpdateProfile(ctx, e.alice, &request.UpdateProfileRequest{Email: &bad})
	require.ErrorIs(t, err, apperr.ErrValidation)
}

func TestPasswordChangeRevokesSessions(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	pair, err := e.svc.Auth.Login(ctx, &request.LoginRequest{Username: "alice", Password: "password123"}, ClientInfo{})
	require.NoError(t, err)

	password := "brand-new-secret"
	_, err = e.svc.User.UpdateProfile(ctx, e.alice, &request.UpdateProfileRequest{Password: &password})
	require.NoError(t, err)

	_, err = e.svc.Auth.Refresh(ctx, &request.RefreshRequest{RefreshToken: pair.RefreshToken}, ClientInfo{})
	require.ErrorIs(t, err, apperr.ErrUnauthenticated)

	_, err = e.svc.Auth.Login(ctx, &request.LoginRequest{Username: "alice", Password: password}, ClientInfo{})
	require.NoError(t, err)
}

func TestDeleteProfileCascades(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	review, err := e.svc.Review.CreateReview(ctx, e.alice, e.movie.ID, &request.CreateReviewRequest{Rating: 2, Comment: "meh"})
	require.NoError(t, err)

	require.NoError(t, e.svc.User.DeleteProfile(ctx, e.alice))

	_, err = e.svc.Review.GetReviewByID(ctx, review.ID)
	require.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = e.svc.User.GetProfile(ctx, e.alice)
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestAdminUserManagement(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	page, err := e.svc.User.GetAllUsers(ctx, mustQuery(t, map[string]string{"ordering": "-username"}, query.KindUser), listURL(t, "/api/users/"))
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.Count)
	assert.Equal(t, "root", page.Results[0].Username)

	require.ErrorIs(t, e.svc.User.DeleteUser(ctx, 999), apperr.ErrNotFound)

	created, err := e.svc.User.CreateUser(ctx, &request.CreateUserRequest{Username: "ops", Email: "ops@example.com", Password: "password123", IsAdmin: true})
	require.NoError(t, err)
	assert.True(t, created.IsAdmin)

	_, err = e.svc.User.CreateUser(ctx, &request.CreateUserRequest{Username: "ops", Email: "ops@example.com", Password: "password123"})
	require.ErrorIs(t, err, apperr.ErrConflict)
}
