package wire

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"movie-review/internal/data/entity"
	"movie-review/internal/data/repository/memory"
	"movie-review/pkg/token"
	"movie-review/pkg/utils"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type client struct {
	t      *testing.T
	router http.Handler
}

func newClient(t *testing.T) (*client, func(username string)) {
	t.Helper()

	repo := memory.New()
	tokens, err := token.NewManager("0123456789abcdef0123456789abcdef", "test", time.Minute, time.Hour)
	require.NoError(t, err)

	cfg := &utils.Config{CORS: utils.CORSConfig{AllowedOrigins: []string{"*"}}}
	app := Wiring(repo, tokens, cfg, zap.NewNop())

	// promote creates an administrator the way the admin CLI does.
	promote := func(username string) {
		hash, err := utils.HashPassword("adminpass123")
		require.NoError(t, err)
		require.NoError(t, repo.User.Create(context.Background(), &entity.User{
			Username: username, Email: username + "@example.com", PasswordHash: hash, IsAdmin: true,
		}))
	}
	return &client{t: t, router: app.Router}, promote
}

func (c *client) do(method, path, bearer string, body any) (*httptest.ResponseRecorder, map[string]any) {
	c.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	rec := httptest.NewRecorder()
	c.router.ServeHTTP(rec, req)

	var out map[string]any
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		_ = json.Unmarshal(rec.Body.Bytes(), &out)
	}
	return rec, out
}

func (c *client) login(username, password string) string {
	c.t.Helper()
	rec, body := c.do(http.MethodPost, "/api/login", "", map[string]string{"username": username, "password": password})
	require.Equal(c.t, http.StatusOK, rec.Code, rec.Body.String())
	return body["access_token"].(string)
}

func id(body map[string]any) int64 {
	return int64(body["id"].(float64))
}

func TestReviewLifecycle(t *testing.T) {
	c, promote := newClient(t)

	rec, body := c.do(http.MethodPost, "/api/register", "", map[string]string{
		"username": "alice", "email": "alice@example.com", "password": "wonderland",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "alice", body["username"])
	assert.NotContains(t, body, "password")

	rec, _ = c.do(http.MethodPost, "/api/register", "", map[string]string{
		"username": "bob", "email": "bob@example.com", "password": "builder99",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, body = c.do(http.MethodPost, "/api/login", "", map[string]string{"username": "alice", "password": "wonderland"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, body["access_token"])
	assert.NotEmpty(t, body["refresh_token"])
	alice := body["access_token"].(string)
	bob := c.login("bob", "builder99")

	movie := map[string]string{"title": "Heat", "genre": "Crime", "release_date": "1995-12-15"}
	rec, body = c.do(http.MethodPost, "/api/movies", alice, movie)
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.NotEmpty(t, body["error"])

	promote("root")
	admin := c.login("root", "adminpass123")
	rec, body = c.do(http.MethodPost, "/api/movies", admin, movie)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	movieID := id(body)

	// the body names bob as the author; the server ignores it
	rec, body = c.do(http.MethodPost, fmt.Sprintf("/api/movies/%d/reviews", movieID), alice, map[string]any{
		"rating": 4, "comment": "tense", "user": "bob", "user_id": 2,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "alice", body["user"])
	assert.EqualValues(t, 1, body["user_id"])
	reviewID := id(body)

	rec, body = c.do(http.MethodPut, fmt.Sprintf("/api/reviews/%d", reviewID), alice, map[string]any{"rating": 5})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.EqualValues(t, 5, body["rating"])

	rec, _ = c.do(http.MethodDelete, fmt.Sprintf("/api/reviews/%d", reviewID), bob, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = c.do(http.MethodDelete, "/api/reviews/999", bob, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = c.do(http.MethodDelete, fmt.Sprintf("/api/reviews/%d", reviewID), "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// deleting the movie takes its reviews with it
	rec, _ = c.do(http.MethodDelete, fmt.Sprintf("/api/movies/%d", movieID), admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec, _ = c.do(http.MethodGet, fmt.Sprintf("/api/reviews/%d", reviewID), alice, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	rec, body = c.do(http.MethodGet, "/api/reviews/", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 0, body["count"])
}

func TestRegisterValidation(t *testing.T) {
	c, _ := newClient(t)

	rec, body := c.do(http.MethodPost, "/api/register", "", map[string]string{
		"username": "carol", "email": "carol@example.com", "password": "short",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, body["details"], "password")

	rec, _ = c.do(http.MethodPost, "/api/register", "", map[string]string{
		"username": "carol", "email": "carol@example.com", "password": "longenough",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, body = c.do(http.MethodPost, "/api/register", "", map[string]string{
		"username": "carol", "email": "other@example.com", "password": "longenough",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, body["details"], "username")

	rec, _ = c.do(http.MethodPost, "/api/login", "", map[string]string{"username": "carol", "password": "wrong-password"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = c.do(http.MethodPost, "/api/login", "", map[string]string{"username": "carol"})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = c.do(http.MethodPost, "/api/login", "", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListingQueries(t *testing.T) {
	c, promote := newClient(t)
	promote("root")
	admin := c.login("root", "adminpass123")

	rec, body := c.do(http.MethodPost, "/api/movies", admin, map[string]string{"title": "Alien", "genre": "Horror", "release_date": "1979-05-25"})
	require.Equal(t, http.StatusCreated, rec.Code)
	movieID := id(body)

	for _, r := range []int{3, 5, 3, 5, 1} {
		rec, _ = c.do(http.MethodPost, fmt.Sprintf("/api/movies/%d/reviews", movieID), admin, map[string]any{"rating": r, "comment": "c"})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec, _ = c.do(http.MethodGet, "/api/movies", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("WWW-Authenticate"))

	for _, bad := range []string{"rating=6", "rating=abc", "ordering=comment", "page=0"} {
		rec, body = c.do(http.MethodGet, "/api/reviews?"+bad, admin, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, bad)
		assert.NotEmpty(t, body["error"], bad)
	}

	rec, body = c.do(http.MethodGet, "/api/reviews?rating=3", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 2, body["count"])

	rec, body = c.do(http.MethodGet, fmt.Sprintf("/api/movies/%d/reviews?ordering=-rating", movieID), admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got []float64
	var ids []float64
	for _, r := range body["results"].([]any) {
		got = append(got, r.(map[string]any)["rating"].(float64))
		ids = append(ids, r.(map[string]any)["id"].(float64))
	}
	assert.Equal(t, []float64{5, 5, 3, 3, 1}, got)
	assert.Less(t, ids[0], ids[1])
	assert.Less(t, ids[2], ids[3])

	rec, body = c.do(http.MethodGet, "/api/reviews?page_size=1000", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 5, body["count"])
	assert.Nil(t, body["next"])

	rec, body = c.do(http.MethodGet, "/api/reviews?page=4&page_size=2", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 5, body["count"])
	assert.Empty(t, body["results"])
	assert.Nil(t, body["next"])
	assert.Equal(t, "/api/reviews?page=3&page_size=2", body["previous"])

	for _, page := range []string{"1000000000000000000", "922337203685477581", "9223372036854775807"} {
		rec, body = c.do(http.MethodGet, "/api/reviews?page="+page, admin, nil)
		require.Equal(t, http.StatusOK, rec.Code, page)
		assert.EqualValues(t, 5, body["count"], page)
		assert.Empty(t, body["results"], page)
		assert.Nil(t, body["next"], page)
	}

	rec, body = c.do(http.MethodGet, fmt.Sprintf("/api/movies/%d/review-stats", movieID), admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 5, body["review_count"])
	assert.InDelta(t, 3.4, body["average_rating"], 0.0001)

	rec, body = c.do(http.MethodGet, "/api/movies?search=horr", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, body["count"])
}

func TestTokenRefreshAndLogout(t *testing.T) {
	c, _ := newClient(t)

	rec, _ := c.do(http.MethodPost, "/api/register", "", map[string]string{
		"username": "dora", "email": "dora@example.com", "password": "explorer1",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, body := c.do(http.MethodPost, "/api/login", "", map[string]string{"username": "dora", "password": "explorer1"})
	require.Equal(t, http.StatusOK, rec.Code)
	refresh := body["refresh_token"].(string)

	rec, body = c.do(http.MethodPost, "/api/token/refresh", "", map[string]string{"refresh_token": refresh})
	require.Equal(t, http.StatusOK, rec.Code)
	access := body["access_token"].(string)
	rotated := body["refresh_token"].(string)

	rec, _ = c.do(http.MethodPost, "/api/token/refresh", "", map[string]string{"refresh_token": refresh})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, body = c.do(http.MethodGet, "/api/profile", access, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "dora", body["username"])

	rec, _ = c.do(http.MethodPost, "/api/logout", access, map[string]string{"refresh_token": rotated})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = c.do(http.MethodPost, "/api/token/refresh", "", map[string]string{"refresh_token": rotated})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminRoutesAndOperationalEndpoints(t *testing.T) {
	c, promote := newClient(t)
	promote("root")
	admin := c.login("root", "adminpass123")

	rec, _ := c.do(http.MethodPost, "/api/register", "", map[string]string{
		"username": "eve", "email": "eve@example.com", "password": "password1",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	eve := c.login("eve", "password1")

	rec, _ = c.do(http.MethodGet, "/api/users", eve, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec, body := c.do(http.MethodGet, "/api/users?ordering=username", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 2, body["count"])

	rec, _ = c.do(http.MethodDelete, "/api/users/abc", admin, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = c.do(http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = c.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "movie_review_authz_denials_total")

	rec, _ = c.do(http.MethodGet, "/api/nope", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
