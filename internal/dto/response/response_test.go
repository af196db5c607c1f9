package response

import (
	"net/url"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movie-review/internal/data/entity"
	"movie-review/internal/query"
)

func TestNewPaginatedResponseLinks(t *testing.T) {
	reqURL, err := url.Parse("/api/reviews/?rating=3&page=2&page_size=1")
	require.NoError(t, err)
	q, err := query.Build(query.FromValues(reqURL.Query()), query.KindReview)
	require.NoError(t, err)

	items := []*entity.Review{{BaseSimple: entity.BaseSimple{ID: 7}, Rating: 3, Username: "alice", MovieTitle: "Heat"}}
	page := NewPaginatedResponse(items, ReviewToResponse, query.Paginate(q, 3), reqURL)

	require.NotNil(t, page.Next)
	require.NotNil(t, page.Previous)
	assert.Equal(t, "/api/reviews/?page=3&page_size=1&rating=3", *page.Next)
	assert.Equal(t, "/api/reviews/?page_size=1&rating=3", *page.Previous)
	assert.EqualValues(t, 3, page.Count)
	assert.Equal(t, "alice", page.Results[0].User)
	assert.Equal(t, "Heat", page.Results[0].Movie)
}

func TestNewPaginatedResponseEmpty(t *testing.T) {
	reqURL, _ := url.Parse("/api/movies/")
	q, err := query.Build(nil, query.KindMovie)
	require.NoError(t, err)

	page := NewPaginatedResponse([]*entity.Movie{}, MovieToResponse, query.Paginate(q, 0), reqURL)
	assert.Nil(t, page.Next)
	assert.Nil(t, page.Previous)
	assert.NotNil(t, page.Results)
	assert.Empty(t, page.Results)
}

func TestMovieToResponse(t *testing.T) {
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	m := &entity.Movie{
		Base:        entity.Base{ID: 1, CreatedAt: created, UpdatedAt: created},
		Title:       "Heat",
		Genre:       "Crime",
		ReleaseDate: time.Date(1995, 12, 15, 0, 0, 0, 0, time.UTC),
	}

	want := MovieResponse{ID: 1, Title: "Heat", Genre: "Crime", ReleaseDate: "1995-12-15", CreatedAt: created, UpdatedAt: created}
	if diff := cmp.Diff(want, MovieToResponse(m)); diff != "" {
		t.Errorf("MovieToResponse mismatch (-want +got):\n%s", diff)
	}
}
