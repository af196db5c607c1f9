package query

import (
	"errors"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movie-review/pkg/apperr"
)

func intPtr(v int) *int { return &v }

func TestBuildReviewDefaults(t *testing.T) {
	q, err := Build(nil, KindReview)
	require.NoError(t, err)

	want := &ValidatedQuery{
		Kind:     KindReview,
		Sort:     Sort{Field: SortCreatedAt},
		Page:     1,
		PageSize: DefaultPageSize,
	}
	if diff := cmp.Diff(want, q); diff != "" {
		t.Fatalf("unexpected query (-want +got):\n%s", diff)
	}
	assert.Equal(t, 0, q.Offset())
	assert.Equal(t, 10, q.Limit())
}

func TestBuildReviewFilters(t *testing.T) {
	q, err := Build(map[string]string{
		"movie_title": "  Matrix ",
		"rating":      "3",
		"ordering":    "-rating",
		"page":        "2",
		"page_size":   "5",
		"unknown":     "ignored",
	}, KindReview)
	require.NoError(t, err)

	want := &ValidatedQuery{
		Kind:     KindReview,
		Filter:   Filter{MovieTitle: "Matrix", Rating: intPtr(3)},
		Sort:     Sort{Field: SortRating, Desc: true},
		Page:     2,
		PageSize: 5,
	}
	if diff := cmp.Diff(want, q); diff != "" {
		t.Fatalf("unexpected query (-want +got):\n%s", diff)
	}
	assert.Equal(t, 5, q.Offset())
}

func TestBuildRejectsBadRating(t *testing.T) {
	for _, value := range []string{"6", "0", "-1", "abc", "3.5"} {
		_, err := Build(map[string]string{"rating": value}, KindReview)
		require.Error(t, err, value)
		assert.True(t, errors.Is(err, apperr.ErrValidation), value)
		assert.Equal(t, "invalid rating", apperr.From(err).Message, value)
	}

	for r := 1; r <= 5; r++ {
		q, err := Build(map[string]string{"rating": string(rune('0' + r))}, KindReview)
		require.NoError(t, err)
		require.Equal(t, r, *q.Filter.Rating)
	}
}

func TestBuildRejectsBadOrdering(t *testing.T) {
	_, err := Build(map[string]string{"ordering": "password"}, KindReview)
	require.Error(t, err)
	assert.Equal(t, "invalid ordering", apperr.From(err).Message)

	// movie orderings are not review orderings
	_, err = Build(map[string]string{"ordering": "title"}, KindReview)
	require.Error(t, err)
}

func TestBuildRejectsBadPage(t *testing.T) {
	for _, value := range []string{"0", "-3", "first"} {
		_, err := Build(map[string]string{"page": value}, KindReview)
		require.Error(t, err, value)
		assert.Equal(t, "invalid page", apperr.From(err).Message)
	}
}

func TestOffsetSaturatesForHugePages(t *testing.T) {
	for _, raw := range []map[string]string{
		{"page": "1000000000000000000"},
		{"page": "922337203685477581", "page_size": "100"},
		{"page": "9223372036854775807", "page_size": "1"},
	} {
		q, err := Build(raw, KindReview)
		require.NoError(t, err, raw)
		assert.Equal(t, MaxOffset, q.Offset(), raw)
		assert.Equal(t, q.PageSize, q.Limit(), raw)
	}

	q, err := Build(map[string]string{"page": "3", "page_size": "20"}, KindReview)
	require.NoError(t, err)
	assert.Equal(t, 40, q.Offset())
}

func TestBuildPageSize(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"", DefaultPageSize},
		{"25", 25},
		{"100", 100},
		{"1000", MaxPageSize},
		{"0", DefaultPageSize},
		{"-5", DefaultPageSize},
		{"lots", DefaultPageSize},
	}
	for _, tt := range tests {
		q, err := Build(map[string]string{"page_size": tt.raw}, KindReview)
		require.NoError(t, err)
		assert.Equal(t, tt.want, q.PageSize, tt.raw)
	}
}

func TestBuildMovie(t *testing.T) {
	q, err := Build(map[string]string{
		"search":      "drama",
		"ordering":    "-release_date",
		"rating":      "99", // not a movie option
		"movie_title": "x",
	}, KindMovie)
	require.NoError(t, err)

	assert.Equal(t, "drama", q.Filter.Search)
	assert.Nil(t, q.Filter.Rating)
	assert.Empty(t, q.Filter.MovieTitle)
	assert.Equal(t, Sort{Field: SortReleaseDate, Desc: true}, q.Sort)

	q, err = Build(nil, KindMovie)
	require.NoError(t, err)
	assert.Equal(t, Sort{Field: SortID}, q.Sort)
}

func TestWithMovieDoesNotMutate(t *testing.T) {
	base, err := Build(map[string]string{"rating": "4"}, KindReview)
	require.NoError(t, err)

	scoped := base.WithMovie(7)
	require.NotNil(t, scoped.Filter.MovieID)
	assert.EqualValues(t, 7, *scoped.Filter.MovieID)
	assert.Nil(t, base.Filter.MovieID)
	assert.Equal(t, base.Filter.Rating, scoped.Filter.Rating)
}

func TestFromValues(t *testing.T) {
	values := url.Values{}
	values.Add("rating", "2")
	values.Add("rating", "5")
	values.Set("page", "3")

	raw := FromValues(values)
	assert.Equal(t, map[string]string{"rating": "2", "page": "3"}, raw)
}

func TestBuildIsDeterministic(t *testing.T) {
	raw := map[string]string{"rating": "2", "ordering": "created_at", "page_size": "500"}
	a, err := Build(raw, KindReview)
	require.NoError(t, err)
	b, err := Build(raw, KindReview)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(a, b))
	assert.Equal(t, "500", raw["page_size"])
}

func TestPaginate(t *testing.T) {
	tests := []struct {
		name     string
		page     int
		size     int
		total    int64
		next     *int
		previous *int
		pages    int
	}{
		{name: "empty", page: 1, size: 10, total: 0, pages: 0},
		{name: "single page", page: 1, size: 10, total: 10, pages: 1},
		{name: "first of three", page: 1, size: 10, total: 25, next: intPtr(2), pages: 3},
		{name: "middle", page: 2, size: 10, total: 25, next: intPtr(3), previous: intPtr(1), pages: 3},
		{name: "last", page: 3, size: 10, total: 25, previous: intPtr(2), pages: 3},
		{name: "beyond last", page: 9, size: 10, total: 25, previous: intPtr(3), pages: 3},
		{name: "beyond empty", page: 4, size: 10, total: 0, pages: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := Paginate(&ValidatedQuery{Page: tt.page, PageSize: tt.size}, tt.total)
			assert.Equal(t, tt.total, meta.Count)
			assert.Equal(t, tt.pages, meta.TotalPages)
			assert.Equal(t, tt.next, meta.NextPage)
			assert.Equal(t, tt.previous, meta.PreviousPage)
		})
	}
}
