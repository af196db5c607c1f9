// Package query turns raw list-request parameters into a ValidatedQuery.
//
// Build never touches storage. Repositories translate the ValidatedQuery into
// their own retrieval (SQL for postgres, slice filtering for memory), and
// Paginate derives the envelope metadata from the total they report.
package query

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"movie-review/pkg/apperr"
	"movie-review/pkg/utils"
)

type EntityKind int

const (
	KindReview EntityKind = iota
	KindMovie
	KindUser
)

func (k EntityKind) String() string {
	switch k {
	case KindReview:
		return "review"
	case KindMovie:
		return "movie"
	case KindUser:
		return "user"
	default:
		return "unknown"
	}
}

const (
	DefaultPageSize = 10
	MaxPageSize     = 100

	// MaxOffset bounds the row offset so that any page past it still reads
	// as an empty page instead of overflowing.
	MaxOffset = math.MaxInt32
)

// Recognized parameter names.
const (
	ParamMovieTitle = "movie_title"
	ParamRating     = "rating"
	ParamSearch     = "search"
	ParamOrdering   = "ordering"
	ParamPage       = "page"
	ParamPageSize   = "page_size"
)

type SortField string

const (
	SortID          SortField = "id"
	SortCreatedAt   SortField = "created_at"
	SortRating      SortField = "rating"
	SortTitle       SortField = "title"
	SortReleaseDate SortField = "release_date"
	SortUsername    SortField = "username"
)

// Sort is the primary ordering. Ties are always broken by ascending id.
type Sort struct {
	Field SortField
	Desc  bool
}

// Filter holds the predicates for one listing. Zero values mean "no filter".
type Filter struct {
	MovieID    *int64
	MovieTitle string
	Rating     *int
	Search     string
}

type ValidatedQuery struct {
	Kind     EntityKind
	Filter   Filter
	Sort     Sort
	Page     int // one-based
	PageSize int
}

func (q *ValidatedQuery) Offset() int {
	if q.Page < 1 || q.PageSize < 1 {
		return 0
	}
	if q.Page-1 > MaxOffset/q.PageSize {
		return MaxOffset
	}
	return (q.Page - 1) * q.PageSize
}

func (q *ValidatedQuery) Limit() int {
	return q.PageSize
}

// WithMovie returns a copy scoped to one movie. The receiver is unchanged.
func (q *ValidatedQuery) WithMovie(movieID int64) *ValidatedQuery {
	out := *q
	id := movieID
	out.Filter.MovieID = &id
	return &out
}

// WithPage returns a copy pointing at another page.
func (q *ValidatedQuery) WithPage(page int) *ValidatedQuery {
	out := *q
	out.Page = page
	return &out
}

type kindOptions struct {
	defaultSort Sort
	orderings   map[string]Sort
	filters     map[string]bool
}

var options = map[EntityKind]kindOptions{
	KindReview: {
		defaultSort: Sort{Field: SortCreatedAt},
		orderings: map[string]Sort{
			"created_at":  {Field: SortCreatedAt},
			"-created_at": {Field: SortCreatedAt, Desc: true},
			"rating":      {Field: SortRating},
			"-rating":     {Field: SortRating, Desc: true},
		},
		filters: map[string]bool{ParamMovieTitle: true, ParamRating: true},
	},
	KindMovie: {
		defaultSort: Sort{Field: SortID},
		orderings: map[string]Sort{
			"title":         {Field: SortTitle},
			"-title":        {Field: SortTitle, Desc: true},
			"release_date":  {Field: SortReleaseDate},
			"-release_date": {Field: SortReleaseDate, Desc: true},
		},
		filters: map[string]bool{ParamSearch: true},
	},
	KindUser: {
		defaultSort: Sort{Field: SortID},
		orderings: map[string]Sort{
			"username":  {Field: SortUsername},
			"-username": {Field: SortUsername, Desc: true},
		},
		filters: map[string]bool{ParamSearch: true},
	},
}

// Build validates raw parameters for kind. Unrecognized parameters are ignored.
func Build(raw map[string]string, kind EntityKind) (*ValidatedQuery, error) {
	opts, ok := options[kind]
	if !ok {
		return nil, apperr.Validation("unsupported listing")
	}

	q := &ValidatedQuery{
		Kind:     kind,
		Sort:     opts.defaultSort,
		Page:     1,
		PageSize: DefaultPageSize,
	}

	if opts.filters[ParamMovieTitle] {
		q.Filter.MovieTitle = strings.TrimSpace(raw[ParamMovieTitle])
	}

	if opts.filters[ParamSearch] {
		q.Filter.Search = strings.TrimSpace(raw[ParamSearch])
	}

	if opts.filters[ParamRating] {
		if value, ok := raw[ParamRating]; ok && value != "" {
			rating, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil || rating < 1 || rating > 5 {
				return nil, apperr.Validation("invalid rating")
			}
			q.Filter.Rating = &rating
		}
	}

	if value := strings.TrimSpace(raw[ParamOrdering]); value != "" {
		sort, ok := opts.orderings[value]
		if !ok {
			return nil, apperr.Validation("invalid ordering")
		}
		q.Sort = sort
	}

	if value := strings.TrimSpace(raw[ParamPage]); value != "" {
		page, err := strconv.Atoi(value)
		if err != nil || page < 1 {
			return nil, apperr.Validation("invalid page")
		}
		q.Page = page
	}

	q.PageSize = utils.ParseInt(strings.TrimSpace(raw[ParamPageSize]), DefaultPageSize)
	if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}

	return q, nil
}

// FromValues collapses a query string to its first value per key.
func FromValues(values url.Values) map[string]string {
	raw := make(map[string]string, len(values))
	for key, vs := range values {
		if len(vs) > 0 {
			raw[key] = vs[0]
		}
	}
	return raw
}

type PageMeta struct {
	Count        int64
	Page         int
	TotalPages   int
	NextPage     *int
	PreviousPage *int
}

// Paginate computes envelope metadata for q given the total match count.
// A page past the end has no next page; its previous page is the last one
// that holds results.
func Paginate(q *ValidatedQuery, total int64) PageMeta {
	meta := PageMeta{
		Count:      total,
		Page:       q.Page,
		TotalPages: totalPages(total, q.PageSize),
	}

	if q.Page < meta.TotalPages {
		next := q.Page + 1
		meta.NextPage = &next
	}

	if q.Page > 1 && meta.TotalPages > 0 {
		prev := min(q.Page-1, meta.TotalPages)
		meta.PreviousPage = &prev
	}

	return meta
}

func totalPages(total int64, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}
