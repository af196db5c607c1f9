// Package memory is a process-local storage engine with the same contracts as
// the postgres repositories, including unique usernames, foreign keys and
// cascading deletes. It backs DATASTORE_ENGINE=memory and the package tests.
package memory

import (
	"cmp"
	"slices"
	"strings"
	"sync"
	"time"

	"movie-review/internal/data/entity"
	"movie-review/internal/data/repository"
	"movie-review/internal/query"

	"github.com/google/uuid"
)

type store struct {
	mu sync.RWMutex

	users    map[int64]entity.User
	movies   map[int64]entity.Movie
	reviews  map[int64]entity.Review
	sessions map[uuid.UUID]entity.Session

	nextUserID   int64
	nextMovieID  int64
	nextReviewID int64

	now func() time.Time
}

// New returns a Repository whose stores share one in-memory dataset.
func New() *repository.Repository {
	s := &store{
		users:    make(map[int64]entity.User),
		movies:   make(map[int64]entity.Movie),
		reviews:  make(map[int64]entity.Review),
		sessions: make(map[uuid.UUID]entity.Session),
		now:      time.Now,
	}
	return &repository.Repository{
		User:    &userStore{s},
		Session: &sessionStore{s},
		Movie:   &movieStore{s},
		Review:  &reviewStore{s},
	}
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// window returns the page of items selected by q.
func window[T any](items []T, q *query.ValidatedQuery) []T {
	start := q.Offset()
	if start < 0 || start >= len(items) {
		return []T{}
	}
	end := min(start+q.Limit(), len(items))
	return items[start:end]
}

// orderBy compares primary keys then ids, honoring direction on the primary only.
func orderBy[K cmp.Ordered](a, b K, aID, bID int64, desc bool) int {
	c := cmp.Compare(a, b)
	if desc {
		c = -c
	}
	if c != 0 {
		return c
	}
	return cmp.Compare(aID, bID)
}

func sortByID[T any](items []T, id func(T) int64) {
	slices.SortFunc(items, func(a, b T) int {
		return cmp.Compare(id(a), id(b))
	})
}
