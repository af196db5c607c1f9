package repository

import (
	"strings"

	"movie-review/internal/query"

	sq "github.com/Masterminds/squirrel"
)

// containsPattern escapes LIKE metacharacters so user input matches literally.
func containsPattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

// filtered adds where only when it holds predicates.
func filtered(b sq.SelectBuilder, where sq.And) sq.SelectBuilder {
	if len(where) == 0 {
		return b
	}
	return b.Where(where)
}

func orderClause(column string, desc bool) string {
	if desc {
		return column + " DESC"
	}
	return column + " ASC"
}

var reviewSortColumns = map[query.SortField]string{
	query.SortCreatedAt: "r.created_at",
	query.SortRating:    "r.rating",
	query.SortID:        "r.id",
}

const reviewColumns = "r.id, r.user_id, r.movie_id, r.rating, r.comment, r.created_at, u.username, m.title"

func reviewBase(columns string) sq.SelectBuilder {
	return psql.Select(columns).
		From("reviews r").
		Join("users u ON u.id = r.user_id").
		Join("movies m ON m.id = r.movie_id")
}

func reviewWhere(f query.Filter) sq.And {
	where := sq.And{}
	if f.MovieID != nil {
		where = append(where, sq.Eq{"r.movie_id": *f.MovieID})
	}
	if f.MovieTitle != "" {
		where = append(where, sq.ILike{"m.title": containsPattern(f.MovieTitle)})
	}
	if f.Rating != nil {
		where = append(where, sq.Eq{"r.rating": *f.Rating})
	}
	return where
}

// buildReviewList returns the page query and the matching count query.
func buildReviewList(q *query.ValidatedQuery) (sq.SelectBuilder, sq.SelectBuilder) {
	where := reviewWhere(q.Filter)

	col, ok := reviewSortColumns[q.Sort.Field]
	if !ok {
		col = "r.created_at"
	}

	list := filtered(reviewBase(reviewColumns), where).
		OrderBy(orderClause(col, q.Sort.Desc), "r.id ASC").
		Limit(uint64(q.Limit())).
		Offset(uint64(q.Offset()))

	count := filtered(reviewBase("COUNT(*)"), where)

	return list, count
}

var movieSortColumns = map[query.SortField]string{
	query.SortTitle:       "title",
	query.SortReleaseDate: "release_date",
	query.SortID:          "id",
}

const movieColumns = "id, title, genre, release_date, description, created_at, updated_at"

func buildMovieList(q *query.ValidatedQuery) (sq.SelectBuilder, sq.SelectBuilder) {
	where := sq.And{}
	if q.Filter.Search != "" {
		pattern := containsPattern(q.Filter.Search)
		where = append(where, sq.Or{
			sq.ILike{"title": pattern},
			sq.ILike{"genre": pattern},
		})
	}

	col, ok := movieSortColumns[q.Sort.Field]
	if !ok {
		col = "id"
	}

	orderBy := []string{orderClause(col, q.Sort.Desc)}
	if col != "id" {
		orderBy = append(orderBy, "id ASC")
	}

	list := filtered(psql.Select(movieColumns).From("movies"), where).
		OrderBy(orderBy...).
		Limit(uint64(q.Limit())).
		Offset(uint64(q.Offset()))

	count := filtered(psql.Select("COUNT(*)").From("movies"), where)

	return list, count
}

var userSortColumns = map[query.SortField]string{
	query.SortUsername: "username",
	query.SortID:       "id",
}

const userColumns = "id, username, email, password, first_name, last_name, is_admin, created_at, updated_at"

func buildUserList(q *query.ValidatedQuery) (sq.SelectBuilder, sq.SelectBuilder) {
	where := sq.And{}
	if q.Filter.Search != "" {
		pattern := containsPattern(q.Filter.Search)
		where = append(where, sq.Or{
			sq.ILike{"username": pattern},
			sq.ILike{"email": pattern},
		})
	}

	col, ok := userSortColumns[q.Sort.Field]
	if !ok {
		col = "id"
	}

	orderBy := []string{orderClause(col, q.Sort.Desc)}
	if col != "id" {
		orderBy = append(orderBy, "id ASC")
	}

	list := filtered(psql.Select(userColumns).From("users"), where).
		OrderBy(orderBy...).
		Limit(uint64(q.Limit())).
		Offset(uint64(q.Offset()))

	count := filtered(psql.Select("COUNT(*)").From("users"), where)

	return list, count
}
