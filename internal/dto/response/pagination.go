package response

import (
	"net/url"
	"strconv"

	"github.com/samber/lo"

	"movie-review/internal/query"
)

// PaginatedResponse is the list envelope. Next and Previous are links
// relative to the request that produced the page, or null.
type PaginatedResponse[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// NewPaginatedResponse converts items with convert and links neighbouring
// pages by rewriting the page parameter of reqURL.
func NewPaginatedResponse[E any, T any](items []E, convert func(E) T, meta query.PageMeta, reqURL *url.URL) *PaginatedResponse[T] {
	return &PaginatedResponse[T]{
		Count:    meta.Count,
		Next:     pageLink(reqURL, meta.NextPage),
		Previous: pageLink(reqURL, meta.PreviousPage),
		Results: lo.Map(items, func(item E, _ int) T {
			return convert(item)
		}),
	}
}

func pageLink(reqURL *url.URL, page *int) *string {
	if page == nil || reqURL == nil {
		return nil
	}

	values := reqURL.Query()
	if *page == 1 {
		values.Del(query.ParamPage)
	} else {
		values.Set(query.ParamPage, strconv.Itoa(*page))
	}

	link := url.URL{Path: reqURL.Path, RawQuery: values.Encode()}
	return lo.ToPtr(link.String())
}
