package shared

import (
	"net/url"
	"strconv"
	"strings"
)

// MaxListLimit caps a single page.
const MaxListLimit = 500

// ListFilters represents standard list query filters.
type ListFilters struct {
	Page    int
	Limit   int
	Search  string
	MovieID *int64
}

// ParseListFilters reads page/limit/search/movie_id from the query string.
// Unparseable values are ignored.
func ParseListFilters(q url.Values) ListFilters {
	f := ListFilters{Search: strings.TrimSpace(q.Get("search"))}
	if v, err := strconv.Atoi(q.Get("limit")); err == nil && v > 0 {
		f.Limit = min(v, MaxListLimit)
	}
	if v, err := strconv.Atoi(q.Get("page")); err == nil && v > 0 {
		f.Page = v
	}
	if f.Limit > 0 && f.Page == 0 {
		f.Page = 1
	}
	if v, err := strconv.ParseInt(q.Get("movie_id"), 10, 64); err == nil && v > 0 {
		f.MovieID = &v
	}
	return f
}

// Offset returns the row offset for the current page.
func (f ListFilters) Offset() int {
	if f.Limit <= 0 || f.Page <= 1 {
		return 0
	}
	return (f.Page - 1) * f.Limit
}

// CacheToken renders the filters as a stable cache key fragment.
func (f ListFilters) CacheToken() string {
	movie := "all"
	if f.MovieID != nil {
		movie = strconv.FormatInt(*f.MovieID, 10)
	}
	return strings.Join([]string{
		"p" + strconv.Itoa(f.Page),
		"l" + strconv.Itoa(f.Limit),
		"m" + movie,
		"q" + url.QueryEscape(strings.ToLower(f.Search)),
	}, ":")
}
