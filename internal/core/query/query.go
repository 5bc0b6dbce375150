// Package query turns request parameters into the storage-neutral
// domain.ListQuery consumed by the note repositories.
package query

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/vncsmyrnk/notes/internal/core/domain"
	"github.com/vncsmyrnk/notes/internal/core/validation"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
	// MaxPage keeps (page-1)*limit inside an int for any accepted limit.
	MaxPage      = math.MaxInt / MaxLimit

	DefaultSortField = "createdAt"
	SortAscending    = 1
	SortDescending   = -1
)

var sortFields = map[string]struct{}{
	"createdAt": {},
	"updatedAt": {},
	"title":     {},
	"category":  {},
	"type":      {},
	"priority":  {},
}

// Paginate never fails: missing, zero or non-numeric values fall back to
// the defaults and limit is clamped to MaxLimit.
func Paginate(page, limit string) domain.Pagination {
	return paginate(atoiOr(page, DefaultPage), atoiOr(limit, DefaultLimit))
}

func paginate(page, limit int) domain.Pagination {
	if page == 0 {
		page = DefaultPage
	}
	if limit == 0 {
		limit = DefaultLimit
	}
	page = min(MaxPage, max(1, page))
	limit = min(MaxLimit, max(1, limit))

	return domain.Pagination{Page: page, Limit: limit, Skip: (page - 1) * limit}
}

// ParseSort silently falls back to createdAt descending for anything outside
// the allow-list.
func ParseSort(sortBy, sortOrder string) domain.Sort {
	sort := domain.Sort{Field: DefaultSortField, Direction: SortDescending}
	if _, ok := sortFields[sortBy]; ok {
		sort.Field = sortBy
	}
	if sortOrder == "asc" {
		sort.Direction = SortAscending
	}
	return sort
}

// BuildListQuery maps GET /notes query parameters to a ListQuery. Absent
// parameters add no predicate, except the archived state which is always
// constrained.
func BuildListQuery(values url.Values) domain.ListQuery {
	archived := validation.ParseBool(values.Get("archived"))
	filter := domain.NoteFilter{Archived: &archived}

	if c := values.Get("category"); c != "" {
		filter.Categories = []string{c}
	}
	if t := values.Get("type"); t != "" {
		filter.Types = []string{t}
	}
	if p := values.Get("priority"); p != "" {
		filter.Priorities = []string{p}
	}
	if values.Has("favorite") {
		favorite := validation.ParseBool(values.Get("favorite"))
		filter.Favorite = &favorite
	}
	if tags := values.Get("tags"); tags != "" {
		filter.Tags = SplitTags(tags)
	}
	if s := strings.TrimSpace(values.Get("search")); s != "" {
		filter.Search = s
	}

	return domain.ListQuery{
		Filter:     filter,
		Sort:       ParseSort(values.Get("sortBy"), values.Get("sortOrder")),
		Pagination: Paginate(values.Get("page"), values.Get("limit")),
	}
}

// SplitTags splits a comma separated list, dropping blank entries. Tags are
// stored lower-cased so the parts are folded the same way.
func SplitTags(s string) []string {
	var tags []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.ToLower(strings.TrimSpace(part)); part != "" {
			tags = append(tags, part)
		}
	}
	return tags
}

func atoiOr(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}
