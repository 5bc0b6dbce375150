package query

import (
	"strings"

	"github.com/vncsmyrnk/notes/internal/core/domain"
	"github.com/vncsmyrnk/notes/internal/core/ports"
	"github.com/vncsmyrnk/notes/internal/core/validation"
)

// BuildAdvancedQuery validates a multi-criteria search body. Unlike the list
// endpoint, unknown enum values are rejected rather than ignored.
func BuildAdvancedQuery(in ports.AdvancedSearchInput) (domain.ListQuery, error) {
	if err := validation.Struct(in); err != nil {
		return domain.ListQuery{}, err
	}

	for _, c := range in.Categories {
		if !domain.IsCategory(c) {
			return domain.ListQuery{}, domain.NewValidationError("categories", "Invalid category", c)
		}
	}

	types := make([]string, 0, len(in.Types))
	for _, t := range in.Types {
		t = strings.ToLower(strings.TrimSpace(t))
		if !domain.IsType(t) {
			return domain.ListQuery{}, domain.NewValidationError("types", "Invalid type", t)
		}
		types = append(types, t)
	}

	priorities := make([]string, 0, len(in.Priorities))
	for _, p := range in.Priorities {
		p = strings.ToLower(strings.TrimSpace(p))
		if !domain.IsPriority(p) {
			return domain.ListQuery{}, domain.NewValidationError("priorities", "Invalid priority", p)
		}
		priorities = append(priorities, p)
	}

	tags, err := validation.NormalizeTags(in.Tags)
	if err != nil {
		return domain.ListQuery{}, err
	}

	if in.DateFrom != nil && in.DateTo != nil && in.DateFrom.After(*in.DateTo) {
		return domain.ListQuery{}, domain.NewValidationError("dateFrom", "dateFrom must not be after dateTo")
	}

	archived := false
	if in.IsArchived != nil {
		archived = *in.IsArchived
	}

	filter := domain.NoteFilter{
		Archived:    &archived,
		Favorite:    in.IsFavorite,
		Categories:  in.Categories,
		Types:       types,
		Priorities:  priorities,
		Tags:        tags,
		Search:      strings.TrimSpace(in.Query),
		CreatedFrom: in.DateFrom,
		CreatedTo:   in.DateTo,
	}

	return domain.ListQuery{
		Filter:     filter,
		Sort:       ParseSort(in.SortBy, in.SortOrder),
		Pagination: paginate(in.Page, in.Limit),
	}, nil
}
