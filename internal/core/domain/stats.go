package domain

import "time"

// NoteStats is computed over the whole collection when requested.
type NoteStats struct {
	Total      int64            `json:"total"`
	Archived   int64            `json:"archived"`
	Active     int64            `json:"active"`
	Favorite   int64            `json:"favorite"`
	ByCategory map[string]int64 `json:"byCategory"`
}

// NoteFilter is the storage-neutral predicate produced by the query
// builder. Nil and empty fields contribute no predicate.
type NoteFilter struct {
	Archived    *bool
	Favorite    *bool
	Categories  []string
	Types       []string
	Priorities  []string
	Tags        []string
	Search      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// Sort is a single-field sort descriptor; Direction is 1 (asc) or -1 (desc).
type Sort struct {
	Field     string
	Direction int
}

type Pagination struct {
	Page  int
	Limit int
	Skip  int
}

type ListQuery struct {
	Filter     NoteFilter
	Sort       Sort
	Pagination Pagination
}

// BulkResult reports how many of the requested notes a bulk operation touched.
type BulkResult struct {
	MatchedOrModifiedCount int64 `json:"matchedOrModifiedCount"`
	RequestedCount         int   `json:"requestedCount"`
}
