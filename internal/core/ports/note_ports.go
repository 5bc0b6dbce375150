package ports

import (
	"context"
	"time"

	"github.com/vncsmyrnk/notes/internal/core/domain"
)

type NoteRepository interface {
	Create(ctx context.Context, note *domain.Note) error
	GetByID(ctx context.Context, id string) (*domain.Note, error)
	Replace(ctx context.Context, id string, input NoteInput) (*domain.Note, error)
	Delete(ctx context.Context, id string) (*domain.Note, error)
	SetArchived(ctx context.Context, id string, archived bool) (*domain.Note, error)
	ToggleFavorite(ctx context.Context, id string) (*domain.Note, error)

	List(ctx context.Context, query domain.ListQuery) ([]*domain.Note, error)
	FindAll(ctx context.Context, filter domain.NoteFilter, sort domain.Sort) ([]*domain.Note, error)
	Count(ctx context.Context, filter domain.NoteFilter) (int64, error)
	CountByCategory(ctx context.Context) (map[string]int64, error)
	DistinctCategories(ctx context.Context) ([]string, error)
	DistinctTags(ctx context.Context) ([]string, error)

	BulkSetArchived(ctx context.Context, ids []string, archived bool) (int64, error)
	BulkDelete(ctx context.Context, ids []string) (int64, error)
	BulkAddTag(ctx context.Context, ids []string, tag string) (int64, error)
	BulkRemoveTag(ctx context.Context, ids []string, tag string) (int64, error)
}

// NoteInput is a validated note payload. The boolean flags are only set
// when the caller supplied them.
type NoteInput struct {
	Title      string
	Content    string
	Category   string
	Type       string
	Tags       []string
	Priority   string
	IsArchived *bool
	IsFavorite *bool
}

type AdvancedSearchInput struct {
	Query      string     `json:"query" validate:"max=200"`
	Categories []string   `json:"categories" validate:"max=6"`
	Types      []string   `json:"types" validate:"max=18"`
	Priorities []string   `json:"priorities" validate:"max=3"`
	Tags       []string   `json:"tags" validate:"max=10,dive,max=50"`
	IsArchived *bool      `json:"isArchived"`
	IsFavorite *bool      `json:"isFavorite"`
	DateFrom   *time.Time `json:"dateFrom"`
	DateTo     *time.Time `json:"dateTo"`
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
	SortBy     string     `json:"sortBy"`
	SortOrder  string     `json:"sortOrder"`
}

type BulkInput struct {
	IDs []string `json:"ids" validate:"required,min=1,max=100"`
	Tag string   `json:"tag"`
}

type NoteList struct {
	Notes      []*domain.Note
	Total      int64
	Pagination domain.Pagination
}

type NoteService interface {
	Create(ctx context.Context, raw map[string]any) (*domain.Note, error)
	Get(ctx context.Context, id string) (*domain.Note, error)
	Update(ctx context.Context, id string, raw map[string]any) (*domain.Note, error)
	Delete(ctx context.Context, id string) (*domain.Note, error)
	Archive(ctx context.Context, id string) (*domain.Note, error)
	Unarchive(ctx context.Context, id string) (*domain.Note, error)
	ToggleFavorite(ctx context.Context, id string) (*domain.Note, error)
	Duplicate(ctx context.Context, id string) (*domain.Note, error)

	List(ctx context.Context, query domain.ListQuery) (*NoteList, error)
	Search(ctx context.Context, input AdvancedSearchInput) (*NoteList, error)
	Export(ctx context.Context, query domain.ListQuery) ([]*domain.Note, error)
	Stats(ctx context.Context) (*domain.NoteStats, error)
	Categories(ctx context.Context) ([]string, error)
	Tags(ctx context.Context) ([]string, error)

	BulkArchive(ctx context.Context, input BulkInput) (*domain.BulkResult, error)
	BulkUnarchive(ctx context.Context, input BulkInput) (*domain.BulkResult, error)
	BulkDelete(ctx context.Context, input BulkInput) (*domain.BulkResult, error)
	BulkAddTag(ctx context.Context, input BulkInput) (*domain.BulkResult, error)
	BulkRemoveTag(ctx context.Context, input BulkInput) (*domain.BulkResult, error)
}
