// Package memory keeps notes and users in process memory. It backs local
// development (STORAGE=memory) and the service and handler tests.
package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/vncsmyrnk/notes/internal/core/domain"
	"github.com/vncsmyrnk/notes/internal/core/ports"
)

type NoteRepository struct {
	mu    sync.RWMutex
	notes map[string]*domain.Note
	now   func() time.Time
}

func NewNoteRepository() *NoteRepository {
	return &NoteRepository{
		notes: make(map[string]*domain.Note),
		now:   time.Now,
	}
}

func (r *NoteRepository) Create(ctx context.Context, note *domain.Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now().UTC()
	note.ID = domain.NewID()
	note.CreatedAt = now
	note.UpdatedAt = now
	if note.Tags == nil {
		note.Tags = []string{}
	}

	r.notes[note.ID] = cloneNote(note)
	return nil
}

func (r *NoteRepository) GetByID(ctx context.Context, id string) (*domain.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n, ok := r.notes[id]
	if !ok {
		return nil, domain.ErrNoteNotFound
	}
	return cloneNote(n), nil
}

func (r *NoteRepository) Replace(ctx context.Context, id string, in ports.NoteInput) (*domain.Note, error) {
	return r.mutate(id, func(n *domain.Note) bool {
		n.Title = in.Title
		n.Content = in.Content
		n.Category = in.Category
		n.Type = in.Type
		n.Tags = slices.Clone(in.Tags)
		n.Priority = in.Priority
		if in.IsArchived != nil {
			n.IsArchived = *in.IsArchived
		}
		if in.IsFavorite != nil {
			n.IsFavorite = *in.IsFavorite
		}
		return true
	})
}

func (r *NoteRepository) Delete(ctx context.Context, id string) (*domain.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.notes[id]
	if !ok {
		return nil, domain.ErrNoteNotFound
	}
	delete(r.notes, id)
	return n, nil
}

func (r *NoteRepository) SetArchived(ctx context.Context, id string, archived bool) (*domain.Note, error) {
	return r.mutate(id, func(n *domain.Note) bool {
		n.IsArchived = archived
		return true
	})
}

func (r *NoteRepository) ToggleFavorite(ctx context.Context, id string) (*domain.Note, error) {
	return r.mutate(id, func(n *domain.Note) bool {
		n.IsFavorite = !n.IsFavorite
		return true
	})
}

func (r *NoteRepository) List(ctx context.Context, q domain.ListQuery) ([]*domain.Note, error) {
	all, err := r.FindAll(ctx, q.Filter, q.Sort)
	if err != nil {
		return nil, err
	}

	p := q.Pagination
	if p.Skip >= len(all) {
		return []*domain.Note{}, nil
	}
	end := len(all)
	if p.Limit > 0 {
		end = min(end, p.Skip+p.Limit)
	}
	return all[p.Skip:end], nil
}

func (r *NoteRepository) FindAll(ctx context.Context, filter domain.NoteFilter, sort domain.Sort) ([]*domain.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Note, 0, len(r.notes))
	for _, n := range r.notes {
		if Matches(n, filter) {
			out = append(out, cloneNote(n))
		}
	}

	slices.SortStableFunc(out, func(a, b *domain.Note) int {
		c := compareField(a, b, sort.Field)
		if c == 0 {
			c = strings.Compare(a.ID, b.ID)
		}
		if sort.Direction < 0 {
			return -c
		}
		return c
	})
	return out, nil
}

func (r *NoteRepository) Count(ctx context.Context, filter domain.NoteFilter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int64
	for _, note := range r.notes {
		if Matches(note, filter) {
			n++
		}
	}
	return n, nil
}

func (r *NoteRepository) CountByCategory(ctx context.Context) (map[string]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[string]int64)
	for _, n := range r.notes {
		counts[n.Category]++
	}
	return counts, nil
}

func (r *NoteRepository) DistinctCategories(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set := make(map[string]struct{})
	for _, n := range r.notes {
		set[n.Category] = struct{}{}
	}
	return sortedKeys(set), nil
}

func (r *NoteRepository) DistinctTags(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set := make(map[string]struct{})
	for _, n := range r.notes {
		for _, t := range n.Tags {
			set[t] = struct{}{}
		}
	}
	return sortedKeys(set), nil
}

func (r *NoteRepository) BulkSetArchived(ctx context.Context, ids []string, archived bool) (int64, error) {
	return r.bulk(ids, func(n *domain.Note) bool {
		if n.IsArchived == archived {
			return false
		}
		n.IsArchived = archived
		return true
	}), nil
}

func (r *NoteRepository) BulkDelete(ctx context.Context, ids []string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var deleted int64
	for _, id := range ids {
		if _, ok := r.notes[id]; ok {
			delete(r.notes, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *NoteRepository) BulkAddTag(ctx context.Context, ids []string, tag string) (int64, error) {
	return r.bulk(ids, func(n *domain.Note) bool {
		if n.HasTag(tag) || len(n.Tags) >= domain.MaxTags {
			return false
		}
		n.Tags = append(n.Tags, tag)
		return true
	}), nil
}

func (r *NoteRepository) BulkRemoveTag(ctx context.Context, ids []string, tag string) (int64, error) {
	return r.bulk(ids, func(n *domain.Note) bool {
		if !n.HasTag(tag) {
			return false
		}
		n.Tags = slices.DeleteFunc(n.Tags, func(t string) bool { return t == tag })
		return true
	}), nil
}

// mutate applies fn to a single note and stamps UpdatedAt when fn reports a
// change.
func (r *NoteRepository) mutate(id string, fn func(*domain.Note) bool) (*domain.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.notes[id]
	if !ok {
		return nil, domain.ErrNoteNotFound
	}
	if fn(n) {
		n.UpdatedAt = r.now().UTC()
	}
	return cloneNote(n), nil
}

func (r *NoteRepository) bulk(ids []string, fn func(*domain.Note) bool) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now().UTC()
	var modified int64
	for _, id := range slices.Compact(slices.Sorted(slices.Values(ids))) {
		n, ok := r.notes[id]
		if !ok {
			continue
		}
		if fn(n) {
			n.UpdatedAt = now
			modified++
		}
	}
	return modified
}

// Matches evaluates filter against a note the way the document store does:
// search is a case-insensitive substring match over title, content and tags.
func Matches(n *domain.Note, f domain.NoteFilter) bool {
	if f.Archived != nil && n.IsArchived != *f.Archived {
		return false
	}
	if f.Favorite != nil && n.IsFavorite != *f.Favorite {
		return false
	}
	if len(f.Categories) > 0 && !slices.Contains(f.Categories, n.Category) {
		return false
	}
	if len(f.Types) > 0 && !slices.Contains(f.Types, n.Type) {
		return false
	}
	if len(f.Priorities) > 0 && !slices.Contains(f.Priorities, n.Priority) {
		return false
	}
	if len(f.Tags) > 0 && !slices.ContainsFunc(f.Tags, n.HasTag) {
		return false
	}
	if f.CreatedFrom != nil && n.CreatedAt.Before(*f.CreatedFrom) {
		return false
	}
	if f.CreatedTo != nil && n.CreatedAt.After(*f.CreatedTo) {
		return false
	}
	if f.Search != "" {
		term := strings.ToLower(f.Search)
		contains := func(s string) bool { return strings.Contains(strings.ToLower(s), term) }
		if !contains(n.Title) && !contains(n.Content) && !slices.ContainsFunc(n.Tags, contains) {
			return false
		}
	}
	return true
}

func compareField(a, b *domain.Note, field string) int {
	switch field {
	case "title":
		return cmp.Compare(a.Title, b.Title)
	case "category":
		return cmp.Compare(a.Category, b.Category)
	case "type":
		return cmp.Compare(a.Type, b.Type)
	case "priority":
		return cmp.Compare(a.Priority, b.Priority)
	case "updatedAt":
		return a.UpdatedAt.Compare(b.UpdatedAt)
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}

func cloneNote(n *domain.Note) *domain.Note {
	c := *n
	c.Tags = slices.Clone(n.Tags)
	if c.Tags == nil {
		c.Tags = []string{}
	}
	return &c
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
