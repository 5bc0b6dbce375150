package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/vncsmyrnk/notes/internal/core/domain"
	"github.com/vncsmyrnk/notes/internal/core/ports"
	"github.com/vncsmyrnk/notes/internal/core/query"
	"github.com/vncsmyrnk/notes/internal/core/validation"
	"github.com/vncsmyrnk/notes/internal/logging"
)

type noteService struct {
	repo ports.NoteRepository
	log  logging.Logger
}

func NewNoteService(repo ports.NoteRepository, log logging.Logger) ports.NoteService {
	return &noteService{
		repo: repo,
		log:  log,
	}
}

func (s *noteService) Create(ctx context.Context, raw map[string]any) (*domain.Note, error) {
	input, err := validation.SanitizeNote(raw)
	if err != nil {
		return nil, err
	}

	note := &domain.Note{
		Title:    input.Title,
		Content:  input.Content,
		Category: input.Category,
		Type:     input.Type,
		Tags:     input.Tags,
		Priority: input.Priority,
	}
	if input.IsArchived != nil {
		note.IsArchived = *input.IsArchived
	}
	if input.IsFavorite != nil {
		note.IsFavorite = *input.IsFavorite
	}

	if err := s.repo.Create(ctx, note); err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}

	s.log.Info(ctx, "note created", "id", note.ID, "category", note.Category)
	return note, nil
}

func (s *noteService) Get(ctx context.Context, id string) (*domain.Note, error) {
	if !domain.ValidID(id) {
		return nil, domain.ErrInvalidID
	}
	return s.repo.GetByID(ctx, id)
}

func (s *noteService) Update(ctx context.Context, id string, raw map[string]any) (*domain.Note, error) {
	if !domain.ValidID(id) {
		return nil, domain.ErrInvalidID
	}

	input, err := validation.SanitizeNote(raw)
	if err != nil {
		return nil, err
	}

	return s.repo.Replace(ctx, id, input)
}

func (s *noteService) Delete(ctx context.Context, id string) (*domain.Note, error) {
	if !domain.ValidID(id) {
		return nil, domain.ErrInvalidID
	}

	note, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "note deleted", "id", id)
	return note, nil
}

func (s *noteService) Archive(ctx context.Context, id string) (*domain.Note, error) {
	return s.setArchived(ctx, id, true)
}

func (s *noteService) Unarchive(ctx context.Context, id string) (*domain.Note, error) {
	return s.setArchived(ctx, id, false)
}

func (s *noteService) setArchived(ctx context.Context, id string, archived bool) (*domain.Note, error) {
	if !domain.ValidID(id) {
		return nil, domain.ErrInvalidID
	}
	return s.repo.SetArchived(ctx, id, archived)
}

func (s *noteService) ToggleFavorite(ctx context.Context, id string) (*domain.Note, error) {
	if !domain.ValidID(id) {
		return nil, domain.ErrInvalidID
	}
	return s.repo.ToggleFavorite(ctx, id)
}

func (s *noteService) Duplicate(ctx context.Context, id string) (*domain.Note, error) {
	source, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	dup := source.Duplicate()
	if err := s.repo.Create(ctx, dup); err != nil {
		return nil, fmt.Errorf("failed to duplicate note %s: %w", id, err)
	}

	s.log.Info(ctx, "note duplicated", "source", id, "id", dup.ID)
	return dup, nil
}

func (s *noteService) List(ctx context.Context, q domain.ListQuery) (*ports.NoteList, error) {
	notes, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}

	total, err := s.repo.Count(ctx, q.Filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count notes: %w", err)
	}

	return &ports.NoteList{Notes: notes, Total: total, Pagination: q.Pagination}, nil
}

func (s *noteService) Search(ctx context.Context, input ports.AdvancedSearchInput) (*ports.NoteList, error) {
	q, err := query.BuildAdvancedQuery(input)
	if err != nil {
		return nil, err
	}
	return s.List(ctx, q)
}

// Export returns every note matching the list filters, ignoring pagination.
func (s *noteService) Export(ctx context.Context, q domain.ListQuery) ([]*domain.Note, error) {
	notes, err := s.repo.FindAll(ctx, q.Filter, q.Sort)
	if err != nil {
		return nil, fmt.Errorf("failed to export notes: %w", err)
	}
	return notes, nil
}

// Stats runs the independent counts concurrently and fails if any of them
// does.
func (s *noteService) Stats(ctx context.Context) (*domain.NoteStats, error) {
	archived, favorite := true, true
	stats := &domain.NoteStats{}

	counts := []struct {
		name   string
		filter domain.NoteFilter
		dst    *int64
	}{
		{"total", domain.NoteFilter{}, &stats.Total},
		{"archived", domain.NoteFilter{Archived: &archived}, &stats.Archived},
		{"favorite", domain.NoteFilter{Favorite: &favorite}, &stats.Favorite},
	}

	var wg sync.WaitGroup
	errChan := make(chan error, len(counts)+1)

	for _, c := range counts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := s.repo.Count(ctx, c.filter)
			if err != nil {
				errChan <- fmt.Errorf("failed to count %s notes: %w", c.name, err)
				return
			}
			*c.dst = n
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		byCategory, err := s.repo.CountByCategory(ctx)
		if err != nil {
			errChan <- fmt.Errorf("failed to count notes by category: %w", err)
			return
		}
		stats.ByCategory = byCategory
	}()

	wg.Wait()
	close(errChan)

	for err := range errChan {
		if err != nil {
			return nil, err
		}
	}

	stats.Active = stats.Total - stats.Archived
	return stats, nil
}

func (s *noteService) Categories(ctx context.Context) ([]string, error) {
	return s.repo.DistinctCategories(ctx)
}

func (s *noteService) Tags(ctx context.Context) ([]string, error) {
	return s.repo.DistinctTags(ctx)
}

func (s *noteService) BulkArchive(ctx context.Context, input ports.BulkInput) (*domain.BulkResult, error) {
	return s.bulk(ctx, "archive", input, false, func(ids []string, _ string) (int64, error) {
		return s.repo.BulkSetArchived(ctx, ids, true)
	})
}

func (s *noteService) BulkUnarchive(ctx context.Context, input ports.BulkInput) (*domain.BulkResult, error) {
	return s.bulk(ctx, "unarchive", input, false, func(ids []string, _ string) (int64, error) {
		return s.repo.BulkSetArchived(ctx, ids, false)
	})
}

func (s *noteService) BulkDelete(ctx context.Context, input ports.BulkInput) (*domain.BulkResult, error) {
	return s.bulk(ctx, "delete", input, false, func(ids []string, _ string) (int64, error) {
		return s.repo.BulkDelete(ctx, ids)
	})
}

func (s *noteService) BulkAddTag(ctx context.Context, input ports.BulkInput) (*domain.BulkResult, error) {
	return s.bulk(ctx, "add-tag", input, true, func(ids []string, tag string) (int64, error) {
		return s.repo.BulkAddTag(ctx, ids, tag)
	})
}

func (s *noteService) BulkRemoveTag(ctx context.Context, input ports.BulkInput) (*domain.BulkResult, error) {
	return s.bulk(ctx, "remove-tag", input, true, func(ids []string, tag string) (int64, error) {
		return s.repo.BulkRemoveTag(ctx, ids, tag)
	})
}

// bulk validates the whole batch before touching storage. Storage is not
// transactional: on failure some notes may already have been modified.
func (s *noteService) bulk(ctx context.Context, op string, input ports.BulkInput, withTag bool, apply func([]string, string) (int64, error)) (*domain.BulkResult, error) {
	input, err := validation.ValidateBulk(input, withTag)
	if err != nil {
		return nil, err
	}

	n, err := apply(input.IDs, input.Tag)
	if err != nil {
		return nil, fmt.Errorf("bulk %s failed: %w", op, err)
	}

	s.log.Info(ctx, "bulk operation", "op", op, "requested", len(input.IDs), "affected", n)
	return &domain.BulkResult{MatchedOrModifiedCount: n, RequestedCount: len(input.IDs)}, nil
}
