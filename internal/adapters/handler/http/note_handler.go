package http

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vncsmyrnk/notes/internal/core/domain"
	"github.com/vncsmyrnk/notes/internal/core/ports"
	"github.com/vncsmyrnk/notes/internal/core/query"
)

type NoteHandler struct {
	service ports.NoteService
	rs      *Responder
}

func NewNoteHandler(service ports.NoteService, rs *Responder) *NoteHandler {
	return &NoteHandler{
		service: service,
		rs:      rs,
	}
}

func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context(), query.BuildListQuery(r.URL.Query()))
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.OK(w, http.StatusOK, "Notes retrieved successfully", toNoteListResponse(list))
}

func (h *NoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	note, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.OK(w, http.StatusOK, "Note retrieved successfully", toNoteResponse(note))
}

func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var raw map[string]any
	if err := decodeJSON(w, r, &raw); err != nil {
		h.rs.Error(w, r, err)
		return
	}

	note, err := h.service.Create(r.Context(), raw)
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.OK(w, http.StatusCreated, "Note created successfully", toNoteResponse(note))
}

func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	var raw map[string]any
	if err := decodeJSON(w, r, &raw); err != nil {
		h.rs.Error(w, r, err)
		return
	}

	note, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), raw)
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.OK(w, http.StatusOK, "Note updated successfully", toNoteResponse(note))
}

func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	note, err := h.service.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.OK(w, http.StatusOK, "Note deleted successfully", toNoteResponse(note))
}

func (h *NoteHandler) Archive(w http.ResponseWriter, r *http.Request) {
	note, err := h.service.Archive(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.OK(w, http.StatusOK, "Note archived successfully", toNoteResponse(note))
}

func (h *NoteHandler) Unarchive(w http.ResponseWriter, r *http.Request) {
	note, err := h.service.Unarchive(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.OK(w, http.StatusOK, "Note unarchived successfully", toNoteResponse(note))
}

func (h *NoteHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	note, err := h.service.ToggleFavorite(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}

	msg := "Note removed from favorites"
	if note.IsFavorite {
		msg = "Note added to favorites"
	}
	h.rs.OK(w, http.StatusOK, msg, toNoteResponse(note))
}

func (h *NoteHandler) Duplicate(w http.ResponseWriter, r *http.Request) {
	note, err := h.service.Duplicate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.OK(w, http.StatusCreated, "Note duplicated successfully", toNoteResponse(note))
}

func (h *NoteHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.OK(w, http.StatusOK, "Statistics retrieved successfully", stats)
}

func (h *NoteHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.Categories(r.Context())
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.OK(w, http.StatusOK, "Categories retrieved successfully", categories)
}

func (h *NoteHandler) Tags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.service.Tags(r.Context())
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.OK(w, http.StatusOK, "Tags retrieved successfully", tags)
}

func (h *NoteHandler) Search(w http.ResponseWriter, r *http.Request) {
	var input ports.AdvancedSearchInput
	if err := decodeJSON(w, r, &input); err != nil {
		h.rs.Error(w, r, err)
		return
	}

	list, err := h.service.Search(r.Context(), input)
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.OK(w, http.StatusOK, "Search completed successfully", toNoteListResponse(list))
}

func (h *NoteHandler) BulkArchive(w http.ResponseWriter, r *http.Request) {
	h.bulk(w, r, "archived", h.service.BulkArchive)
}

func (h *NoteHandler) BulkUnarchive(w http.ResponseWriter, r *http.Request) {
	h.bulk(w, r, "unarchived", h.service.BulkUnarchive)
}

func (h *NoteHandler) BulkDelete(w http.ResponseWriter, r *http.Request) {
	h.bulk(w, r, "deleted", h.service.BulkDelete)
}

func (h *NoteHandler) BulkAddTag(w http.ResponseWriter, r *http.Request) {
	h.bulk(w, r, "tagged", h.service.BulkAddTag)
}

func (h *NoteHandler) BulkRemoveTag(w http.ResponseWriter, r *http.Request) {
	h.bulk(w, r, "untagged", h.service.BulkRemoveTag)
}

func (h *NoteHandler) bulk(w http.ResponseWriter, r *http.Request, verb string, apply func(context.Context, ports.BulkInput) (*domain.BulkResult, error)) {
	var input ports.BulkInput
	if err := decodeJSON(w, r, &input); err != nil {
		h.rs.Error(w, r, err)
		return
	}

	result, err := apply(r.Context(), input)
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	msg := fmt.Sprintf("%d of %d notes %s", result.MatchedOrModifiedCount, result.RequestedCount, verb)
	h.rs.OK(w, http.StatusOK, msg, result)
}

var csvHeader = []string{"id", "title", "content", "category", "type", "tags", "priority", "isArchived", "isFavorite", "createdAt", "updatedAt"}

// Export writes every note matching the list filters as a JSON envelope or
// as a CSV attachment (format=csv). Pagination parameters are ignored.
func (h *NoteHandler) Export(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(r.URL.Query().Get("format"))
	if format == "" {
		format = "json"
	}
	if format != "json" && format != "csv" {
		h.rs.Error(w, r, domain.NewValidationError("format", "Format must be json or csv"))
		return
	}

	notes, err := h.service.Export(r.Context(), query.BuildListQuery(r.URL.Query()))
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}

	exportedAt := now().UTC()
	if format == "json" {
		h.rs.OK(w, http.StatusOK, "Notes exported successfully", map[string]any{
			"notes":      toNoteResponses(notes),
			"count":      len(notes),
			"exportedAt": exportedAt.Format(timestampLayout),
		})
		return
	}

	filename := fmt.Sprintf("notes-%s.csv", exportedAt.Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)

	cw := csv.NewWriter(w)
	_ = cw.Write(csvHeader)
	for _, n := range notes {
		_ = cw.Write([]string{
			n.ID,
			n.Title,
			n.Content,
			n.Category,
			n.Type,
			strings.Join(n.Tags, ";"),
			n.Priority,
			strconv.FormatBool(n.IsArchived),
			strconv.FormatBool(n.IsFavorite),
			n.CreatedAt.UTC().Format(time.RFC3339),
			n.UpdatedAt.UTC().Format(time.RFC3339),
		})
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		h.rs.log.Error(r.Context(), "csv export interrupted", "error", err.Error())
	}
}
