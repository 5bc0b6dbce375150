package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/vncsmyrnk/notes/internal/core/domain"
	"github.com/vncsmyrnk/notes/internal/core/ports"
)

const maxBodyBytes = 1 << 20

type noteResponse struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Category   string    `json:"category"`
	Type       string    `json:"type"`
	Tags       []string  `json:"tags"`
	Priority   string    `json:"priority"`
	IsArchived bool      `json:"isArchived"`
	IsFavorite bool      `json:"isFavorite"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func toNoteResponse(n *domain.Note) noteResponse {
	tags := n.Tags
	if tags == nil {
		tags = []string{}
	}
	return noteResponse{
		ID:         n.ID,
		Title:      n.Title,
		Content:    n.Content,
		Category:   n.Category,
		Type:       n.Type,
		Tags:       tags,
		Priority:   n.Priority,
		IsArchived: n.IsArchived,
		IsFavorite: n.IsFavorite,
		CreatedAt:  n.CreatedAt,
		UpdatedAt:  n.UpdatedAt,
	}
}

func toNoteResponses(notes []*domain.Note) []noteResponse {
	out := make([]noteResponse, 0, len(notes))
	for _, n := range notes {
		out = append(out, toNoteResponse(n))
	}
	return out
}

type paginationResponse struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

type noteListResponse struct {
	Notes      []noteResponse     `json:"notes"`
	Pagination paginationResponse `json:"pagination"`
}

func toNoteListResponse(list *ports.NoteList) noteListResponse {
	limit := int64(list.Pagination.Limit)
	var pages int64
	if limit > 0 {
		pages = (list.Total + limit - 1) / limit
	}
	return noteListResponse{
		Notes: toNoteResponses(list.Notes),
		Pagination: paginationResponse{
			Page:  list.Pagination.Page,
			Limit: list.Pagination.Limit,
			Total: list.Total,
			Pages: pages,
		},
	}
}

// userResponse never carries the password hash or lock bookkeeping.
type userResponse struct {
	ID        string     `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	IsActive  bool       `json:"isActive"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		IsActive:  u.IsActive,
		LastLogin: u.LastLogin,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

type authResponse struct {
	User             userResponse      `json:"user"`
	Tokens           *domain.TokenPair `json:"tokens"`
	PasswordStrength string            `json:"passwordStrength,omitempty"`
}

// decodeJSON reads a single JSON value from a size-capped body. Decoding
// failures become validation errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	err := json.NewDecoder(r.Body).Decode(dst)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, io.EOF):
		return domain.NewValidationError("body", "Request body is required")
	default:
		return domain.NewValidationError("body", "Invalid JSON body")
	}
}
