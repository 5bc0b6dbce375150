package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/vncsmyrnk/notes/internal/core/domain"
	"github.com/vncsmyrnk/notes/internal/logging"
)

const (
	msgInternal    = "Internal server error"
	msgUnavailable = "Service temporarily unavailable"
)

// Responder writes envelopes and owns the error-to-status mapping.
type Responder struct {
	log        logging.Logger
	production bool
}

func NewResponder(log logging.Logger, production bool) *Responder {
	return &Responder{log: log, production: production}
}

func (rs *Responder) OK(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, Success(data, message, status))
}

func (rs *Responder) Fail(w http.ResponseWriter, status int, message string, details any) {
	writeJSON(w, status, Error(message, status, details, rs.production))
}

// Error maps err onto the taxonomy. Anything unrecognised is logged with
// request context and rendered as a 500.
func (rs *Responder) Error(w http.ResponseWriter, r *http.Request, err error) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		// the itemised rules are part of the message so they survive
		// production mode, where details are hidden
		rs.Fail(w, http.StatusBadRequest, ve.Error(), validationDetails(ve))
		return
	}

	status, message := classify(err)
	if status != http.StatusInternalServerError {
		rs.Fail(w, status, message, nil)
		return
	}

	rs.log.Error(r.Context(), "unhandled error",
		"error", err.Error(),
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", middleware.GetReqID(r.Context()),
	)
	if rs.production {
		rs.Fail(w, status, msgInternal, nil)
		return
	}
	rs.Fail(w, status, err.Error(), nil)
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidID):
		return http.StatusBadRequest, "Invalid ID format"
	case errors.Is(err, domain.ErrNoteNotFound):
		return http.StatusNotFound, "Note not found"
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "User not found"
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrAccountLocked),
		errors.Is(err, domain.ErrAccountInactive):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, domain.ErrEmailTaken), errors.Is(err, domain.ErrUsernameTaken):
		return http.StatusConflict, err.Error()
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests, err.Error()
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, msgUnavailable
	default:
		return http.StatusInternalServerError, msgInternal
	}
}

func validationDetails(ve *domain.ValidationError) map[string]any {
	d := map[string]any{"field": ve.Field}
	if len(ve.Details) > 0 {
		d["errors"] = ve.Details
	}
	return d
}
