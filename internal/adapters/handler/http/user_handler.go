package http

import (
	"net/http"

	"github.com/vncsmyrnk/notes/internal/core/ports"
)

type UserHandler struct {
	service ports.UserService
	rs      *Responder
}

func NewUserHandler(service ports.UserService, rs *Responder) *UserHandler {
	return &UserHandler{
		service: service,
		rs:      rs,
	}
}

func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	id, ok := IdentityFrom(r.Context())
	if !ok {
		h.rs.Fail(w, http.StatusUnauthorized, msgAuthRequire, nil)
		return
	}

	user, err := h.service.GetByID(r.Context(), id.UserID)
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.OK(w, http.StatusOK, "User profile retrieved successfully", map[string]any{"user": toUserResponse(user)})
}
