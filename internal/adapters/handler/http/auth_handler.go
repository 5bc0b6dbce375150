package http

import (
	"net/http"

	"github.com/vncsmyrnk/notes/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	rs          *Responder
}

func NewAuthHandler(authService ports.AuthService, rs *Responder) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		rs:          rs,
	}
}

// Register godoc
// @Summary      Creates an account
// @Description  Registers a user and returns a token pair together with the password strength label.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Success      201
// @Failure      400
// @Failure      409
// @Router       /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input ports.RegisterInput
	if err := decodeJSON(w, r, &input); err != nil {
		h.rs.Error(w, r, err)
		return
	}

	result, err := h.authService.Register(r.Context(), input)
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}

	h.rs.OK(w, http.StatusCreated, "User registered successfully", authResponse{
		User:             toUserResponse(result.User),
		Tokens:           result.Tokens,
		PasswordStrength: result.PasswordStrength,
	})
}

// Login godoc
// @Summary      Logs a user in
// @Description  Accepts a username or an email as identifier. Five failed attempts lock the account for two hours.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Success      200
// @Failure      401
// @Failure      429
// @Router       /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input ports.LoginInput
	if err := decodeJSON(w, r, &input); err != nil {
		h.rs.Error(w, r, err)
		return
	}

	result, err := h.authService.Login(r.Context(), input)
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}

	h.rs.OK(w, http.StatusOK, "Login successful", authResponse{
		User:   toUserResponse(result.User),
		Tokens: result.Tokens,
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Refresh godoc
// @Summary      Issues a new token pair
// @Description  Trades a valid refresh token for a fresh access and refresh token.
// @Tags         auth
// @Accept       json
// @Success      200
// @Failure      401
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.rs.Error(w, r, err)
		return
	}

	tokens, err := h.authService.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.OK(w, http.StatusOK, "Token refreshed successfully", map[string]any{"tokens": tokens})
}

// ChangePassword godoc
// @Summary      Changes the authenticated user's password
// @Tags         auth
// @Accept       json
// @Success      200
// @Failure      400
// @Failure      401
// @Router       /auth/change-password [post]
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	id, ok := IdentityFrom(r.Context())
	if !ok {
		h.rs.Fail(w, http.StatusUnauthorized, msgAuthRequire, nil)
		return
	}

	var input ports.ChangePasswordInput
	if err := decodeJSON(w, r, &input); err != nil {
		h.rs.Error(w, r, err)
		return
	}

	if err := h.authService.ChangePassword(r.Context(), id.UserID, input); err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.OK(w, http.StatusOK, "Password changed successfully", nil)
}

// Logout godoc
// @Summary      Logs the authenticated user out
// @Description  Tokens are stateless; clients drop them. The event is only recorded.
// @Tags         auth
// @Success      200
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	id, ok := IdentityFrom(r.Context())
	if !ok {
		h.rs.Fail(w, http.StatusUnauthorized, msgAuthRequire, nil)
		return
	}

	if err := h.authService.Logout(r.Context(), id.UserID); err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.OK(w, http.StatusOK, "Logout successful", nil)
}
