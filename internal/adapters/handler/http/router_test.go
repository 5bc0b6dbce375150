package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	handler "github.com/vncsmyrnk/notes/internal/adapters/handler/http"
	"github.com/vncsmyrnk/notes/internal/adapters/hasher"
	"github.com/vncsmyrnk/notes/internal/adapters/ratelimit"
	"github.com/vncsmyrnk/notes/internal/adapters/repository/memory"
	"github.com/vncsmyrnk/notes/internal/adapters/token"
	"github.com/vncsmyrnk/notes/internal/config"
	"github.com/vncsmyrnk/notes/internal/core/domain"
	"github.com/vncsmyrnk/notes/internal/core/query"
	"github.com/vncsmyrnk/notes/internal/core/services"
	"github.com/vncsmyrnk/notes/internal/logging"
)

type envelope struct {
	Success    bool            `json:"success"`
	Message    string          `json:"message"`
	Error      string          `json:"error"`
	StatusCode int             `json:"statusCode"`
	Data       json.RawMessage `json:"data"`
	Details    json.RawMessage `json:"details"`
	Timestamp  string          `json:"timestamp"`
}

type apiNote struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Category   string   `json:"category"`
	Type       string   `json:"type"`
	Tags       []string `json:"tags"`
	Priority   string   `json:"priority"`
	IsArchived bool     `json:"isArchived"`
	IsFavorite bool     `json:"isFavorite"`
}

type apiList struct {
	Notes      []apiNote `json:"notes"`
	Pagination struct {
		Page  int   `json:"page"`
		Limit int   `json:"limit"`
		Total int64 `json:"total"`
		Pages int64 `json:"pages"`
	} `json:"pagination"`
}

type apiAuth struct {
	User struct {
		ID       string `json:"id"`
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	} `json:"user"`
	Tokens           domain.TokenPair `json:"tokens"`
	PasswordStrength string           `json:"passwordStrength"`
}

type testAPI struct {
	h     http.Handler
	users *memory.UserRepository
}

func newTestAPI(t *testing.T, loginLimit int) *testAPI {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.LoginRateLimit = loginLimit
	return newTestAPIFromConfig(t, cfg)
}

// newTestAPIFromConfig wires the limiter and lock policies from cfg over
// in-memory storage.
func newTestAPIFromConfig(t *testing.T, cfg *config.Config) *testAPI {
	t.Helper()

	log := logging.Nop()
	rs := handler.NewResponder(log, false)

	notes := memory.NewNoteRepository()
	users := memory.NewUserRepository()
	tokens := token.NewService("test-secret", 15*time.Minute, 24*time.Hour)
	auth := services.NewAuthService(users, tokens, hasher.NewBcrypt(bcrypt.MinCost), cfg.LockPolicy(), log)

	h := handler.NewHandler(handler.RouterConfig{
		Notes:          handler.NewNoteHandler(services.NewNoteService(notes, log), rs),
		Auth:           handler.NewAuthHandler(auth, rs),
		Users:          handler.NewUserHandler(services.NewUserService(users), rs),
		Health:         handler.NewHealthHandler("memory", nil, rs),
		Tokens:         tokens,
		LoginLimiter:   ratelimit.NewSlidingWindow(cfg.LoginLimitPolicy()),
		Responder:      rs,
		CORSOrigins:    []string{"http://localhost:3000"},
		RequestTimeout: 5 * time.Second,
	})
	return &testAPI{h: h, users: users}
}

func (a *testAPI) do(t *testing.T, method, path string, body any, accessToken string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	rec := httptest.NewRecorder()
	a.h.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func (a *testAPI) createNote(t *testing.T, body map[string]any) apiNote {
	t.Helper()
	rec, env := a.do(t, http.MethodPost, "/api/notes", body, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var n apiNote
	require.NoError(t, json.Unmarshal(env.Data, &n))
	return n
}

func (a *testAPI) register(t *testing.T, username, email, password string) apiAuth {
	t.Helper()
	rec, env := a.do(t, http.MethodPost, "/api/auth/register", map[string]any{
		"username":  username,
		"email":     email,
		"password":  password,
		"firstName": "John",
		"lastName":  "Doe",
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var res apiAuth
	require.NoError(t, json.Unmarshal(env.Data, &res))
	return res
}

func sermon(title string) map[string]any {
	return map[string]any{"title": title, "content": "Grace and peace", "category": "Sermons", "type": "sermon"}
}

func TestNotes_Lifecycle(t *testing.T) {
	api := newTestAPI(t, 100)

	created := api.createNote(t, map[string]any{
		"title":    "Sunday <b>sermon</b>",
		"content":  "Romans 8",
		"category": "Sermons",
		"type":     "Outline",
		"tags":     "Grace, hope, grace",
		"priority": "HIGH",
	})
	assert.True(t, domain.ValidID(created.ID))
	assert.Equal(t, "outline", created.Type)
	assert.Equal(t, []string{"grace", "hope"}, created.Tags)
	assert.Equal(t, "high", created.Priority)

	rec, env := api.do(t, http.MethodGet, "/api/notes/"+created.ID, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
	assert.NotEmpty(t, env.Timestamp)

	rec, env = api.do(t, http.MethodPut, "/api/notes/"+created.ID, map[string]any{
		"title": "Renamed", "content": "Romans 9", "category": "Prayer", "type": "praise",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated apiNote
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, "Prayer", updated.Category)
	assert.Equal(t, "medium", updated.Priority)
	assert.Empty(t, updated.Tags)

	rec, env = api.do(t, http.MethodPatch, "/api/notes/"+created.ID+"/favorite", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Note added to favorites", env.Message)

	rec, _ = api.do(t, http.MethodPatch, "/api/notes/"+created.ID+"/archive", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env = api.do(t, http.MethodPost, "/api/notes/"+created.ID+"/duplicate", nil, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	var dup apiNote
	require.NoError(t, json.Unmarshal(env.Data, &dup))
	assert.NotEqual(t, created.ID, dup.ID)
	assert.Equal(t, "Renamed (Copy)", dup.Title)
	assert.True(t, dup.IsArchived)
	assert.True(t, dup.IsFavorite)

	rec, _ = api.do(t, http.MethodDelete, "/api/notes/"+created.ID, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env = api.do(t, http.MethodGet, "/api/notes/"+created.ID, nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "Note not found", env.Error)
	assert.Equal(t, http.StatusNotFound, env.StatusCode)
}

func TestNotes_Errors(t *testing.T) {
	api := newTestAPI(t, 100)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
	}{
		{"malformed id", http.MethodGet, "/api/notes/not-an-id", nil, http.StatusBadRequest},
		{"unknown id", http.MethodGet, "/api/notes/" + domain.NewID(), nil, http.StatusNotFound},
		{"missing title", http.MethodPost, "/api/notes", map[string]any{"content": "x", "category": "General", "type": "idea"}, http.StatusBadRequest},
		{"type outside category", http.MethodPost, "/api/notes", map[string]any{"title": "t", "content": "x", "category": "General", "type": "sermon"}, http.StatusBadRequest},
		{"invalid json", http.MethodPost, "/api/notes", `{"title":`, http.StatusBadRequest},
		{"empty body", http.MethodPost, "/api/notes", nil, http.StatusBadRequest},
		{"unknown route", http.MethodGet, "/api/nothing", nil, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := api.do(t, tt.method, tt.path, tt.body, "")
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.False(t, env.Success)
			assert.Equal(t, tt.status, env.StatusCode)
			assert.NotEmpty(t, env.Error)
		})
	}
}

func TestNotes_ListFilterSortAndPaginate(t *testing.T) {
	api := newTestAPI(t, 100)

	for _, title := range []string{"Charlie", "alpha", "Bravo"} {
		api.createNote(t, sermon(title))
	}
	api.createNote(t, map[string]any{"title": "Errands", "content": "milk", "category": "General", "type": "reminder"})

	rec, env := api.do(t, http.MethodGet, "/api/notes?category=Sermons&sortBy=title&sortOrder=asc", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list apiList
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list.Notes, 3)
	assert.Equal(t, "Bravo", list.Notes[0].Title)
	assert.Equal(t, "Charlie", list.Notes[1].Title)
	assert.Equal(t, "alpha", list.Notes[2].Title)

	_, env = api.do(t, http.MethodGet, "/api/notes?sortBy=bogus&limit=2&page=2", nil, "")
	list = apiList{}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list.Notes, 2)
	assert.Equal(t, 2, list.Pagination.Page)
	assert.EqualValues(t, 4, list.Pagination.Total)
	assert.EqualValues(t, 2, list.Pagination.Pages)

	_, env = api.do(t, http.MethodGet, "/api/notes?search=MILK", nil, "")
	list = apiList{}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list.Notes, 1)
	assert.Equal(t, "Errands", list.Notes[0].Title)
}

func TestNotes_ListHugePage(t *testing.T) {
	api := newTestAPI(t, 100)
	api.createNote(t, sermon("Only"))

	rec, env := api.do(t, http.MethodGet, "/api/notes?page=9223372036854775807&limit=2", nil, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var list apiList
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Empty(t, list.Notes)
	assert.Equal(t, query.MaxPage, list.Pagination.Page)
	assert.EqualValues(t, 1, list.Pagination.Total)
}

func TestNotes_StatsAndDistinct(t *testing.T) {
	api := newTestAPI(t, 100)

	a := api.createNote(t, sermon("a"))
	api.createNote(t, map[string]any{"title": "b", "content": "x", "category": "Prayer", "type": "request", "tags": []string{"family"}})
	api.do(t, http.MethodPatch, "/api/notes/"+a.ID+"/archive", nil, "")

	rec, env := api.do(t, http.MethodGet, "/api/notes/stats/overview", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var stats domain.NoteStats
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.EqualValues(t, 2, stats.Total)
	assert.EqualValues(t, 1, stats.Archived)
	assert.EqualValues(t, 1, stats.Active)
	assert.Equal(t, map[string]int64{"Sermons": 1, "Prayer": 1}, stats.ByCategory)

	_, env = api.do(t, http.MethodGet, "/api/notes/categories/list", nil, "")
	var categories []string
	require.NoError(t, json.Unmarshal(env.Data, &categories))
	assert.ElementsMatch(t, []string{"Sermons", "Prayer"}, categories)

	_, env = api.do(t, http.MethodGet, "/api/notes/tags/list", nil, "")
	var tags []string
	require.NoError(t, json.Unmarshal(env.Data, &tags))
	assert.Equal(t, []string{"family"}, tags)
}

func TestNotes_BulkAndSearch(t *testing.T) {
	api := newTestAPI(t, 100)

	a := api.createNote(t, sermon("a"))
	b := api.createNote(t, sermon("b"))

	rec, env := api.do(t, http.MethodPost, "/api/notes/bulk/add-tag", map[string]any{"ids": []string{a.ID, b.ID}, "tag": "Easter"}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var res domain.BulkResult
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.EqualValues(t, 2, res.MatchedOrModifiedCount)
	assert.Equal(t, 2, res.RequestedCount)

	rec, _ = api.do(t, http.MethodPost, "/api/notes/bulk/archive", map[string]any{"ids": []string{a.ID, "bogus"}}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = api.do(t, http.MethodPost, "/api/notes/bulk/archive", map[string]any{"ids": []string{a.ID}}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env = api.do(t, http.MethodPost, "/api/notes/search/advanced", map[string]any{"tags": []string{"easter"}}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var list apiList
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list.Notes, 1)
	assert.Equal(t, b.ID, list.Notes[0].ID)

	rec, env = api.do(t, http.MethodDelete, "/api/notes/bulk/delete", map[string]any{"ids": []string{a.ID, b.ID}}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	res = domain.BulkResult{}
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.EqualValues(t, 2, res.MatchedOrModifiedCount)
}

func TestNotes_Export(t *testing.T) {
	api := newTestAPI(t, 100)
	api.createNote(t, map[string]any{"title": "Quote, \"with\" comma", "content": "line1\nline2", "category": "General", "type": "idea", "tags": "a,b"})
	api.createNote(t, sermon("second"))

	rec, _ := api.do(t, http.MethodGet, "/api/notes/export?format=csv&limit=1", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
	body := rec.Body.String()
	assert.True(t, strings.HasPrefix(body, "id,title,content,category"))
	assert.Contains(t, body, "a;b")
	assert.Contains(t, body, "second")

	rec, env := api.do(t, http.MethodGet, "/api/notes/export", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var exported struct {
		Notes []apiNote `json:"notes"`
		Count int       `json:"count"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &exported))
	assert.Equal(t, 2, exported.Count)

	rec, _ = api.do(t, http.MethodGet, "/api/notes/export?format=xml", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuth_Flow(t *testing.T) {
	api := newTestAPI(t, 100)

	reg := api.register(t, "john_doe", "John@Example.com", "Str0ng!Pass")
	assert.Equal(t, "john@example.com", reg.User.Email)
	assert.Empty(t, reg.User.Password)
	assert.NotEmpty(t, reg.Tokens.AccessToken)
	assert.NotEmpty(t, reg.Tokens.RefreshToken)
	assert.EqualValues(t, 900, reg.Tokens.ExpiresIn)
	assert.NotEmpty(t, reg.PasswordStrength)

	rec, env := api.do(t, http.MethodGet, "/api/auth/me", nil, reg.Tokens.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)
	var me struct {
		User struct {
			Username string `json:"username"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.Equal(t, "john_doe", me.User.Username)

	rec, env = api.do(t, http.MethodPost, "/api/auth/refresh", map[string]string{"refreshToken": reg.Tokens.RefreshToken}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Token refreshed successfully", env.Message)

	rec, _ = api.do(t, http.MethodPost, "/api/auth/refresh", map[string]string{"refreshToken": reg.Tokens.AccessToken}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = api.do(t, http.MethodPost, "/api/auth/change-password", map[string]string{
		"currentPassword": "Str0ng!Pass", "newPassword": "N3w!Password",
	}, reg.Tokens.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, _ = api.do(t, http.MethodPost, "/api/auth/login", map[string]string{"identifier": "john_doe", "password": "Str0ng!Pass"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, env = api.do(t, http.MethodPost, "/api/auth/login", map[string]string{"identifier": "JOHN@example.com", "password": "N3w!Password"}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Login successful", env.Message)

	rec, _ = api.do(t, http.MethodPost, "/api/auth/logout", nil, reg.Tokens.AccessToken)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuth_Guards(t *testing.T) {
	api := newTestAPI(t, 100)

	rec, env := api.do(t, http.MethodGet, "/api/auth/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Access denied. No token provided.", env.Error)

	rec, env = api.do(t, http.MethodGet, "/api/auth/me", nil, "garbage")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, domain.ErrInvalidToken.Error(), env.Error)
	assert.Empty(t, env.Details)

	// the scheme is case-sensitive
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "bearer "+api.register(t, "john_doe", "john@example.com", "Str0ng!Pass").Tokens.AccessToken)
	rec = httptest.NewRecorder()
	api.h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// note routes accept anonymous callers and ignore bad tokens
	rec, _ = api.do(t, http.MethodGet, "/api/notes", nil, "garbage")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuth_RegisterConflictsAndWeakPassword(t *testing.T) {
	api := newTestAPI(t, 100)
	api.register(t, "john_doe", "john@example.com", "Str0ng!Pass")

	rec, env := api.do(t, http.MethodPost, "/api/auth/register", map[string]any{
		"username": "other", "email": "JOHN@example.com", "password": "Str0ng!Pass", "firstName": "J", "lastName": "D",
	}, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, domain.ErrEmailTaken.Error(), env.Error)

	rec, env = api.do(t, http.MethodPost, "/api/auth/register", map[string]any{
		"username": "jane", "email": "jane@example.com", "password": "weak", "firstName": "J", "lastName": "D",
	}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, env.Error, "uppercase")
	assert.NotEmpty(t, env.Details)

	// bcrypt cannot hash past 72 bytes, so longer passwords are a client error
	long := "Str0ng!Pass" + strings.Repeat("x", 69)
	rec, env = api.do(t, http.MethodPost, "/api/auth/register", map[string]any{
		"username": "jane", "email": "jane@example.com", "password": long, "firstName": "J", "lastName": "D",
	}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	assert.Contains(t, env.Error, "72 bytes")

	reg := api.register(t, "jane", "jane@example.com", "Str0ng!Pass")
	rec, env = api.do(t, http.MethodPost, "/api/auth/change-password", map[string]any{
		"currentPassword": "Str0ng!Pass", "newPassword": long,
	}, reg.Tokens.AccessToken)
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	assert.Contains(t, env.Error, "72 bytes")
}

func TestAuth_AccountLocksAfterFailures(t *testing.T) {
	api := newTestAPI(t, 100)
	api.register(t, "john_doe", "john@example.com", "Str0ng!Pass")

	for range 5 {
		rec, env := api.do(t, http.MethodPost, "/api/auth/login", map[string]string{"identifier": "john_doe", "password": "wrong"}, "")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, domain.ErrInvalidCredentials.Error(), env.Error)
	}

	rec, env := api.do(t, http.MethodPost, "/api/auth/login", map[string]string{"identifier": "john_doe", "password": "Str0ng!Pass"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, domain.ErrAccountLocked.Error(), env.Error)
}

func TestAuth_LoginRateLimit(t *testing.T) {
	api := newTestAPI(t, 2)

	// reaching the limit is allowed, exceeding it is not
	for range 3 {
		rec, _ := api.do(t, http.MethodPost, "/api/auth/login", map[string]string{"identifier": "nobody", "password": "x"}, "")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	}

	rec, env := api.do(t, http.MethodPost, "/api/auth/login", map[string]string{"identifier": "nobody", "password": "x"}, "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, domain.ErrRateLimited.Error(), env.Error)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	// registration is not limited
	api.register(t, "john_doe", "john@example.com", "Str0ng!Pass")
}

func TestAuth_SuccessfulLoginsDoNotConsumeLimit(t *testing.T) {
	api := newTestAPI(t, 2)
	api.register(t, "john_doe", "john@example.com", "Str0ng!Pass")

	for range 5 {
		rec, _ := api.do(t, http.MethodPost, "/api/auth/login", map[string]string{"identifier": "john_doe", "password": "Str0ng!Pass"}, "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}
}

func TestAuth_DefaultPoliciesLockBeforeRateLimit(t *testing.T) {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	api := newTestAPIFromConfig(t, cfg)
	api.register(t, "john_doe", "john@example.com", "Str0ng!Pass")

	login := func(password string) (*httptest.ResponseRecorder, envelope) {
		return api.do(t, http.MethodPost, "/api/auth/login", map[string]string{"identifier": "john_doe", "password": password}, "")
	}

	for range cfg.LockMaxAttempts {
		rec, env := login("wrong")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, domain.ErrInvalidCredentials.Error(), env.Error)
	}

	rec, env := login("Str0ng!Pass")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, domain.ErrAccountLocked.Error(), env.Error)

	rec, env = login("Str0ng!Pass")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, domain.ErrRateLimited.Error(), env.Error)
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t, 100)

	rec, env := api.do(t, http.MethodGet, "/health", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Status  string            `json:"status"`
		Storage map[string]string `json:"storage"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &body))
	assert.Equal(t, "OK", body.Status)
	assert.Equal(t, "memory", body.Storage["type"])
	assert.Equal(t, "connected", body.Storage["state"])
}
