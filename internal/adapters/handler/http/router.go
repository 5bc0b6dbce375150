package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/vncsmyrnk/notes/internal/core/ports"
)

type RouterConfig struct {
	Notes  *NoteHandler
	Auth   *AuthHandler
	Users  *UserHandler
	Health *HealthHandler

	Tokens       ports.TokenIssuer
	LoginLimiter ports.AttemptLimiter
	Responder    *Responder

	CORSOrigins    []string
	RequestTimeout time.Duration
}

func NewHandler(cfg RouterConfig) http.Handler {
	rs := cfg.Responder

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(Recoverer(rs))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Retry-After", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	if cfg.RequestTimeout > 0 {
		r.Use(Timeout(cfg.RequestTimeout, rs))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		rs.Fail(w, http.StatusNotFound, "Route "+r.Method+" "+r.URL.Path+" not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		rs.Fail(w, http.StatusMethodNotAllowed, "Method not allowed", nil)
	})

	r.Get("/health", cfg.Health.Check)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", cfg.Health.Check)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", cfg.Auth.Register)
			r.With(RateLimit(cfg.LoginLimiter, rs)).Post("/login", cfg.Auth.Login)
			r.Post("/refresh", cfg.Auth.Refresh)

			r.Group(func(r chi.Router) {
				r.Use(Authenticate(cfg.Tokens, rs))
				r.Get("/me", cfg.Users.GetMe)
				r.Post("/logout", cfg.Auth.Logout)
				r.Post("/change-password", cfg.Auth.ChangePassword)
			})
		})

		r.Route("/notes", func(r chi.Router) {
			r.Use(OptionalAuth(cfg.Tokens))

			r.Get("/", cfg.Notes.List)
			r.Post("/", cfg.Notes.Create)

			r.Get("/stats/overview", cfg.Notes.Stats)
			r.Get("/categories/list", cfg.Notes.Categories)
			r.Get("/tags/list", cfg.Notes.Tags)
			r.Get("/export", cfg.Notes.Export)
			r.Post("/search/advanced", cfg.Notes.Search)

			r.Route("/bulk", func(r chi.Router) {
				r.Post("/archive", cfg.Notes.BulkArchive)
				r.Post("/unarchive", cfg.Notes.BulkUnarchive)
				r.Delete("/delete", cfg.Notes.BulkDelete)
				r.Post("/add-tag", cfg.Notes.BulkAddTag)
				r.Post("/remove-tag", cfg.Notes.BulkRemoveTag)
			})

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", cfg.Notes.Get)
				r.Put("/", cfg.Notes.Update)
				r.Delete("/", cfg.Notes.Delete)
				r.Patch("/archive", cfg.Notes.Archive)
				r.Patch("/unarchive", cfg.Notes.Unarchive)
				r.Patch("/favorite", cfg.Notes.ToggleFavorite)
				r.Post("/duplicate", cfg.Notes.Duplicate)
			})
		})
	})

	return r
}
