package http

import (
	"context"
	"errors"
	"math"
	"net"
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/vncsmyrnk/notes/internal/core/domain"
	"github.com/vncsmyrnk/notes/internal/core/ports"
)

type contextKey string

const identityKey contextKey = "identity"

const (
	msgNoToken     = "Access denied. No token provided."
	msgAuthRequire = "Authentication required"
)

// IdentityFrom returns the caller attached by Authenticate or OptionalAuth.
func IdentityFrom(ctx context.Context) (*domain.Identity, bool) {
	id, ok := ctx.Value(identityKey).(*domain.Identity)
	return id, ok && id != nil
}

func WithIdentity(ctx context.Context, id *domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// Authenticate rejects requests without a valid access token.
func Authenticate(tokens ports.TokenIssuer, rs *Responder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				rs.Fail(w, http.StatusUnauthorized, msgNoToken, nil)
				return
			}

			id, err := tokens.VerifyAccess(raw)
			if err != nil {
				rs.Fail(w, http.StatusUnauthorized, err.Error(), nil)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// OptionalAuth attaches the caller when a valid token is present and lets
// everything else through anonymously.
func OptionalAuth(tokens ports.TokenIssuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if raw := bearerToken(r); raw != "" {
				if id, err := tokens.VerifyAccess(raw); err == nil {
					r = r.WithContext(WithIdentity(r.Context(), id))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	raw, ok := strings.CutPrefix(h, "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(raw)
}

// RateLimit keys failed attempts by client IP. Only responses that end in
// 401 count against the client. A limiter failure lets the request
// through; the account lock still applies behind it.
func RateLimit(limiter ports.AttemptLimiter, rs *Responder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientIP(r)
			decision, err := limiter.Check(r.Context(), key)
			if err != nil {
				rs.log.Warn(r.Context(), "rate limiter unavailable", "error", err.Error())
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
			if !decision.Allowed {
				secs := int(math.Ceil(decision.RetryAfter.Seconds()))
				w.Header().Set("Retry-After", strconv.Itoa(max(secs, 1)))
				rs.Error(w, r, domain.ErrRateLimited)
				return
			}

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			if ww.Status() == http.StatusUnauthorized {
				if err := limiter.RecordFailure(context.WithoutCancel(r.Context()), key); err != nil {
					rs.log.Warn(r.Context(), "failed to record login failure", "error", err.Error())
				}
			}
		})
	}
}

// clientIP expects middleware.RealIP to have run first.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// Timeout bounds the request context. A handler that gave up because of the
// deadline and wrote nothing gets a 503 envelope.
func Timeout(d time.Duration, rs *Responder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			if errors.Is(ctx.Err(), context.DeadlineExceeded) && ww.Status() == 0 {
				rs.Fail(w, http.StatusServiceUnavailable, msgUnavailable, nil)
			}
		})
	}
}

// Recoverer turns panics into a logged 500 envelope.
func Recoverer(rs *Responder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				rs.log.Error(r.Context(), "panic recovered",
					"panic", rec,
					"request_id", middleware.GetReqID(r.Context()),
					"stack", string(debug.Stack()),
				)
				rs.Fail(w, http.StatusInternalServerError, msgInternal, nil)
			}()
			next.ServeHTTP(w, r)
		})
	}
}
