package main

import (
	"context"
	"errors"
	"fmt"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/vncsmyrnk/notes/internal/adapters/handler/http"
	"github.com/vncsmyrnk/notes/internal/adapters/hasher"
	"github.com/vncsmyrnk/notes/internal/adapters/ratelimit"
	"github.com/vncsmyrnk/notes/internal/adapters/repository/memory"
	mongorepo "github.com/vncsmyrnk/notes/internal/adapters/repository/mongo"
	"github.com/vncsmyrnk/notes/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/notes/internal/adapters/token"
	"github.com/vncsmyrnk/notes/internal/config"
	"github.com/vncsmyrnk/notes/internal/core/ports"
	"github.com/vncsmyrnk/notes/internal/core/services"
	"github.com/vncsmyrnk/notes/internal/logging"
)

const (
	shutdownTimeout = 30 * time.Second
	sweepInterval   = time.Minute
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(".env", os.Args[1:])
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log := logging.New(os.Stdout, cfg.IsProduction())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		noteRepo ports.NoteRepository
		userRepo ports.UserRepository
		ping     http.Pinger
	)
	switch cfg.Storage {
	case config.StorageMemory:
		noteRepo = memory.NewNoteRepository()
		userRepo = memory.NewUserRepository()
		log.Warn(ctx, "using in-memory storage, data is lost on restart")
	default:
		client, err := mongorepo.Connect(ctx, cfg.MongoURI)
		if err != nil {
			return err
		}
		defer disconnect(client, log)

		db := client.Database(cfg.MongoDB)
		if err := mongorepo.EnsureIndexes(ctx, db); err != nil {
			return err
		}
		noteRepo = mongorepo.NewNoteRepository(db)
		userRepo = mongorepo.NewUserRepository(db)
		ping = func(ctx context.Context) error { return mongorepo.Ping(ctx, client) }
		log.Info(ctx, "connected to mongodb", "database", cfg.MongoDB)
	}

	var limiter ports.AttemptLimiter
	switch cfg.RateLimitStore {
	case config.LimiterPostgres:
		db, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := postgres.Migrate(ctx, db); err != nil {
			return err
		}
		store := postgres.NewAttemptStore(db, cfg.LoginLimitPolicy())
		go store.Run(ctx, sweepInterval)
		limiter = store
	default:
		window := ratelimit.NewSlidingWindow(cfg.LoginLimitPolicy())
		go window.Run(ctx, sweepInterval)
		limiter = window
	}

	tokens := token.NewService(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	authService := services.NewAuthService(userRepo, tokens, hasher.NewBcrypt(cfg.BcryptCost), cfg.LockPolicy(), log)
	noteService := services.NewNoteService(noteRepo, log)
	userService := services.NewUserService(userRepo)

	rs := http.NewResponder(log, cfg.IsProduction())
	handler := http.NewHandler(http.RouterConfig{
		Notes:          http.NewNoteHandler(noteService, rs),
		Auth:           http.NewAuthHandler(authService, rs),
		Users:          http.NewUserHandler(userService, rs),
		Health:         http.NewHealthHandler(cfg.Storage, ping, rs),
		Tokens:         tokens,
		LoginLimiter:   limiter,
		Responder:      rs,
		CORSOrigins:    cfg.CORSOrigins,
		RequestTimeout: cfg.RequestTimeout,
	})

	server := &stdhttp.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info(ctx, "server listening", "addr", server.Addr, "env", cfg.Env, "storage", cfg.Storage)
	return serve(ctx, server, log)
}

// serve runs server until ctx is done or it fails to serve, then shuts it
// down. A serve failure is returned after shutdown so the process exits
// non-zero.
func serve(ctx context.Context, server *stdhttp.Server, log logging.Logger) error {
	serveErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var failed error
	select {
	case <-ctx.Done():
		log.Info(context.Background(), "gracefully shutting down")
	case err := <-serveErr:
		if err != nil {
			log.Error(context.Background(), "server failed", "error", err.Error())
			failed = fmt.Errorf("server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return errors.Join(failed, fmt.Errorf("shutdown: %w", err))
	}
	return failed
}

func disconnect(client *mongo.Client, log logging.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.Disconnect(ctx); err != nil {
		log.Error(ctx, "mongodb disconnect failed", "error", err.Error())
		return
	}
	log.Info(ctx, "mongodb connection closed")
}
