package integration

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"golang.org/x/crypto/bcrypt"

	handler "github.com/vncsmyrnk/notes/internal/adapters/handler/http"
	"github.com/vncsmyrnk/notes/internal/adapters/hasher"
	mongorepo "github.com/vncsmyrnk/notes/internal/adapters/repository/mongo"
	pgrepo "github.com/vncsmyrnk/notes/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/notes/internal/adapters/token"
	"github.com/vncsmyrnk/notes/internal/core/domain"
	"github.com/vncsmyrnk/notes/internal/core/ports"
	"github.com/vncsmyrnk/notes/internal/core/services"
	"github.com/vncsmyrnk/notes/internal/logging"
)

func setupMongoContainer(ctx context.Context) (testcontainers.Container, string, error) {
	mongoContainer, err := mongodb.Run(ctx, "mongo:7")
	if err != nil {
		return nil, "", fmt.Errorf("failed to start mongo container: %w", err)
	}

	uri, err := mongoContainer.ConnectionString(ctx)
	if err != nil {
		return nil, "", err
	}
	return mongoContainer, uri, nil
}

func setupPostgresContainer(ctx context.Context) (testcontainers.Container, string, error) {
	dbName := "testdb"
	user := "user"
	password := "password"

	pgContainer, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(user),
		postgres.WithPassword(password),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, "", fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", err
	}
	return pgContainer, connStr, nil
}

type TestApp struct {
	Mongo      *mongo.Client
	DB         *sql.DB
	Server     *httptest.Server
	Client     *http.Client
	containers []testcontainers.Container
}

// setupTestApp wires the full server against MongoDB storage and the
// PostgreSQL login limiter.
func setupTestApp(t *testing.T, loginLimit int) *TestApp {
	t.Helper()
	ctx := context.Background()

	mongoContainer, mongoURI, err := setupMongoContainer(ctx)
	require.NoError(t, err)
	pgContainer, pgURL, err := setupPostgresContainer(ctx)
	require.NoError(t, err)

	client, err := mongorepo.Connect(ctx, mongoURI)
	require.NoError(t, err)
	mdb := client.Database("notes_test")
	require.NoError(t, mongorepo.EnsureIndexes(ctx, mdb))

	db, err := pgrepo.Open(ctx, pgURL)
	require.NoError(t, err)
	require.NoError(t, pgrepo.Migrate(ctx, db))

	log := logging.Nop()
	rs := handler.NewResponder(log, false)

	userRepo := mongorepo.NewUserRepository(mdb)
	tokens := token.NewService("test-secret", 15*time.Minute, time.Hour)
	authSvc := services.NewAuthService(userRepo, tokens, hasher.NewBcrypt(bcrypt.MinCost), domain.DefaultLockPolicy(), log)
	noteSvc := services.NewNoteService(mongorepo.NewNoteRepository(mdb), log)

	router := handler.NewHandler(handler.RouterConfig{
		Notes:          handler.NewNoteHandler(noteSvc, rs),
		Auth:           handler.NewAuthHandler(authSvc, rs),
		Users:          handler.NewUserHandler(services.NewUserService(userRepo), rs),
		Health:         handler.NewHealthHandler("mongo", func(ctx context.Context) error { return mongorepo.Ping(ctx, client) }, rs),
		Tokens:         tokens,
		LoginLimiter:   pgrepo.NewAttemptStore(db, ports.LimitPolicy{MaxAttempts: loginLimit, Window: 15 * time.Minute}),
		Responder:      rs,
		CORSOrigins:    []string{"*"},
		RequestTimeout: 10 * time.Second,
	})

	server := httptest.NewServer(router)

	return &TestApp{
		Mongo:      client,
		DB:         db,
		Server:     server,
		Client:     server.Client(),
		containers: []testcontainers.Container{mongoContainer, pgContainer},
	}
}

func (app *TestApp) Teardown(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	app.Server.Close()
	app.DB.Close()
	_ = app.Mongo.Disconnect(ctx)
	for _, c := range app.containers {
		if err := c.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}
}

type envelope struct {
	Success    bool            `json:"success"`
	Message    string          `json:"message"`
	Error      string          `json:"error"`
	StatusCode int             `json:"statusCode"`
	Data       json.RawMessage `json:"data"`
}

func (app *TestApp) call(t *testing.T, method, path string, body any, accessToken string) (*http.Response, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, app.Server.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := app.Client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp, env
}
