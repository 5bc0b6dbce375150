// Package postgres keeps login attempts in PostgreSQL so several API
// instances share one rate-limit window.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pressly/goose/v3"

	"github.com/vncsmyrnk/notes/internal/adapters/repository/postgres/migrations"
	"github.com/vncsmyrnk/notes/internal/core/ports"
)

const (
	// The newest MaxAttempts+1 failures are enough to tell whether the key
	// is over the limit and when the oldest of them leaves the window.
	windowQuery = `SELECT attempted_at FROM login_attempts
		WHERE client_key = $1 AND attempted_at > $2
		ORDER BY attempted_at DESC LIMIT $3`

	insertAttemptQuery = `INSERT INTO login_attempts (client_key, attempted_at) VALUES ($1, $2)`

	purgeQuery = `DELETE FROM login_attempts WHERE attempted_at <= $1`
)

// AttemptStore implements ports.AttemptLimiter with the same sliding-log
// semantics as the in-memory limiter, shared by every API instance that
// points at the same database.
type AttemptStore struct {
	db     *sql.DB
	policy ports.LimitPolicy
	now    func() time.Time
}

func NewAttemptStore(db *sql.DB, policy ports.LimitPolicy) *AttemptStore {
	return &AttemptStore{db: db, policy: policy, now: time.Now}
}

func (s *AttemptStore) Check(ctx context.Context, key string) (ports.LimitDecision, error) {
	now := s.now().UTC()
	rows, err := s.db.QueryContext(ctx, windowQuery, key, now.Add(-s.policy.Window), s.policy.MaxAttempts+1)
	if err != nil {
		return ports.LimitDecision{}, fmt.Errorf("failed to read attempts: %w", err)
	}
	defer rows.Close()

	var recent []time.Time
	for rows.Next() {
		var at time.Time
		if err := rows.Scan(&at); err != nil {
			return ports.LimitDecision{}, fmt.Errorf("failed to scan attempt: %w", err)
		}
		recent = append(recent, at)
	}
	if err := rows.Err(); err != nil {
		return ports.LimitDecision{}, fmt.Errorf("failed to read attempts: %w", err)
	}

	if len(recent) > s.policy.MaxAttempts {
		oldest := recent[s.policy.MaxAttempts]
		return ports.LimitDecision{
			Allowed:    false,
			RetryAfter: max(0, oldest.Add(s.policy.Window).Sub(now)),
		}, nil
	}
	return ports.LimitDecision{Allowed: true, Remaining: s.policy.MaxAttempts - len(recent)}, nil
}

func (s *AttemptStore) RecordFailure(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, insertAttemptQuery, key, s.now().UTC()); err != nil {
		return fmt.Errorf("failed to record attempt: %w", err)
	}
	return nil
}

// Purge deletes attempts that can no longer affect a decision.
func (s *AttemptStore) Purge(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, purgeQuery, s.now().UTC().Add(-s.policy.Window))
	if err != nil {
		return 0, fmt.Errorf("failed to purge attempts: %w", err)
	}
	return res.RowsAffected()
}

// Run purges every interval until ctx is done.
func (s *AttemptStore) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = s.Purge(ctx)
		}
	}
}

// gooseUp is replaced in tests.
var gooseUp = func(ctx context.Context, db *sql.DB, dir string) error {
	return goose.UpContext(ctx, db, dir)
}

// Migrate applies the embedded migrations.
func Migrate(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	if err := gooseUp(ctx, db, "."); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Open connects with lib/pq and verifies the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	return db, nil
}
