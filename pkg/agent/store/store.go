// Package store persists interview checkpoints and summaries in Postgres.
// Checkpoints are keyed by call ID, one row per call, replaced on every
// save; summaries are append-only so every write_summary call survives.
package store

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/oklog/ulid/v2"
	"github.com/pressly/goose/v3"

	"github.com/vocalize-ai/hrscreen/pkg/agent/state"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Store is a Postgres-backed checkpoint and summary repository.
type Store struct {
	pool *pgxpool.Pool
}

// New connects to Postgres, runs pending migrations, and returns the store.
func New(ctx context.Context, dsn string) (*Store, error) {
	if err := migrate(dsn); err != nil {
		return nil, err
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("store: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	return &Store{pool: pool}, nil
}

func migrate(dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("store: open for migration: %w", err)
	}
	defer db.Close()

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("store: set dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("store: migrate: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

// SaveCheckpoint replaces the checkpoint for a call with the given state.
func (s *Store) SaveCheckpoint(ctx context.Context, callID string, st state.State) error {
	payload, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("store: encode state: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO checkpoints (call_id, state, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (call_id) DO UPDATE SET state = EXCLUDED.state, updated_at = now()`,
		callID, payload)
	if err != nil {
		return fmt.Errorf("store: save checkpoint: %w", err)
	}
	return nil
}

// LoadCheckpoint fetches the checkpoint for a call. The second return is
// false when the call has no checkpoint.
func (s *Store) LoadCheckpoint(ctx context.Context, callID string) (state.State, bool, error) {
	var payload []byte
	err := s.pool.QueryRow(ctx, `SELECT state FROM checkpoints WHERE call_id = $1`, callID).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return state.State{}, false, nil
	}
	if err != nil {
		return state.State{}, false, fmt.Errorf("store: load checkpoint: %w", err)
	}

	var st state.State
	if err := json.Unmarshal(payload, &st); err != nil {
		return state.State{}, false, fmt.Errorf("store: decode state: %w", err)
	}
	return st, true, nil
}

// DeleteCheckpoint drops a call's checkpoint, typically after the call ends
// cleanly and the summary is persisted.
func (s *Store) DeleteCheckpoint(ctx context.Context, callID string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM checkpoints WHERE call_id = $1`, callID); err != nil {
		return fmt.Errorf("store: delete checkpoint: %w", err)
	}
	return nil
}

// WriteSummary appends a summary row for a call. Summary IDs are ULIDs so
// rows for one call sort by write time.
func (s *Store) WriteSummary(ctx context.Context, callID, body string) error {
	id := ulid.Make().String()
	_, err := s.pool.Exec(ctx, `
		INSERT INTO summaries (id, call_id, body, created_at)
		VALUES ($1, $2, $3, now())`,
		id, callID, body)
	if err != nil {
		return fmt.Errorf("store: write summary: %w", err)
	}
	return nil
}

// LatestSummary returns the most recent summary for a call, or false when
// none exists.
func (s *Store) LatestSummary(ctx context.Context, callID string) (string, bool, error) {
	var body string
	err := s.pool.QueryRow(ctx, `
		SELECT body FROM summaries WHERE call_id = $1 ORDER BY id DESC LIMIT 1`,
		callID).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("store: latest summary: %w", err)
	}
	return body, true, nil
}
