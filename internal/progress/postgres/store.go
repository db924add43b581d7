// Package postgres implements the remote progress store on PostgreSQL via
// pgx. Completions are keyed (user_id, game_id) and upserted idempotently,
// so replaying a completion only refreshes its timestamp.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS game_progress (
	user_id      TEXT        NOT NULL,
	game_id      TEXT        NOT NULL,
	completed    BOOLEAN     NOT NULL DEFAULT TRUE,
	completed_at TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (user_id, game_id)
);
`

// Store is a pgx-backed progress store. It is safe for concurrent use.
type Store struct {
	pool *pgxpool.Pool
}

// New connects to the database, verifies the connection, and ensures the
// progress schema exists.
func New(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: creating pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: pinging database: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ensuring schema: %w", err)
	}
	return &Store{pool: pool}, nil
}

// FetchCompletions returns gameID -> completedAt for all completed
// practices of the user.
func (s *Store) FetchCompletions(ctx context.Context, userID string) (map[string]time.Time, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT game_id, completed_at FROM game_progress
		 WHERE user_id = $1 AND completed`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetching completions: %w", err)
	}
	defer rows.Close()

	completions := make(map[string]time.Time)
	for rows.Next() {
		var gameID string
		var completedAt time.Time
		if err := rows.Scan(&gameID, &completedAt); err != nil {
			return nil, fmt.Errorf("postgres: scanning completion row: %w", err)
		}
		completions[gameID] = completedAt
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterating completions: %w", err)
	}
	return completions, nil
}

// UpsertCompletion records a completion. Replaying an existing completion
// replaces its timestamp rather than erroring.
func (s *Store) UpsertCompletion(ctx context.Context, userID, practiceID string, completedAt time.Time) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO game_progress (user_id, game_id, completed, completed_at)
		 VALUES ($1, $2, TRUE, $3)
		 ON CONFLICT (user_id, game_id)
		 DO UPDATE SET completed = TRUE, completed_at = EXCLUDED.completed_at`,
		userID, practiceID, completedAt)
	if err != nil {
		return fmt.Errorf("postgres: upserting completion: %w", err)
	}
	return nil
}

// Ping reports database reachability, for readiness checks.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("postgres: ping: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}
