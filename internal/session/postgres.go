package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PgxExecutor matches both *pgxpool.Pool and pgx.Tx.
type PgxExecutor interface {
	Exec(ctx context.Context, sql string, arguments ...any) (commandTag pgconn.CommandTag, err error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore keeps the token in the session_tokens table.
type PostgresStore struct {
	db PgxExecutor
}

func NewPostgresStore(db PgxExecutor) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the session_tokens table if it is missing.
func (p *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := p.db.Exec(ctx, `CREATE TABLE IF NOT EXISTS session_tokens (
		key   TEXT PRIMARY KEY,
		token TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`)
	if err != nil {
		return fmt.Errorf("failed to create session_tokens table: %w", err)
	}
	return nil
}

func (p *PostgresStore) Get(ctx context.Context) (string, bool, error) {
	var token string
	err := p.db.QueryRow(ctx, "SELECT token FROM session_tokens WHERE key = $1", TokenKey).Scan(&token)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get token: %w", err)
	}
	return token, true, nil
}

func (p *PostgresStore) Set(ctx context.Context, token string) error {
	_, err := p.db.Exec(ctx, `INSERT INTO session_tokens (key, token) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET token = EXCLUDED.token, updated_at = now()`, TokenKey, token)
	if err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}
