package session_test

import (
	"context"
	"os"
	"testing"

	"vinfast/dashboard/internal/session"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *pgxpool.Pool {
	_ = godotenv.Load("../../.env")

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set")
	}

	pool, err := pgxpool.New(context.Background(), dbURL)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, pool.Ping(context.Background()))
	return pool
}

func TestPostgresStore_Integration(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()

	store := session.NewPostgresStore(pool)
	require.NoError(t, store.EnsureSchema(ctx))

	_, err := pool.Exec(ctx, "TRUNCATE TABLE session_tokens")
	require.NoError(t, err)

	_, ok, err := store.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	s := session.New(store, zerolog.Nop())
	require.NoError(t, s.SaveToken(ctx, "first"))
	require.NoError(t, s.SaveToken(ctx, "second"))

	assert.Equal(t, map[string]string{"Authorization": "Bearer second"}, s.AuthHeader(ctx))

	var rows int
	require.NoError(t, pool.QueryRow(ctx, "SELECT COUNT(*) FROM session_tokens").Scan(&rows))
	assert.Equal(t, 1, rows)
}
