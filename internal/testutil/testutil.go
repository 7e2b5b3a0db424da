// Package testutil holds helpers for integration tests against Postgres and Redis.
package testutil

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"

	"github.com/plexo/gateway/internal/migrations"
)

// Environment variables that enable integration tests.
const (
	DatabaseURLEnv = "TEST_DATABASE_URL"
	RedisURLEnv    = "TEST_REDIS_URL"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

const advisoryLockID int64 = 420420

// AcquireDBLock grabs a global advisory lock to serialize DB tests.
func AcquireDBLock(ctx context.Context, pool *pgxpool.Pool) (func() error, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		conn.Release()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}

	unlock := func() error {
		defer conn.Release()
		if _, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", advisoryLockID); err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		return nil
	}

	return unlock, nil
}

// ResetSchema rolls every migration back and applies them again.
func ResetSchema(ctx context.Context, pool *pgxpool.Pool) error {
	// Not closed: the pool belongs to the caller.
	db := stdlib.OpenDBFromPool(pool)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if err := migrations.RunDB(ctx, db, migrations.CommandReset, logger); err != nil {
		return err
	}
	return migrations.RunDB(ctx, db, migrations.CommandUp, logger)
}

// NewPool connects to TEST_DATABASE_URL, takes the test lock and resets the
// schema. Everything is released when the test ends. Skips without the env var.
func NewPool(t *testing.T) (context.Context, *pgxpool.Pool) {
	t.Helper()

	databaseURL := RequireEnv(t, DatabaseURLEnv)
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	t.Cleanup(cancel)

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		t.Fatalf("connect postgres: %v", err)
	}
	t.Cleanup(pool.Close)

	unlock, err := AcquireDBLock(ctx, pool)
	if err != nil {
		t.Fatalf("lock database: %v", err)
	}
	t.Cleanup(func() { _ = unlock() })

	if err := ResetSchema(ctx, pool); err != nil {
		t.Fatalf("reset schema: %v", err)
	}

	return ctx, pool
}

// NewRedis connects to TEST_REDIS_URL and flushes it. Skips without the env var.
func NewRedis(t *testing.T) *redis.Client {
	t.Helper()

	opt, err := redis.ParseURL(RequireEnv(t, RedisURLEnv))
	if err != nil {
		t.Fatalf("parse redis url: %v", err)
	}
	client := redis.NewClient(opt)
	t.Cleanup(func() { _ = client.Close() })

	if err := FlushRedis(context.Background(), client); err != nil {
		t.Fatalf("flush redis: %v", err)
	}
	return client
}

// FlushRedis clears the current Redis database.
func FlushRedis(ctx context.Context, client *redis.Client) error {
	return client.FlushDB(ctx).Err()
}

var uniqueCounter atomic.Uint64

// UniqueName returns a name that does not repeat within the test binary.
func UniqueName(prefix string) string {
	return fmt.Sprintf("%s-%d-%d", prefix, time.Now().UnixNano(), uniqueCounter.Add(1))
}
