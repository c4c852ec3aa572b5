// Package itf holds shared fixtures for integration tests against real
// postgres and redis instances. Tests using it are skipped unless the
// matching ITF_* environment variable points at a reachable instance.
package itf

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/readcircle/readcircle-sdk/pkg/composables"
)

// TestEnvironment carries a context wired with a pool and an open
// transaction. The transaction is rolled back when the test finishes, so
// tests never leak rows into each other.
type TestEnvironment struct {
	Ctx  context.Context
	Pool *pgxpool.Pool
	Tx   pgx.Tx
}

// Setup connects to ITF_DATABASE_URL, applies the given schema inside a fresh
// transaction and returns a context ready for repository calls. The schema
// runs inside the test transaction, so the database stays pristine.
func Setup(tb testing.TB, schemaSQL string) *TestEnvironment {
	tb.Helper()

	dsn := os.Getenv("ITF_DATABASE_URL")
	if dsn == "" {
		tb.Skip("ITF_DATABASE_URL not set, skipping database test")
	}

	pool := NewPool(tb, dsn)
	ctx := composables.WithPool(context.Background(), pool)

	tx, err := pool.Begin(ctx)
	if err != nil {
		tb.Fatalf("failed to begin transaction: %v", err)
	}
	ctx = composables.WithTx(ctx, tx)

	if schemaSQL != "" {
		if _, err := tx.Exec(ctx, schemaSQL); err != nil {
			tb.Fatalf("failed to apply schema: %v", err)
		}
	}

	tb.Cleanup(func() {
		if err := tx.Rollback(context.Background()); err != nil && err != pgx.ErrTxClosed {
			tb.Logf("warning: failed to rollback transaction: %v", err)
		}
		pool.Close()
	})

	return &TestEnvironment{Ctx: ctx, Pool: pool, Tx: tx}
}

// NewPool builds a bounded pgx pool for test use.
func NewPool(tb testing.TB, dsn string) *pgxpool.Pool {
	tb.Helper()

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		tb.Fatalf("invalid ITF_DATABASE_URL: %v", err)
	}
	config.MaxConns = 4
	config.MinConns = 1
	config.MaxConnLifetime = 5 * time.Minute
	config.MaxConnIdleTime = 30 * time.Second

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		tb.Fatalf("failed to create pool: %v", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		tb.Skipf("database not reachable: %v", err)
	}
	return pool
}

// SetupRedis connects to ITF_REDIS_URL and flushes the selected database
// before handing the client over. Tests are skipped when the variable is
// unset or the instance is unreachable.
func SetupRedis(tb testing.TB) *redis.Client {
	tb.Helper()

	url := os.Getenv("ITF_REDIS_URL")
	if url == "" {
		tb.Skip("ITF_REDIS_URL not set, skipping redis test")
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		tb.Fatalf("invalid ITF_REDIS_URL: %v", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		tb.Skipf("redis not reachable: %v", err)
	}
	if err := client.FlushDB(ctx).Err(); err != nil {
		tb.Fatalf("failed to flush redis database: %v", err)
	}

	tb.Cleanup(func() {
		_ = client.Close()
	})
	return client
}
