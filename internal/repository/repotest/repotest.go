// Package repotest opens a migrated, empty Postgres database for repository
// tests. Tests are skipped when TEST_DB_DSN is not set.
package repotest

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"insurance-tracker/internal/migrate"
)

// Pool connects to TEST_DB_DSN, applies migrations and truncates every
// table. The pool is closed when the test ends.
func Pool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := migrate.Apply(ctx, pool, nil); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	if _, err := pool.Exec(ctx, `
TRUNCATE renewal_notices, customer_files, defects, warranties, insurances, customers
RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	return pool
}

// InsertCustomer adds a bare customer row.
func InsertCustomer(t *testing.T, pool *pgxpool.Pool, id, name string) {
	t.Helper()
	if _, err := pool.Exec(context.Background(), `INSERT INTO customers (id, name) VALUES ($1, $2)`, id, name); err != nil {
		t.Fatalf("insert customer %s: %v", id, err)
	}
}
