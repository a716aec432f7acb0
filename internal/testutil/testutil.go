// Package testutil provides helpers for database-backed tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/courtside/courtside/internal/model"
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

const advisoryLockID int64 = 730730

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

// migrationPairs lists the schema migrations in apply order.
var migrationPairs = []string{
	"000001_profiles",
	"000002_messaging",
	"000003_access_keys",
}

// ResetSchema drops and recreates the full schema for tests.
func ResetSchema(ctx context.Context, pool *pgxpool.Pool) error {
	root, err := ProjectRoot()
	if err != nil {
		return err
	}

	// Down migrations run in reverse so foreign keys unwind cleanly.
	for i := len(migrationPairs) - 1; i >= 0; i-- {
		if err := applyMigration(ctx, pool, root, migrationPairs[i]+".down.sql"); err != nil {
			return err
		}
	}

	for _, name := range migrationPairs {
		if err := applyMigration(ctx, pool, root, name+".up.sql"); err != nil {
			return err
		}
	}

	return nil
}

func applyMigration(ctx context.Context, pool *pgxpool.Pool, root, file string) error {
	path := filepath.Join(root, "migrations", file)

	sql, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read migration %s: %w", file, err)
	}
	if _, err := pool.Exec(ctx, string(sql)); err != nil {
		return fmt.Errorf("apply migration %s: %w", file, err)
	}

	return nil
}

// FlushRedis clears the current Redis database.
func FlushRedis(ctx context.Context, client *redis.Client) error {
	return client.FlushDB(ctx).Err()
}

// ProjectRoot returns the project root directory.
func ProjectRoot() (string, error) {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("failed to resolve testutil path")
	}
	root := filepath.Clean(filepath.Join(filepath.Dir(filename), "..", ".."))
	return root, nil
}

// InsertProfile writes a profile row directly. Profile creation belongs to
// the upstream identity provider, so the repository has no insert of its own
// and tests seed rows here.
func InsertProfile(ctx context.Context, pool *pgxpool.Pool, p *model.Profile) error {
	query := `
		INSERT INTO profiles (id, email, name, role, is_adult, created_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6)
	`
	if _, err := pool.Exec(ctx, query, p.ID, p.Email, p.Name, p.Role, p.IsAdult, p.CreatedAt); err != nil {
		return fmt.Errorf("insert profile %s: %w", p.ID, err)
	}
	return nil
}

// NewTestProfile creates a competitor profile with sensible defaults.
func NewTestProfile(t testing.TB, id, email string) *model.Profile {
	t.Helper()
	return &model.Profile{
		ID:        id,
		Email:     email,
		Name:      "Test Competitor",
		Role:      model.RoleCompetitor,
		CreatedAt: time.Now().UTC(),
	}
}
