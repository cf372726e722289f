//go:build integration

package store

import (
	"context"
	"os"
	"testing"
)

func setupTestDB(t *testing.T) Store {
	t.Helper()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	s, err := NewPostgresStore(ctx, dbURL)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	if err := s.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	truncate := func() {
		_, _ = s.pool.Exec(ctx, "TRUNCATE readiness_tasks, readiness_sessions, readiness_settings CASCADE")
	}
	truncate()

	t.Cleanup(func() {
		truncate()
		s.Close()
	})

	return s
}

func TestPostgresStore(t *testing.T) {
	runStoreSuite(t, setupTestDB)
}
