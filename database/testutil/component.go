// Package testutil opens throwaway databases for package tests.
package testutil

import (
	"context"
	"testing"

	"github.com/zillusion/capsule/database"
	"github.com/zillusion/capsule/logger"
)

// Open returns an in-memory sqlite database with models auto-migrated. The
// database is closed when the test ends.
func Open(t testing.TB, models ...interface{}) *database.DB {
	t.Helper()
	db, err := database.Open(context.Background(), database.Config{
		Driver:     database.DriverSQLite,
		DSN:        ":memory:",
		MaxRetries: 1,
		LogLevel:   "silent",
	}, logger.Nop())
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if len(models) > 0 {
		if err := db.AutoMigrate(models...); err != nil {
			t.Fatalf("auto-migrate: %v", err)
		}
	}
	return db
}
