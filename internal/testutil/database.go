// Package testutil provides testing helpers shared by sqlcmd packages.
package testutil

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/coral-mesh/sqlcmd/internal/database"
)

// NewTestDB opens an in-memory DuckDB database and runs statements on it.
// The handle is closed when the test completes.
func NewTestDB(t *testing.T, statements ...string) *sql.DB {
	t.Helper()

	db, err := database.Open(context.Background(), database.Options{Driver: database.DriverDuckDB})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	// One connection keeps the in-memory catalog visible to every query.
	db.SetMaxOpenConns(1)

	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("failed to close test database: %v", err)
		}
	})

	exec(t, db, statements)
	return db
}

// NewTestDBFile creates a DuckDB file in a temporary directory, runs
// statements on it and closes it again. It returns the file path, ready to
// be opened by the code under test.
func NewTestDBFile(t *testing.T, statements ...string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.duckdb")
	db, err := database.Open(context.Background(), database.Options{DSN: path})
	if err != nil {
		t.Fatalf("failed to create test database file: %v", err)
	}

	exec(t, db, statements)

	if err := db.Close(); err != nil {
		t.Fatalf("failed to close test database file: %v", err)
	}
	return path
}

func exec(t *testing.T, db *sql.DB, statements []string) {
	t.Helper()
	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("seed statement %q failed: %v", stmt, err)
		}
	}
}
