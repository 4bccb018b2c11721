// Package testing provides testing utilities and helpers shared by the
// module tests.
package testing

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/atreyakamat/solara-mf/internal/database"
)

// NewTestDB creates a file-backed SQLite database in a temporary directory
// and applies the embedded schema registered for name ("fundflow").
// Unknown names yield an empty database.
// The returned cleanup function is idempotent.
func NewTestDB(t *testing.T, name string) (*database.DB, func()) {
	t.Helper()

	dir, err := os.MkdirTemp("", "fundflow-test-*")
	if err != nil {
		t.Fatalf("Failed to create temporary directory: %v", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("%s.db", name))

	db, err := database.New(database.Config{
		Path:    path,
		Profile: database.ProfileStandard,
		Name:    name,
	})
	if err != nil {
		_ = os.RemoveAll(dir)
		t.Fatalf("Failed to create test database %s: %v", name, err)
	}

	if err := db.Migrate(); err != nil {
		_ = db.Close()
		_ = os.RemoveAll(dir)
		t.Fatalf("Failed to migrate test database %s: %v", name, err)
	}

	closed := false
	return db, func() {
		if closed {
			return
		}
		closed = true
		if err := db.Close(); err != nil {
			t.Logf("Warning: Failed to close test database %s: %v", name, err)
		}
		if err := os.RemoveAll(dir); err != nil {
			t.Logf("Warning: Failed to remove temporary directory %s: %v", dir, err)
		}
	}
}
