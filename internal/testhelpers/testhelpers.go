package testhelpers

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Lumos-Labs-HQ/objseed/internal/database/sqlite"
)

// NewSQLiteAdapter returns a connected SQLite adapter backed by a file in a
// temporary directory. The schema is applied when withSchema is set. The
// adapter is closed when the test completes.
func NewSQLiteAdapter(t *testing.T, withSchema bool) *sqlite.Adapter {
	t.Helper()

	adapter := sqlite.New()
	path := filepath.Join(t.TempDir(), "objseed.db")
	if err := adapter.Connect(context.Background(), path); err != nil {
		t.Fatalf("open test database: %v", err)
	}

	t.Cleanup(func() {
		_ = adapter.Close()
	})

	if withSchema {
		if err := adapter.ApplySchema(context.Background()); err != nil {
			t.Fatalf("apply schema: %v", err)
		}
	}

	return adapter
}
