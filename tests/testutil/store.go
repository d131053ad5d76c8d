package testutil

import (
	"testing"

	"github.com/nhle/sitehub-notify/internal/classify"
	"github.com/nhle/sitehub-notify/internal/store"
)

// NewTestStore creates an in-memory SQLiteStore with all migrations applied.
// It automatically closes the store when the test completes.
func NewTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	s, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})

	return s
}

// NewTestEngine builds a classifier from the default tables.
func NewTestEngine(t *testing.T) *classify.Engine {
	t.Helper()

	e, err := classify.NewDefault()
	if err != nil {
		t.Fatalf("building default engine: %v", err)
	}
	return e
}
