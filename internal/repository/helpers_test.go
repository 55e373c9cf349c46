package repository

import (
	"testing"
	"time"

	"labtrack/internal/models"
	"labtrack/internal/store"
)

var testNow = time.Date(2024, time.March, 15, 9, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	return store.New(store.DefaultSeed(testNow, time.UTC))
}

func testOptions() Options {
	return Options{
		Catalog:  models.DefaultLocationCatalog(),
		Location: time.UTC,
		Now:      func() time.Time { return testNow },
	}
}

func strPtr(s string) *string { return &s }
