// Package sqlite_test contains integration tests for SQLite repositories.
//
// Every test database is migrated with db.Open so tests run against the
// same schema as production. Do not hardcode CREATE TABLE statements here.
package sqlite_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/example/slicer/internal/adapters/sqlite"
	"github.com/example/slicer/internal/db"
	"github.com/example/slicer/internal/ports/secondary"
)

// setupTestDB creates a migrated file database in a temp directory.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err, "failed to open test db")

	t.Cleanup(func() {
		testDB.Close()
	})
	return testDB
}

// seedFeature inserts a feature with listing enabled and returns it.
func seedFeature(t *testing.T, repo *sqlite.FeatureRepository, module, prefix string) *secondary.FeatureRecord {
	t.Helper()

	record := &secondary.FeatureRecord{
		Name:                prefix + "s",
		ComponentPrefix:     prefix,
		ModuleNamespace:     module,
		ProjectNamespace:    "Acme",
		PrimaryKeyType:      "int",
		BasePath:            "/src/acme",
		DirectoryName:       prefix + "s",
		HasListing:          true,
		SelectListModelType: "SelectOption",
		SelectListDataType:  "string",
		UIFramework:         "Bootstrap",
	}
	require.NoError(t, repo.Create(context.Background(), record), "failed to seed feature")
	return record
}
