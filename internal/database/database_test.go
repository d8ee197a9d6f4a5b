package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDatabaseFileName = "ezinit.db"

func newTestDatabase(t *testing.T) *SQLiteDatabase {
	t.Helper()

	db, err := NewSQLiteDatabase(filepath.Join(t.TempDir(), testDatabaseFileName))
	require.NoError(t, err, "Failed to create database")
	t.Cleanup(func() { db.Close() })

	return db
}

func TestSQLiteDatabase_UsageCounts(t *testing.T) {
	db := newTestDatabase(t)

	t.Run("Empty database", func(t *testing.T) {
		counts, err := db.GetUsageCounts()
		require.NoError(t, err)
		assert.Empty(t, counts, "Empty database should return empty map")
	})

	t.Run("Increment counts", func(t *testing.T) {
		require.NoError(t, db.IncUsageCount("c"))
		require.NoError(t, db.IncUsageCount("c"))
		require.NoError(t, db.IncUsageCount("cxx"))

		counts, err := db.GetUsageCounts()
		require.NoError(t, err)
		assert.Equal(t, map[string]int{"c": 2, "cxx": 1}, counts)
	})
}

func TestSQLiteDatabase_Overrides(t *testing.T) {
	db := newTestDatabase(t)

	t.Run("Set overrides", func(t *testing.T) {
		require.NoError(t, db.SetOverride("c", "src/hello.c", "first"))
		require.NoError(t, db.SetOverride("c", "tests/test_hello.c", "test"))
		require.NoError(t, db.SetOverride("cxx", "src/hello.cpp", "other"))
	})

	t.Run("Get overrides by language", func(t *testing.T) {
		overrides, err := db.GetOverrides("c")
		require.NoError(t, err)
		assert.Equal(t, map[string]string{
			"src/hello.c":        "first",
			"tests/test_hello.c": "test",
		}, overrides)

		overrides, err = db.GetOverrides("python")
		require.NoError(t, err)
		assert.Empty(t, overrides)
	})

	t.Run("Replace override", func(t *testing.T) {
		require.NoError(t, db.SetOverride("c", "src/hello.c", "second"))

		overrides, err := db.GetOverrides("c")
		require.NoError(t, err)
		assert.Equal(t, "second", overrides["src/hello.c"])
		assert.Len(t, overrides, 2)
	})

	t.Run("Delete override", func(t *testing.T) {
		require.NoError(t, db.DeleteOverride("c", "src/hello.c"))

		overrides, err := db.GetOverrides("c")
		require.NoError(t, err)
		assert.NotContains(t, overrides, "src/hello.c")

		err = db.DeleteOverride("c", "src/hello.c")
		require.ErrorIs(t, err, ErrNotFound, "Deleting a missing override should fail")
	})
}

func TestSQLiteDatabase_Projects(t *testing.T) {
	db := newTestDatabase(t)

	projects, err := db.ListProjects()
	require.NoError(t, err)
	assert.Empty(t, projects)

	older := &Project{
		Name:      "demo",
		Language:  "c",
		Path:      "/tmp/demo",
		CreatedAt: time.Unix(1700000000, 0),
	}
	newer := &Project{
		Name:      "other",
		Language:  "cxx",
		Path:      "/tmp/other",
		CreatedAt: time.Unix(1700000100, 0),
	}
	require.NoError(t, db.RecordProject(older))
	require.NoError(t, db.RecordProject(newer))
	assert.NotZero(t, older.ID)
	assert.NotEqual(t, older.ID, newer.ID)

	projects, err = db.ListProjects()
	require.NoError(t, err)
	require.Len(t, projects, 2)

	assert.Equal(t, "other", projects[0].Name, "Newest project should come first")
	assert.Equal(t, "cxx", projects[0].Language)
	assert.Equal(t, "/tmp/other", projects[0].Path)
	assert.True(t, newer.CreatedAt.Equal(projects[0].CreatedAt))
	assert.Equal(t, "demo", projects[1].Name)

	t.Run("Zero creation time", func(t *testing.T) {
		p := &Project{Name: "now", Language: "python", Path: "/tmp/now"}
		require.NoError(t, db.RecordProject(p))
		assert.False(t, p.CreatedAt.IsZero())
	})
}

func TestSQLiteDatabase_Persistence(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), testDatabaseFileName)

	// Phase 1: Create, insert and close
	t.Run("Create database and insert values", func(t *testing.T) {
		db, err := NewSQLiteDatabase(dbPath)
		require.NoError(t, err)

		require.NoError(t, db.IncUsageCount("python"))
		require.NoError(t, db.SetOverride("python", "src/__NAME__/main.py", "print()"))
		require.NoError(t, db.RecordProject(&Project{Name: "demo", Language: "python", Path: "/tmp/demo"}))

		require.NoError(t, db.Close())
	})

	// Phase 2: Reopen and verify values persisted
	t.Run("Verify values persisted after reopening", func(t *testing.T) {
		db, err := NewSQLiteDatabase(dbPath)
		require.NoError(t, err)
		defer db.Close()

		counts, err := db.GetUsageCounts()
		require.NoError(t, err)
		assert.Equal(t, 1, counts["python"])

		overrides, err := db.GetOverrides("python")
		require.NoError(t, err)
		assert.Equal(t, "print()", overrides["src/__NAME__/main.py"])

		projects, err := db.ListProjects()
		require.NoError(t, err)
		require.Len(t, projects, 1)
		assert.Equal(t, "demo", projects[0].Name)
	})
}
