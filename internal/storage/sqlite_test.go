package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSQLite_CreatesDirAndSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "test.db")
	schema := []string{`CREATE TABLE IF NOT EXISTS things (id INTEGER PRIMARY KEY, name TEXT)`}

	db, err := OpenSQLite(path, schema)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`INSERT INTO things (name) VALUES (?)`, "a")
	require.NoError(t, err)

	// schema is idempotent
	require.NoError(t, Migrate(db, schema))

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM things`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestOpenSQLite_BadSchema(t *testing.T) {
	_, err := OpenSQLite(filepath.Join(t.TempDir(), "bad.db"), []string{"NOT SQL AT ALL"})
	assert.Error(t, err)
}
