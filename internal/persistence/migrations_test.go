package persistence

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationFilesAreSortedSQLOnly(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"002_vesting.sql", "001_init.sql", "README.md"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("SELECT 1;"), 0o600))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "003_dir.sql"), 0o700))

	files, err := migrationFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"001_init.sql", "002_vesting.sql"}, files)
}

func TestMigrationFilesMissingDir(t *testing.T) {
	_, err := migrationFiles(filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}

func TestPendingMigrationsSkipApplied(t *testing.T) {
	files := []string{"001_init.sql", "002_vesting.sql", "003_indexes.sql"}
	pending := pendingMigrations(files, map[string]bool{"001_init.sql": true})
	assert.Equal(t, []string{"002_vesting.sql", "003_indexes.sql"}, pending)
	assert.Empty(t, pendingMigrations(files, map[string]bool{
		"001_init.sql": true, "002_vesting.sql": true, "003_indexes.sql": true,
	}))
}
