package main

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// repoMigrations returns db/migrations relative to this file, so the
// tests do not depend on the working directory.
func repoMigrations(t *testing.T) string {
	t.Helper()
	_, thisFile, _, ok := runtime.Caller(0)
	require.True(t, ok, "runtime.Caller failed")
	return filepath.Join(filepath.Dir(thisFile), "..", "..", "db", "migrations")
}

func TestCollectMigrations_ObservationSchema(t *testing.T) {
	migrations, err := goose.CollectMigrations(repoMigrations(t), 0, goose.MaxVersion)
	require.NoError(t, err)
	require.NotEmpty(t, migrations)

	assert.Equal(t, int64(1), migrations[0].Version)
	assert.Equal(t, "00001_observation_schema.sql", filepath.Base(migrations[0].Source))
	for i := 1; i < len(migrations); i++ {
		assert.Greater(t, migrations[i].Version, migrations[i-1].Version)
	}
}
