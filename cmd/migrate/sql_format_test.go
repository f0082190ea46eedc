package main

import (
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	createTable = regexp.MustCompile(`(?m)^CREATE TABLE (\w+)`)
	dropTable   = regexp.MustCompile(`(?m)^DROP TABLE IF EXISTS (\w+);`)
	statusCol   = regexp.MustCompile(`(?m)^\s*(archived|on_cep)\s+VARCHAR.*$`)
)

func readMigrations(t *testing.T) map[string]string {
	t.Helper()
	dir := repoMigrations(t)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	out := make(map[string]string)
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		b, err := os.ReadFile(filepath.Join(dir, e.Name()))
		require.NoError(t, err)
		out[e.Name()] = string(b)
	}
	require.NotEmpty(t, out)
	return out
}

func captured(re *regexp.Regexp, s string) []string {
	var names []string
	for _, m := range re.FindAllStringSubmatch(s, -1) {
		names = append(names, m[1])
	}
	return names
}

// Down must drop exactly what Up creates, in reverse order so foreign
// keys never block a rollback.
func TestSQLMigrations_DownReversesUp(t *testing.T) {
	for name, sql := range readMigrations(t) {
		up, down, ok := strings.Cut(sql, "-- +goose Down")
		require.True(t, ok, "%s missing '-- +goose Down'", name)
		require.Contains(t, up, "-- +goose Up", name)

		created := captured(createTable, up)
		dropped := captured(dropTable, down)
		slices.Reverse(dropped)
		assert.Equal(t, created, dropped, name)
	}
}

func TestSQLMigrations_StatusColumnsConstrained(t *testing.T) {
	for name, sql := range readMigrations(t) {
		for _, m := range statusCol.FindAllStringSubmatch(sql, -1) {
			want := "CHECK (" + m[1] + " IN ('true', 'partial', 'false'))"
			assert.Contains(t, m[0], want, "%s: %s", name, strings.TrimSpace(m[0]))
		}
	}

	schema := readMigrations(t)["00001_observation_schema.sql"]
	assert.Len(t, statusCol.FindAllString(schema, -1), 6, "fields, observations and beams each carry archived and on_cep")
	assert.Contains(t, schema, `CHECK (obsid ~ '^L[0-9]+$')`)
	assert.Contains(t, schema, "CHECK (clock IN (160, 200))")
}
