package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "id", cfg.Engine.UIDField)
	assert.True(t, cfg.Engine.Weighted)
	assert.Equal(t, "exact", cfg.Engine.IndexStrategy)
	assert.Equal(t, "all-words", cfg.Engine.Pruning)
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
engine:
  uidField: uid
  searchableFields: [name, description]
  weighted: false
  indexStrategy: prefix
  pruning: any-words
server:
  port: 9999
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "uid", cfg.Engine.UIDField)
	assert.Equal(t, []string{"name", "description"}, cfg.Engine.SearchableFields)
	assert.False(t, cfg.Engine.Weighted)
	assert.Equal(t, "prefix", cfg.Engine.IndexStrategy)
}

func TestLoadRejectsUnknownStrategy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
engine:
  indexStrategy: fuzzy
`), 0o644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "indexStrategy")
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("FS_ENGINE_UID_FIELD", "docId")
	t.Setenv("FS_SERVER_PORT", "7070")
	t.Setenv("FS_ENGINE_SEARCHABLE_FIELDS", "a,b,c")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "docId", cfg.Engine.UIDField)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, []string{"a", "b", "c"}, cfg.Engine.SearchableFields)
}

func TestPostgresDSN(t *testing.T) {
	cfg := PostgresConfig{
		Host: "db", Port: 5433, Database: "idx", User: "u", Password: "p", SSLMode: "disable",
	}
	assert.Equal(t,
		"host=db port=5433 user=u password=p dbname=idx sslmode=disable",
		cfg.DSN())
}
