package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, CurrentVersion, cfg.Version)
	assert.False(t, cfg.Ollama.Enabled)
	assert.Equal(t, "http://localhost:11434", cfg.Ollama.Endpoint)
	assert.Equal(t, "nomic-embed-text", cfg.Ollama.Model)
	assert.Equal(t, 20, cfg.Search.SemanticLimit)
	assert.NotEmpty(t, cfg.Store.Path)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))

	require.NoError(t, err)
	assert.Equal(t, Default().Ollama.Endpoint, cfg.Ollama.Endpoint)
}

func TestLoad_ReadsYAML(t *testing.T) {
	// Given: a config file
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `version: 1
store:
  path: /tmp/test.db
ollama:
  enabled: true
  endpoint: http://embedhost:11434
  model: mxbai-embed-large
search:
  semantic_limit: 5
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	// When: loading
	cfg, err := Load(path)

	// Then: values come from the file
	require.NoError(t, err)
	assert.Equal(t, "/tmp/test.db", cfg.Store.Path)
	assert.True(t, cfg.Ollama.Enabled)
	assert.Equal(t, "http://embedhost:11434", cfg.Ollama.Endpoint)
	assert.Equal(t, "mxbai-embed-large", cfg.Ollama.Model)
	assert.Equal(t, 5, cfg.Search.SemanticLimit)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SNIPSTASH_OLLAMA_ENDPOINT", "http://other:11434")
	t.Setenv("SNIPSTASH_OLLAMA_ENABLED", "true")
	t.Setenv("SNIPSTASH_STORE_PATH", "/tmp/env.db")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))

	require.NoError(t, err)
	assert.Equal(t, "http://other:11434", cfg.Ollama.Endpoint)
	assert.True(t, cfg.Ollama.Enabled)
	assert.Equal(t, "/tmp/env.db", cfg.Store.Path)
}

func TestLoad_InvalidEndpointRejectedWhenEnabled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `version: 1
ollama:
  enabled: true
  endpoint: "not a url"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ollama.endpoint")
}

func TestLoad_BadEndpointToleratedWhenDisabled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `version: 1
ollama:
  enabled: false
  endpoint: "not a url"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := Load(path)
	require.NoError(t, err)
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Ollama.Model = "custom-model"
	require.NoError(t, Save(cfg, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "custom-model", loaded.Ollama.Model)
}

func TestValidate_UnsupportedVersion(t *testing.T) {
	cfg := Default()
	cfg.Version = 99

	err := cfg.Validate()
	require.Error(t, err)
}
