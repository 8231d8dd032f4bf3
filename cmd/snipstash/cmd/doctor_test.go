package cmd

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoctor_ProviderDisabled(t *testing.T) {
	setupEnv(t)

	out, err := runCLI(t, "doctor")
	require.NoError(t, err)
	assert.Contains(t, out, "config ok")
	assert.Contains(t, out, "store ok")
	assert.Contains(t, out, "disabled")
}

func TestDoctor_ProviderEnabledButDown(t *testing.T) {
	setupEnv(t)
	t.Setenv("SNIPSTASH_OLLAMA_ENABLED", "true")
	t.Setenv("SNIPSTASH_OLLAMA_ENDPOINT", "http://127.0.0.1:1")

	out, err := runCLI(t, "doctor")
	require.NoError(t, err)
	assert.Contains(t, out, "not reachable")
	assert.Contains(t, out, "fall back to lexical")
}

func TestConfig_ShowsEffectiveValues(t *testing.T) {
	setupEnv(t)

	out, err := runCLI(t, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "snippets.db")
	assert.Contains(t, out, "nomic-embed-text")
}

func TestConfigInit_WritesFile(t *testing.T) {
	setupEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")

	out, err := runCLI(t, "--config", path, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "wrote")

	out, err = runCLI(t, "--config", path, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "version: 1")
}
