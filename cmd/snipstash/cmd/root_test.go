package cmd

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupEnv points every snipstash path at a fresh temp directory so
// tests never touch the real library.
func setupEnv(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("SNIPSTASH_STORE_PATH", filepath.Join(dir, "snippets.db"))
	t.Setenv("SNIPSTASH_OLLAMA_ENABLED", "false")
}

// runCLI executes the CLI with args and returns combined output.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	buf := &bytes.Buffer{}
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestRoot_VersionFlag(t *testing.T) {
	out, err := runCLI(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "snipstash version")
}

func TestRoot_UnknownCommandFails(t *testing.T) {
	_, err := runCLI(t, "definitely-not-a-command")
	assert.Error(t, err)
}

func TestVersionCommand_ShortOutput(t *testing.T) {
	out, err := runCLI(t, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, "dev\n", out)
}

func TestVersionCommand_JSONOutput(t *testing.T) {
	out, err := runCLI(t, "version", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"version"`)
	assert.Contains(t, out, `"go_version"`)
}
