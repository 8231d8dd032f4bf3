package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportImport_AcrossStores(t *testing.T) {
	// Given: a populated library exported to a file
	dir := t.TempDir()
	exportPath := filepath.Join(dir, "library.json")

	setupEnv(t)
	_, err := runCLI(t, "add", "kubectl drain", "-c", "kubectl drain node-1", "-l", "bash", "-t", "k8s")
	require.NoError(t, err)
	_, err = runCLI(t, "add", "select users", "-c", "SELECT * FROM users", "-l", "sql")
	require.NoError(t, err)

	out, err := runCLI(t, "export", "-o", exportPath)
	require.NoError(t, err)
	assert.Contains(t, out, "exported to")

	// When: importing into a brand new store
	t.Setenv("SNIPSTASH_STORE_PATH", filepath.Join(dir, "other.db"))
	out, err = runCLI(t, "import", exportPath)
	require.NoError(t, err)
	assert.Contains(t, out, "imported 2 snippets")

	// Then: the new store has the snippets with tags intact
	out, err = runCLI(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "kubectl drain")
	assert.Contains(t, out, "k8s")
	assert.Contains(t, out, "select users")
}

func TestExport_ToStdout(t *testing.T) {
	setupEnv(t)

	_, err := runCLI(t, "add", "snippet", "-c", "body")
	require.NoError(t, err)

	out, err := runCLI(t, "export")
	require.NoError(t, err)
	assert.Contains(t, out, `"version": 1`)
	assert.Contains(t, out, `"snippet"`)
}

func TestImport_ReplaceMode(t *testing.T) {
	setupEnv(t)

	_, err := runCLI(t, "add", "keeper", "-c", "x")
	require.NoError(t, err)

	doc := `{"version":1,"exportedAt":"2026-01-02T03:04:05Z","snippets":[
		{"title":"imported","content":"c","language":"","isFavorite":false,"tags":[],
		 "createdAt":"2025-05-01T00:00:00Z","updatedAt":"2025-05-01T00:00:00Z"}]}`
	path := filepath.Join(t.TempDir(), "doc.json")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	_, err = runCLI(t, "import", path, "--replace")
	require.NoError(t, err)

	out, err := runCLI(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "imported")
	assert.NotContains(t, out, "keeper")
}

func TestImport_UnsupportedVersion(t *testing.T) {
	setupEnv(t)

	path := filepath.Join(t.TempDir(), "doc.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version":2,"snippets":[]}`), 0o644))

	out, err := runCLI(t, "import", path)
	require.Error(t, err)
	assert.Contains(t, out+err.Error(), "unsupported")
}

func TestImport_PartialFailureReported(t *testing.T) {
	setupEnv(t)

	doc := `{"version":1,"exportedAt":"2026-01-02T03:04:05Z","snippets":[
		{"title":"good","content":"c","createdAt":"2025-05-01T00:00:00Z","updatedAt":"2025-05-01T00:00:00Z"},
		{"title":"","content":"missing title","createdAt":"2025-05-01T00:00:00Z","updatedAt":"2025-05-01T00:00:00Z"}]}`
	path := filepath.Join(t.TempDir(), "doc.json")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	out, err := runCLI(t, "import", path)
	require.NoError(t, err)
	assert.Contains(t, out, "skipped 1")

	out, err = runCLI(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "good")
}
