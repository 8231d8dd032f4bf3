package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch_LexicalFindsSnippet(t *testing.T) {
	setupEnv(t)

	_, err := runCLI(t, "add", "drain a node", "-c", "kubectl drain node-1", "-l", "bash")
	require.NoError(t, err)
	_, err = runCLI(t, "add", "unrelated", "-c", "SELECT * FROM users", "-l", "sql")
	require.NoError(t, err)

	out, err := runCLI(t, "search", "drain")
	require.NoError(t, err)
	assert.Contains(t, out, "drain a node")
	assert.NotContains(t, out, "unrelated")
}

func TestSearch_LanguageFacet(t *testing.T) {
	setupEnv(t)

	_, err := runCLI(t, "add", "bash users", "-c", "cut -d: /etc/passwd users", "-l", "bash")
	require.NoError(t, err)
	_, err = runCLI(t, "add", "sql users", "-c", "SELECT * FROM users", "-l", "sql")
	require.NoError(t, err)

	out, err := runCLI(t, "search", "users", "--language", "sql")
	require.NoError(t, err)
	assert.Contains(t, out, "sql users")
	assert.NotContains(t, out, "bash users")
}

func TestSearch_NoResults(t *testing.T) {
	setupEnv(t)

	out, err := runCLI(t, "search", "nothinghere")
	require.NoError(t, err)
	assert.Contains(t, out, "no results")
}

func TestSearch_JSONOutput(t *testing.T) {
	setupEnv(t)

	_, err := runCLI(t, "add", "jq filter", "-c", ".items[] | .name", "-l", "bash")
	require.NoError(t, err)

	out, err := runCLI(t, "search", "filter", "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"title": "jq filter"`)
	assert.Contains(t, out, `"usage_count"`)
}

func TestSearch_SemanticFallsBackWhenDisabled(t *testing.T) {
	// With the provider disabled, --semantic must silently produce the
	// lexical ranking rather than an error.
	setupEnv(t)

	_, err := runCLI(t, "add", "rotate credentials", "-c", "aws iam rotate", "-l", "bash")
	require.NoError(t, err)

	out, err := runCLI(t, "search", "rotate", "--semantic")
	require.NoError(t, err)
	assert.Contains(t, out, "rotate credentials")
}
