package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTag_AttachListDetach(t *testing.T) {
	setupEnv(t)

	_, err := runCLI(t, "add", "snippet", "-c", "body")
	require.NoError(t, err)

	out, err := runCLI(t, "tag", "1", "K8S", "  ops  ")
	require.NoError(t, err)
	assert.Contains(t, out, "k8s, ops")

	out, err = runCLI(t, "tags")
	require.NoError(t, err)
	assert.Contains(t, out, "k8s")
	assert.Contains(t, out, "ops")

	_, err = runCLI(t, "untag", "1", "k8s")
	require.NoError(t, err)

	out, err = runCLI(t, "list")
	require.NoError(t, err)
	assert.NotContains(t, out, "k8s")
	assert.Contains(t, out, "ops")
}

func TestTag_MissingSnippet(t *testing.T) {
	setupEnv(t)

	_, err := runCLI(t, "tag", "9", "name")
	assert.Error(t, err)
}

func TestUntag_AbsentTagIsNoOp(t *testing.T) {
	setupEnv(t)

	_, err := runCLI(t, "add", "snippet", "-c", "body")
	require.NoError(t, err)

	_, err = runCLI(t, "untag", "1", "nosuchtag")
	assert.NoError(t, err)
}

func TestLanguages_ListsDistinct(t *testing.T) {
	setupEnv(t)

	_, err := runCLI(t, "add", "a", "-c", "x", "-l", "bash")
	require.NoError(t, err)
	_, err = runCLI(t, "add", "b", "-c", "y", "-l", "bash")
	require.NoError(t, err)
	_, err = runCLI(t, "add", "c", "-c", "z")
	require.NoError(t, err)

	out, err := runCLI(t, "languages")
	require.NoError(t, err)
	assert.Contains(t, out, "bash")
	assert.Contains(t, out, "plaintext")
}
