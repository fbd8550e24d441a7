package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/leitbox/internal/deck"
)

// newTestArgs returns the global flags pointing at a fresh database and an
// empty settings file.
func newTestArgs(t *testing.T) []string {
	t.Helper()
	dir := t.TempDir()
	settings := filepath.Join(dir, "settings.yaml")
	require.NoError(t, os.WriteFile(settings, nil, 0o644))
	return []string{
		"--db", filepath.Join(dir, "leitbox.db"),
		"--settings", settings,
		"--log-level", "error",
	}
}

func execute(t *testing.T, global []string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append(append([]string{}, global...), args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCategoryCommands(t *testing.T) {
	g := newTestArgs(t)

	out, err := execute(t, g, "category", "add", "german/verbs")
	require.NoError(t, err)
	assert.Contains(t, out, "created german/verbs")

	_, err = execute(t, g, "category", "add", "german/nouns")
	require.NoError(t, err)

	out, err = execute(t, g, "category", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "german (0)")
	assert.Contains(t, out, "verbs (0)")
	assert.Contains(t, out, "nouns (0)")

	out, err = execute(t, g, "category", "rename", "german/nouns", "things")
	require.NoError(t, err)
	assert.Contains(t, out, "renamed to german/things")

	_, err = execute(t, g, "category", "rename", "german/things", "verbs")
	assert.Error(t, err, "sibling names are unique")

	_, err = execute(t, g, "category", "rename", "german/things", "a/b")
	assert.ErrorIs(t, err, deck.ErrInvalidName)

	out, err = execute(t, g, "category", "remove", "german/things")
	require.NoError(t, err)
	assert.Contains(t, out, "removed german/things")

	out, err = execute(t, g, "category", "list")
	require.NoError(t, err)
	assert.NotContains(t, out, "things")
}

func TestCardCommands(t *testing.T) {
	g := newTestArgs(t)

	_, err := execute(t, g, "card", "add", "german", "--front", "gehen", "--back", "to go")
	assert.ErrorIs(t, err, errCategoryNotFound)

	_, err = execute(t, g, "category", "add", "german")
	require.NoError(t, err)

	out, err := execute(t, g, "card", "add", "german", "--front", "gehen", "--back", "to go")
	require.NoError(t, err)
	assert.Contains(t, out, "added card")

	out, err = execute(t, g, "card", "list", ".")
	require.NoError(t, err)
	assert.Contains(t, out, "gehen")
	assert.Contains(t, out, "to go")
	assert.Contains(t, out, "new")

	out, err = execute(t, g, "stats", "german")
	require.NoError(t, err)
	assert.Contains(t, out, "german: 1 cards")
	assert.Contains(t, out, "unlearned: 1")

	out, err = execute(t, g, "reset", ".")
	require.NoError(t, err)
	assert.Contains(t, out, "reset 1 cards")
}

func TestHistoryCommand_Empty(t *testing.T) {
	out, err := execute(t, newTestArgs(t), "history")
	require.NoError(t, err)
	assert.Contains(t, out, "no sessions yet")
}

func TestSettingsCommands(t *testing.T) {
	g := newTestArgs(t)

	out, err := execute(t, g, "settings", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "preset: linear")

	_, err = execute(t, g, "settings", "init")
	assert.Error(t, err, "existing file is kept")

	out, err = execute(t, g, "settings", "init", "--force")
	require.NoError(t, err)
	assert.Contains(t, out, "wrote")
}

func TestSettings_ExplicitMissingFile(t *testing.T) {
	g := newTestArgs(t)
	g[3] = filepath.Join(t.TempDir(), "absent.yaml")
	_, err := execute(t, g, "settings", "show")
	assert.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, nil, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "leitbox (devel)")
}
