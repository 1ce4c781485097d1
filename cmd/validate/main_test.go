package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/jwebster45206/guining-hotel/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_BuiltIn(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--verbose"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "Validating built-in content...")
	assert.Contains(t, out.String(), "room 203")
	assert.Contains(t, out.String(), "(starting)")
	assert.Contains(t, out.String(), "Content is valid!")
}

// copyData writes the built-in content to a temp dir so a test can break it.
func copyData(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range []string{"clues.json", "truths.json", "rooms.json", "dialogue.json"} {
		b, err := data.FS.ReadFile(name)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), b, 0o644))
	}
	return dir
}

func TestValidate_Directory(t *testing.T) {
	dir := copyData(t)
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{dir})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "Content is valid!")
}

func TestValidate_BrokenContent(t *testing.T) {
	dir := copyData(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rooms.json"), []byte(`{"rooms": []}`), 0o644))

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{dir})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestValidate_MissingDirectory(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{filepath.Join(t.TempDir(), "nope")})
	assert.Error(t, cmd.Execute())
}

func TestValidate_TooManyArgs(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"a", "b"})
	assert.Error(t, cmd.Execute())
}
