// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingDirectory(t *testing.T) {
	got, err := Load(filepath.Join(t.TempDir(), "no-such-dir"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLoadReadsKeyFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "google-books-api-key"), []byte("abc123\n"), 0o600))

	got, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"google-books-api-key": "abc123"}, got)
}

func TestLoadSkipsEmptyHiddenAndNested(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "empty-key"), []byte("  \n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gitignore"), []byte("*"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "subdir"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "real-key"), []byte("value"), 0o600))

	got, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"real-key": "value"}, got)
}

func TestLoadTrimsWhitespace(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "key"), []byte("\n  padded-value  \n\n"), 0o600))

	got, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "padded-value", got["key"])
}
