package profile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testMarker = "# aftr: mise activation"
	testBlock  = "# aftr: mise activation\neval \"$(mise activate zsh)\""
)

func TestEnsureBlockCreatesMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", ".zshrc")

	added, err := EnsureBlock(path, testMarker, testBlock)
	require.NoError(t, err)
	assert.True(t, added)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, testBlock+"\n", string(content))
}

func TestEnsureBlockAppendsOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".zshrc")
	require.NoError(t, os.WriteFile(path, []byte("export EDITOR=vim\n"), 0644))

	added, err := EnsureBlock(path, testMarker, testBlock)
	require.NoError(t, err)
	assert.True(t, added)

	// Second run is a no-op: the marker already appears.
	added, err = EnsureBlock(path, testMarker, testBlock)
	require.NoError(t, err)
	assert.False(t, added)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(content), testMarker))
	assert.True(t, strings.HasPrefix(string(content), "export EDITOR=vim\n"))
}

func TestEnsureBlockSkipsWhenMarkerPresent(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".bashrc")
	original := "something\n" + testMarker + " custom variant\n"
	require.NoError(t, os.WriteFile(path, []byte(original), 0644))

	added, err := EnsureBlock(path, testMarker, testBlock)
	require.NoError(t, err)
	assert.False(t, added)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, original, string(content))
}

func TestEnsureBlockHandlesMissingTrailingNewline(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".zshrc")
	require.NoError(t, os.WriteFile(path, []byte("alias ll='ls -al'"), 0644))

	added, err := EnsureBlock(path, testMarker, testBlock)
	require.NoError(t, err)
	assert.True(t, added)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "alias ll='ls -al'\n"+testBlock+"\n", string(content))
}
