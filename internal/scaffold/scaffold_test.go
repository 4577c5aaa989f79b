package scaffold

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aftr/internal/logger"
)

func TestMain(m *testing.M) {
	logger.Init(false)
	os.Exit(m.Run())
}

func TestModuleName(t *testing.T) {
	assert.Equal(t, "my_project", ModuleName("my-project"))
	assert.Equal(t, "plain", ModuleName("plain"))
	assert.Equal(t, "a_b_c", ModuleName("a-b-c"))
}

func TestInitCreatesSkeleton(t *testing.T) {
	parent := t.TempDir()
	require.NoError(t, Init("my-project", parent))

	target := filepath.Join(parent, "my-project")

	// Top-level directory keeps the literal name; only the source module
	// directory is underscored.
	for _, dir := range []string{
		"data",
		"notebooks",
		"outputs",
		filepath.Join("src", "my_project"),
	} {
		info, err := os.Stat(filepath.Join(target, dir))
		require.NoError(t, err, "expected directory %s", dir)
		assert.True(t, info.IsDir())
	}

	var py pyproject
	_, err := toml.DecodeFile(filepath.Join(target, "pyproject.toml"), &py)
	require.NoError(t, err)
	assert.Equal(t, "my-project", py.Project.Name)
	assert.Equal(t, "0.1.0", py.Project.Version)
	assert.Equal(t, ">=3.11", py.Project.RequiresPython)
	assert.Contains(t, py.Project.Dependencies, "papermill>=2.6.0")
	assert.Contains(t, py.Tool.UV.DevDependencies, "ruff>=0.1.0")

	var mise miseConfig
	_, err = toml.DecodeFile(filepath.Join(target, ".mise.toml"), &mise)
	require.NoError(t, err)
	assert.Equal(t, "3.12", mise.Tools["python"])
	assert.Equal(t, "latest", mise.Tools["uv"])

	initPy, err := os.ReadFile(filepath.Join(target, "src", "my_project", "__init__.py"))
	require.NoError(t, err)
	assert.Contains(t, string(initPy), `__version__ = "0.1.0"`)

	gitignore, err := os.ReadFile(filepath.Join(target, ".gitignore"))
	require.NoError(t, err)
	assert.Contains(t, string(gitignore), ".venv/")

	readme, err := os.ReadFile(filepath.Join(target, "README.md"))
	require.NoError(t, err)
	assert.Contains(t, string(readme), "# my-project")
	assert.Contains(t, string(readme), "src/my_project/")
}

func TestInitNotebookIsValidAndTagged(t *testing.T) {
	parent := t.TempDir()
	require.NoError(t, Init("nb-check", parent))

	raw, err := os.ReadFile(filepath.Join(parent, "nb-check", "notebooks", "example.ipynb"))
	require.NoError(t, err)

	var doc notebookDoc
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, 4, doc.NBFormat)
	require.Len(t, doc.Cells, 3)

	// The second cell carries the papermill parameters tag.
	tags, ok := doc.Cells[1].Metadata["tags"].([]any)
	require.True(t, ok, "parameters cell should carry tags")
	assert.Contains(t, tags, "parameters")
}

func TestInitRejectsNonEmptyDir(t *testing.T) {
	parent := t.TempDir()
	target := filepath.Join(parent, "existing-dir")
	require.NoError(t, os.MkdirAll(target, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(target, "keep.txt"), []byte("x"), 0644))

	err := Init("existing-dir", parent)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not empty")

	// Nothing was created.
	entries, err := os.ReadDir(target)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "keep.txt", entries[0].Name())
}

func TestInitAllowsEmptyExistingDir(t *testing.T) {
	parent := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(parent, "fresh"), 0755))

	require.NoError(t, Init("fresh", parent))
	_, err := os.Stat(filepath.Join(parent, "fresh", "pyproject.toml"))
	assert.NoError(t, err)
}

func TestInitRejectsEmptyName(t *testing.T) {
	require.Error(t, Init("", t.TempDir()))
}
