// Package scaffold materializes a new Python data-project skeleton:
// directories, a pyproject.toml dependency manifest, a .mise.toml tool-version
// pin, and an example papermill notebook.
package scaffold

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"aftr/internal/logger"
)

// pyproject mirrors the generated pyproject.toml layout.
type pyproject struct {
	Project projectMeta `toml:"project"`
	Tool    toolSection `toml:"tool"`
}

type projectMeta struct {
	Name           string   `toml:"name"`
	Version        string   `toml:"version"`
	Description    string   `toml:"description"`
	RequiresPython string   `toml:"requires-python"`
	Dependencies   []string `toml:"dependencies"`
}

type toolSection struct {
	UV uvSection `toml:"uv"`
}

type uvSection struct {
	DevDependencies []string `toml:"dev-dependencies"`
}

// miseConfig mirrors the generated .mise.toml.
type miseConfig struct {
	Tools map[string]string `toml:"tools"`
}

// ModuleName converts a project name into its Python source module name:
// hyphens become underscores. Only the module directory uses this form; the
// project directory keeps the literal name.
func ModuleName(name string) string {
	return strings.ReplaceAll(name, "-", "_")
}

// Init scaffolds a new project directory under parentDir. The target must
// not exist, or must be an empty directory; anything else is a fatal error
// and nothing is written.
func Init(name, parentDir string) error {
	if name == "" {
		return fmt.Errorf("project name must not be empty")
	}
	target := filepath.Join(parentDir, name)

	if info, err := os.Stat(target); err == nil {
		if !info.IsDir() {
			return fmt.Errorf("target %s already exists and is not a directory", target)
		}
		entries, err := os.ReadDir(target)
		if err != nil {
			return fmt.Errorf("failed to inspect target %s: %w", target, err)
		}
		if len(entries) > 0 {
			return fmt.Errorf("directory %s already exists and is not empty", target)
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to inspect target %s: %w", target, err)
	}

	module := ModuleName(name)
	logger.Info("[INFO] Creating project %s\n", name)

	for _, dir := range []string{
		target,
		filepath.Join(target, "data"),
		filepath.Join(target, "notebooks"),
		filepath.Join(target, "outputs"),
		filepath.Join(target, "src", module),
	} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	if err := writePyproject(target, name); err != nil {
		return err
	}
	logger.Info("[INFO] Created pyproject.toml\n")

	if err := writeMiseConfig(target); err != nil {
		return err
	}
	logger.Info("[INFO] Created .mise.toml\n")

	if err := writeFile(filepath.Join(target, ".gitignore"), gitignoreContent); err != nil {
		return err
	}
	logger.Info("[INFO] Created .gitignore\n")

	initPy := fmt.Sprintf("\"\"\"%s - A data analysis project.\"\"\"\n\n__version__ = \"0.1.0\"\n", name)
	if err := writeFile(filepath.Join(target, "src", module, "__init__.py"), initPy); err != nil {
		return err
	}
	logger.Info("[INFO] Created src/%s/__init__.py\n", module)

	notebook, err := exampleNotebook(name)
	if err != nil {
		return err
	}
	if err := writeFile(filepath.Join(target, "notebooks", "example.ipynb"), notebook); err != nil {
		return err
	}
	logger.Info("[INFO] Created notebooks/example.ipynb\n")

	if err := writeFile(filepath.Join(target, "README.md"), readmeContent(name, module)); err != nil {
		return err
	}
	logger.Info("[INFO] Created README.md\n")

	logger.Info("[INFO] Project created successfully. Next steps:\n")
	logger.Info("[INFO]   cd %s\n", name)
	logger.Info("[INFO]   uv sync\n")
	logger.Info("[INFO]   uv run jupyter lab\n")
	return nil
}

func writePyproject(target, name string) error {
	cfg := pyproject{
		Project: projectMeta{
			Name:           name,
			Version:        "0.1.0",
			Description:    "",
			RequiresPython: ">=3.11",
			Dependencies: []string{
				"pandas>=2.0.0",
				"polars>=1.0.0",
				"jupyter>=1.0.0",
				"papermill>=2.6.0",
			},
		},
		Tool: toolSection{
			UV: uvSection{
				DevDependencies: []string{
					"pytest>=8.0.0",
					"ruff>=0.1.0",
				},
			},
		},
	}
	return writeTOML(filepath.Join(target, "pyproject.toml"), cfg)
}

func writeMiseConfig(target string) error {
	cfg := miseConfig{
		Tools: map[string]string{
			"python": "3.12",
			"uv":     "latest",
		},
	}
	return writeTOML(filepath.Join(target, ".mise.toml"), cfg)
}

func writeTOML(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(v); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func writeFile(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// notebookCell and notebookDoc model just enough of the nbformat v4 schema
// for the generated example notebook.
type notebookCell struct {
	CellType       string         `json:"cell_type"`
	ExecutionCount *int           `json:"execution_count,omitempty"`
	Metadata       map[string]any `json:"metadata"`
	Outputs        []any          `json:"outputs,omitempty"`
	Source         []string       `json:"source"`
}

type notebookDoc struct {
	Cells         []notebookCell `json:"cells"`
	Metadata      map[string]any `json:"metadata"`
	NBFormat      int            `json:"nbformat"`
	NBFormatMinor int            `json:"nbformat_minor"`
}

// exampleNotebook renders the starter notebook with a papermill-tagged
// parameters cell.
func exampleNotebook(name string) (string, error) {
	doc := notebookDoc{
		Cells: []notebookCell{
			{
				CellType: "markdown",
				Metadata: map[string]any{},
				Source:   []string{"# " + name + "\n", "\n", "Example notebook for papermill."},
			},
			{
				CellType: "code",
				Metadata: map[string]any{"tags": []string{"parameters"}},
				Outputs:  []any{},
				Source: []string{
					"# Parameters (tagged for papermill)\n",
					"input_path = \"data/input.csv\"\n",
					"output_path = \"outputs/result.parquet\"",
				},
			},
			{
				CellType: "code",
				Metadata: map[string]any{},
				Outputs:  []any{},
				Source:   []string{"import pandas as pd\n", "import polars as pl"},
			},
		},
		Metadata: map[string]any{
			"kernelspec": map[string]any{
				"display_name": "Python 3",
				"language":     "python",
				"name":         "python3",
			},
		},
		NBFormat:      4,
		NBFormatMinor: 4,
	}
	raw, err := json.MarshalIndent(doc, "", " ")
	if err != nil {
		return "", fmt.Errorf("failed to render example notebook: %w", err)
	}
	return string(raw) + "\n", nil
}

const gitignoreContent = `# Python
__pycache__/
*.py[cod]
*$py.class
.venv/
.env

# Jupyter
.ipynb_checkpoints/
*.ipynb_meta

# Data
data/
outputs/
*.csv
*.parquet
*.xlsx

# IDE
.vscode/
.idea/

# OS
.DS_Store
Thumbs.db
`

func readmeContent(name, module string) string {
	return fmt.Sprintf(`# %s

A data analysis project scaffolded with aftr.

## Setup

`+"```bash"+`
# Install dependencies with UV
uv sync

# Activate the virtual environment
source .venv/bin/activate  # macOS/Linux
.venv\Scripts\activate     # Windows
`+"```"+`

## Running Notebooks

`+"```bash"+`
# Run a notebook with papermill
uv run papermill notebooks/example.ipynb outputs/example_output.ipynb
`+"```"+`

## Project Structure

`+"```"+`
%s/
├── data/           # Input data (gitignored)
├── notebooks/      # Jupyter notebooks
├── outputs/        # Output files (gitignored)
├── src/%s/  # Python source code
├── .mise.toml      # mise tool versions
└── pyproject.toml  # Project config
`+"```"+`
`, name, name, module)
}
