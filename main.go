package main

import (
	"aftr/cmd" // Import the cmd package which contains the CLI commands and execution logic
)

// main is the program entry point.
// It delegates to cmd.Execute() which handles command line argument parsing and execution.
//
// This design cleanly separates the CLI interface (cmd package) from main,
// allowing easier testing, extension, and reuse of the CLI commands.
//
// The aftr project is a developer environment bootstrapper and data-project scaffolder that:
//   - Reads a YAML package manifest describing per-platform baseline packages,
//     package-manager buckets/taps, mise-managed tool versions, and bun/uv global packages
//   - Bootstraps the platform package manager (Scoop on Windows, Homebrew on macOS),
//     registers required buckets/taps, and installs the baseline package set including
//     the bun runtime needed by the provisioning stage
//   - Provisions version-managed tools through mise and global CLI packages through bun
//     and uv, configures shell startup profiles idempotently, and hands off to an
//     interactive setup step for AI CLI selection and SSH key generation
//   - Scaffolds new Python data projects (directories, pyproject.toml, .mise.toml,
//     an example papermill notebook) via the `init` command
//
// Error handling strategy:
//   - A missing or unparsable manifest is fatal, as is a scaffold target that already
//     holds files: these abort with a clear message and a non-zero exit
//   - Individual package or tool install failures are logged as warnings and never
//     abort the run, so one broken package cannot block the rest of the environment
//   - Summary reporting failures degrade to placeholders instead of errors
//
// Integration points:
//   - All installs shell out to the external package managers (scoop, brew, mise, bun,
//     uv); this tool never places binaries itself and never caches installed-state
//     across steps - presence is re-queried from the owning manager before every mutation
//   - Shell profiles (PowerShell profile, ~/.zshrc, ~/.bashrc) receive a marker-guarded
//     mise activation block, appended at most once across any number of runs
//   - Remote-execution mode stages the manifest (or a compressed config bundle) into a
//     temporary writable directory before running, for environments that cannot execute
//     from their mapped source location
func main() {
	cmd.Execute()
}
