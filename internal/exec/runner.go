// Package exec provides a stub-friendly interface for running the external
// package managers (scoop, brew, mise, bun, uv, ssh-keygen) this tool shells
// out to. Every install and presence query goes through a Runner so tests can
// substitute a recording stub and assert exactly which commands were issued.
package exec

import (
	"context"
	"os/exec"
)

// Result holds the outcome of a command execution. Output carries combined
// stdout and stderr, matching how the external managers mix progress and
// error text on both streams.
type Result struct {
	Output   string
	ExitCode int
}

// Runner is the interface for running external commands and probing the PATH.
type Runner interface {
	// Run executes a command and blocks until it exits. It returns a Result
	// with ExitCode set whenever the process actually ran (even non-zero),
	// and an error only for execution failures (binary not found, context
	// canceled).
	Run(ctx context.Context, name string, args ...string) (Result, error)

	// LookPath reports where name resolves on the execution PATH.
	// Used as the presence query for command-named global packages.
	LookPath(name string) (string, error)
}

// SystemRunner is the production Runner backed by os/exec.
type SystemRunner struct{}

// NewSystemRunner creates a new SystemRunner.
func NewSystemRunner() *SystemRunner {
	return &SystemRunner{}
}

// Run executes the command and captures combined output.
func (r *SystemRunner) Run(ctx context.Context, name string, args ...string) (Result, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.CombinedOutput()

	result := Result{Output: string(out)}
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			// The process ran and exited non-zero; that is a result, not an
			// execution failure.
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		return result, err
	}
	return result, nil
}

// LookPath resolves name against the current PATH.
func (r *SystemRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}
