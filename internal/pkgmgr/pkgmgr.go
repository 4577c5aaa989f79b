// Package pkgmgr abstracts the platform package manager (Scoop on Windows,
// Homebrew on macOS). The manager owns all installed-package state; this
// package only queries and mutates it through the manager's own CLI, never
// caching presence between calls.
package pkgmgr

import (
	"context"
	"fmt"
	"strings"

	"aftr/internal/exec"
	"aftr/internal/logger"
)

// Manager drives one platform package manager through a command runner.
type Manager struct {
	// Name is the manager binary: "scoop" or "brew".
	Name   string
	runner exec.Runner
}

// ForOS selects the package manager for a GOOS value.
func ForOS(goos string, runner exec.Runner) (*Manager, error) {
	switch goos {
	case "windows":
		return &Manager{Name: "scoop", runner: runner}, nil
	case "darwin":
		return &Manager{Name: "brew", runner: runner}, nil
	default:
		return nil, fmt.Errorf("no supported package manager for OS %q", goos)
	}
}

// Installed reports whether the manager binary itself is on the PATH.
func (m *Manager) Installed() bool {
	_, err := m.runner.LookPath(m.Name)
	return err == nil
}

// Bootstrap installs the package manager itself using the vendor's
// documented one-liner.
func (m *Manager) Bootstrap(ctx context.Context) error {
	var name string
	var args []string
	switch m.Name {
	case "scoop":
		name = "powershell"
		args = []string{"-NoProfile", "-Command",
			"Set-ExecutionPolicy RemoteSigned -Scope CurrentUser; irm get.scoop.sh | iex"}
	case "brew":
		name = "/bin/bash"
		args = []string{"-c",
			`NONINTERACTIVE=1 /bin/bash -c "$(curl -fsSL https://raw.githubusercontent.com/Homebrew/install/HEAD/install.sh)"`}
	default:
		return fmt.Errorf("unknown package manager %q", m.Name)
	}

	logger.Info("[INFO] Installing %s...\n", m.Name)
	res, err := m.runner.Run(ctx, name, args...)
	if err != nil {
		return fmt.Errorf("failed to run %s installer: %w", m.Name, err)
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("%s installer exited with %d:\n%s", m.Name, res.ExitCode, res.Output)
	}
	return nil
}

// HasBucket reports whether a bucket/tap is already registered.
func (m *Manager) HasBucket(ctx context.Context, bucket string) bool {
	var res exec.Result
	var err error
	switch m.Name {
	case "scoop":
		res, err = m.runner.Run(ctx, "scoop", "bucket", "list")
	case "brew":
		res, err = m.runner.Run(ctx, "brew", "tap")
	}
	if err != nil || res.ExitCode != 0 {
		logger.Debug("[DEBUG] Bucket listing failed for %s: %v\n", m.Name, err)
		return false
	}
	// Bucket names match on the short name: "extras" matches a
	// "extras https://..." listing line, "homebrew/cask" a tap line.
	for _, line := range strings.Split(res.Output, "\n") {
		fields := strings.Fields(line)
		if len(fields) > 0 && fields[0] == bucket {
			return true
		}
	}
	return false
}

// AddBucket registers a bucket (scoop) or tap (brew).
func (m *Manager) AddBucket(ctx context.Context, bucket string) error {
	var res exec.Result
	var err error
	switch m.Name {
	case "scoop":
		res, err = m.runner.Run(ctx, "scoop", "bucket", "add", bucket)
	case "brew":
		res, err = m.runner.Run(ctx, "brew", "tap", bucket)
	}
	if err != nil {
		return fmt.Errorf("failed to add bucket %s: %w", bucket, err)
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("failed to add bucket %s:\n%s", bucket, res.Output)
	}
	return nil
}

// HasPackage queries the manager for a package's presence. This is the
// idempotency oracle for baseline packages: it is asked immediately before
// every install decision.
func (m *Manager) HasPackage(ctx context.Context, pkg string) bool {
	var res exec.Result
	var err error
	switch m.Name {
	case "scoop":
		// `scoop list <query>` exits 0 even on no match, so check the output
		// for the package name.
		res, err = m.runner.Run(ctx, "scoop", "list", pkg)
		if err != nil || res.ExitCode != 0 {
			return false
		}
		for _, line := range strings.Split(res.Output, "\n") {
			fields := strings.Fields(line)
			if len(fields) > 0 && fields[0] == pkg {
				return true
			}
		}
		return false
	case "brew":
		// `brew list <formula>` exits non-zero when the formula is absent.
		res, err = m.runner.Run(ctx, "brew", "list", pkg)
		return err == nil && res.ExitCode == 0
	}
	return false
}

// Install installs a single package. Failures are returned to the caller,
// which logs a warning and moves on; one broken package never aborts a run.
func (m *Manager) Install(ctx context.Context, pkg string) error {
	res, err := m.runner.Run(ctx, m.Name, "install", pkg)
	if err != nil {
		return fmt.Errorf("failed to install %s: %w", pkg, err)
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("failed to install %s:\n%s", pkg, res.Output)
	}
	return nil
}

// ListInstalled returns the manager's own installed-package listing for the
// end-of-run summary.
func (m *Manager) ListInstalled(ctx context.Context) (string, error) {
	res, err := m.runner.Run(ctx, m.Name, "list")
	if err != nil {
		return "", err
	}
	if res.ExitCode != 0 {
		return "", fmt.Errorf("%s list exited with %d", m.Name, res.ExitCode)
	}
	return res.Output, nil
}
