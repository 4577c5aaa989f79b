// Package provision implements the cross-platform provisioning stage: mise
// tool installation, bun/uv global packages, shell-profile configuration,
// the interactive handoff, and the end-of-run summary. Every sub-step is
// independently idempotent and independently failure-tolerant, so one broken
// step never blocks the rest.
package provision

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"

	"aftr/internal/exec"
	"aftr/internal/logger"
	"aftr/internal/manifest"
	"aftr/internal/pkgmgr"
	"aftr/internal/profile"
	"aftr/internal/prompt"
	"aftr/internal/setup"
)

// Options configures a provisioning run.
type Options struct {
	ManifestPath   string
	NonInteractive bool
	Runner         exec.Runner
	Prompter       prompt.Prompter
	HomeDir        string
	// OS is a GOOS value; defaults to runtime.GOOS. Tests set it explicitly.
	OS string
	// SkipHandoff suppresses the interactive handoff step. Used when setup
	// is run standalone afterwards.
	SkipHandoff bool
}

// Run executes the provisioning stage. Only a missing or unparsable
// manifest is fatal; everything else degrades to warnings.
func Run(ctx context.Context, opts Options) error {
	if opts.Runner == nil {
		opts.Runner = exec.NewSystemRunner()
	}
	if opts.OS == "" {
		opts.OS = runtime.GOOS
	}
	if opts.HomeDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to resolve home directory: %w", err)
		}
		opts.HomeDir = home
	}

	m, err := manifest.Load(opts.ManifestPath)
	if err != nil {
		return err
	}

	syncMiseTools(ctx, opts.Runner, m.MiseTools)
	syncGlobalPackages(ctx, opts.Runner, "bun", m.BunGlobal)
	syncGlobalPackages(ctx, opts.Runner, "uv", m.UvTools)
	configureProfiles(opts.OS, opts.HomeDir)

	if !opts.SkipHandoff {
		if err := setup.Run(ctx, setup.Options{
			NonInteractive: opts.NonInteractive,
			Runner:         opts.Runner,
			Prompter:       opts.Prompter,
			HomeDir:        opts.HomeDir,
		}); err != nil {
			logger.Warn("[WARN] Setup handoff failed: %v\n", err)
		}
	}

	printSummary(ctx, opts)
	return nil
}

// syncMiseTools installs version-managed tools through mise. mise's own
// installed-listing is the idempotency oracle; it is queried per tool,
// immediately before the install decision.
func syncMiseTools(ctx context.Context, runner exec.Runner, specs []string) {
	if len(specs) == 0 {
		return
	}
	logger.Info("[INFO] Syncing mise tools...\n")

	for _, raw := range specs {
		tool, err := manifest.ParseToolSpec(raw)
		if err != nil {
			logger.Warn("[WARN] Skipping %s: %v\n", raw, err)
			continue
		}

		if miseToolInstalled(ctx, runner, tool.Name) {
			logger.Info("[INFO] %s is already installed. Skipping.\n", tool.Name)
			continue
		}

		logger.Info("[INFO] Installing %s...\n", tool)
		res, err := runner.Run(ctx, "mise", "install", tool.String())
		if err != nil || res.ExitCode != 0 {
			logger.Warn("[WARN] Failed to install %s: %v\n%s\n", tool, err, res.Output)
			continue
		}

		// Activation makes the version the global default. A failure here
		// leaves the tool installed but inactive, which is recoverable by
		// hand, so it is a warning rather than an error.
		res, err = runner.Run(ctx, "mise", "use", "-g", tool.String())
		if err != nil || res.ExitCode != 0 {
			logger.Warn("[WARN] Installed %s but failed to activate it. Run manually: mise use -g %s\n", tool, tool)
			continue
		}
		logger.Info("[INFO] Installed and activated %s\n", tool)
	}
}

// miseToolInstalled asks mise whether any version of the tool is installed.
func miseToolInstalled(ctx context.Context, runner exec.Runner, name string) bool {
	res, err := runner.Run(ctx, "mise", "ls", "--installed", name)
	if err != nil || res.ExitCode != 0 {
		return false
	}
	return strings.TrimSpace(res.Output) != ""
}

// syncGlobalPackages installs globally-scoped packages through bun or uv.
// Presence is a PATH probe of the derived command name.
func syncGlobalPackages(ctx context.Context, runner exec.Runner, tool string, pkgs []string) {
	if len(pkgs) == 0 {
		return
	}
	logger.Info("[INFO] Syncing %s global packages...\n", tool)

	for _, pkg := range pkgs {
		cmd := manifest.CommandName(pkg)
		if _, err := runner.LookPath(cmd); err == nil {
			logger.Info("[INFO] %s is already on PATH. Skipping %s.\n", cmd, pkg)
			continue
		}

		logger.Info("[INFO] Installing %s...\n", pkg)
		var res exec.Result
		var err error
		switch tool {
		case "bun":
			res, err = runner.Run(ctx, "bun", "install", "-g", pkg)
		case "uv":
			res, err = runner.Run(ctx, "uv", "tool", "install", pkg)
		}
		if err != nil || res.ExitCode != 0 {
			logger.Warn("[WARN] Failed to install %s: %v\n%s\n", pkg, err, res.Output)
			continue
		}
		logger.Info("[INFO] Installed %s\n", pkg)
	}
}

// activation blocks appended to shell profiles, guarded by Marker. The
// marker line is part of the block so a successful append also plants the
// guard.
const (
	Marker = "# aftr: mise activation"

	posixBlock = Marker + "\n" +
		`if command -v mise >/dev/null 2>&1; then
  eval "$(mise activate "$(basename "$SHELL")")"
fi`

	powershellBlock = Marker + "\n" +
		`if (Get-Command mise -ErrorAction SilentlyContinue) {
  (& mise activate pwsh) | Out-String | Invoke-Expression
}`
)

// profileTarget is one shell profile file plus the block it receives.
type profileTarget struct {
	Path  string
	Block string
}

// profileTargets returns the fixed per-platform profile paths.
func profileTargets(goos, home string) []profileTarget {
	if goos == "windows" {
		return []profileTarget{
			{Path: home + `\Documents\PowerShell\Microsoft.PowerShell_profile.ps1`, Block: powershellBlock},
		}
	}
	return []profileTarget{
		{Path: home + "/.zshrc", Block: posixBlock},
		{Path: home + "/.bashrc", Block: posixBlock},
	}
}

// configureProfiles ensures every known shell profile carries the mise
// activation block exactly once.
func configureProfiles(goos, home string) {
	logger.Info("[INFO] Configuring shell profiles...\n")
	for _, target := range profileTargets(goos, home) {
		added, err := profile.EnsureBlock(target.Path, Marker, target.Block)
		if err != nil {
			logger.Warn("[WARN] Failed to configure %s: %v\n", target.Path, err)
			continue
		}
		if added {
			logger.Info("[INFO] Added mise activation to %s\n", target.Path)
		} else {
			logger.Debug("[DEBUG] %s already configured\n", target.Path)
		}
	}
}

// printSummary lists what each manager reports as installed. Listing
// failures degrade to a placeholder; the summary never fails the run.
func printSummary(ctx context.Context, opts Options) {
	logger.Info("[INFO] Installed tool summary:\n")

	if mgr, err := pkgmgr.ForOS(opts.OS, opts.Runner); err == nil {
		printListing(mgr.Name+" packages", func() (string, error) {
			return mgr.ListInstalled(ctx)
		})
	}
	printListing("mise tools", func() (string, error) {
		return runListing(ctx, opts.Runner, "mise", "ls")
	})
	printListing("bun globals", func() (string, error) {
		return runListing(ctx, opts.Runner, "bun", "pm", "ls", "-g")
	})
	printListing("uv tools", func() (string, error) {
		return runListing(ctx, opts.Runner, "uv", "tool", "list")
	})
}

func runListing(ctx context.Context, runner exec.Runner, name string, args ...string) (string, error) {
	res, err := runner.Run(ctx, name, args...)
	if err != nil {
		return "", err
	}
	if res.ExitCode != 0 {
		return "", fmt.Errorf("%s exited with %d", name, res.ExitCode)
	}
	return res.Output, nil
}

func printListing(title string, list func() (string, error)) {
	out, err := list()
	if err != nil {
		logger.Warn("[WARN] %s: (unavailable: %v)\n", title, err)
		return
	}
	out = strings.TrimRight(out, "\n")
	if out == "" {
		out = "(none)"
	}
	logger.Info("[INFO] %s:\n%s\n", title, out)
}
