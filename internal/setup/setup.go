// Package setup implements the interactive post-provisioning handoff:
// choosing which AI assistant CLIs to install as bun global packages, and
// optional SSH key generation for GitHub access.
package setup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"aftr/internal/exec"
	"aftr/internal/logger"
	"aftr/internal/manifest"
	"aftr/internal/prompt"
)

// aiCLI is one installable AI assistant CLI.
type aiCLI struct {
	Label   string
	Package string
	Default bool
}

// availableCLIs is the fixed component menu. Claude Code is the documented
// default selection in non-interactive runs.
var availableCLIs = []aiCLI{
	{Label: "Claude Code - Anthropic's official CLI", Package: "@anthropic-ai/claude-code", Default: true},
	{Label: "Codex - OpenAI's code assistant", Package: "@openai/codex"},
	{Label: "Gemini CLI - Google's AI assistant", Package: "@google/gemini-cli"},
}

// Options configures a setup run.
type Options struct {
	// NonInteractive applies fixed defaults with no prompts: the default
	// component set is installed and SSH key generation is skipped.
	NonInteractive bool
	Runner         exec.Runner
	Prompter       prompt.Prompter
	HomeDir        string
}

// Run performs the handoff. Per-item install failures are warnings; only a
// broken prompter surfaces as an error.
func Run(ctx context.Context, opts Options) error {
	if opts.Runner == nil {
		opts.Runner = exec.NewSystemRunner()
	}
	if opts.Prompter == nil || opts.NonInteractive {
		if opts.NonInteractive {
			opts.Prompter = prompt.Fixed{}
		} else {
			opts.Prompter = prompt.NewTerminal(os.Stdin, os.Stdout)
		}
	}
	if opts.HomeDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to resolve home directory: %w", err)
		}
		opts.HomeDir = home
	}

	if err := installAICLIs(ctx, opts); err != nil {
		return err
	}
	if opts.NonInteractive {
		logger.Info("[INFO] Skipping SSH key setup in non-interactive mode\n")
		return nil
	}
	return sshKeySetup(ctx, opts)
}

func installAICLIs(ctx context.Context, opts Options) error {
	options := make([]prompt.Option, len(availableCLIs))
	for i, cli := range availableCLIs {
		options[i] = prompt.Option{Label: cli.Label, Value: cli.Package, Default: cli.Default}
	}

	selected, err := opts.Prompter.MultiSelect("Which AI CLI tools would you like to install?", options)
	if err != nil {
		return fmt.Errorf("failed to read AI CLI selection: %w", err)
	}
	if len(selected) == 0 {
		logger.Info("[INFO] No AI CLI tools selected\n")
		return nil
	}

	logger.Info("[INFO] Installing selected AI CLI tools...\n")
	for _, pkg := range selected {
		if _, err := opts.Runner.LookPath(manifest.CommandName(pkg)); err == nil {
			logger.Info("[INFO] %s is already installed. Skipping.\n", pkg)
			continue
		}
		logger.Debug("[DEBUG] Installing %s via bun\n", pkg)
		res, err := opts.Runner.Run(ctx, "bun", "install", "-g", pkg)
		if err != nil {
			// bun itself is missing; nothing further can install either.
			logger.Warn("[WARN] bun not found. Ensure bun is installed and on your PATH, then run: bun install -g %s\n", pkg)
			break
		}
		if res.ExitCode != 0 {
			logger.Warn("[WARN] Failed to install %s:\n%s\n", pkg, res.Output)
			continue
		}
		logger.Info("[INFO] Installed %s\n", pkg)
	}
	return nil
}

func sshKeySetup(ctx context.Context, opts Options) error {
	sshDir := filepath.Join(opts.HomeDir, ".ssh")
	keyPath := filepath.Join(sshDir, "id_ed25519")
	pubPath := keyPath + ".pub"

	if _, err := os.Stat(pubPath); err == nil {
		logger.Info("[INFO] Existing SSH key found at %s\n", keyPath)
		view, err := opts.Prompter.Confirm("An SSH key already exists. Do you want to view it?", true)
		if err != nil {
			return fmt.Errorf("failed to read SSH confirmation: %w", err)
		}
		if view {
			if err := displayPublicKey(pubPath); err != nil {
				logger.Warn("[WARN] %v\n", err)
			}
		}
		return nil
	}

	generate, err := opts.Prompter.Confirm("Would you like to set up an SSH key for GitHub?", true)
	if err != nil {
		return fmt.Errorf("failed to read SSH confirmation: %w", err)
	}
	if !generate {
		logger.Info("[INFO] Skipping SSH key setup\n")
		return nil
	}

	email, err := opts.Prompter.Input("Enter your email for the SSH key:")
	if err != nil {
		return fmt.Errorf("failed to read email: %w", err)
	}
	if email == "" {
		logger.Info("[INFO] No email provided. Skipping SSH key setup\n")
		return nil
	}

	logger.Info("[INFO] Generating SSH key (ed25519)...\n")
	if err := os.MkdirAll(sshDir, 0700); err != nil {
		logger.Warn("[WARN] Failed to create %s: %v\n", sshDir, err)
		return nil
	}

	res, err := opts.Runner.Run(ctx, "ssh-keygen", "-t", "ed25519", "-C", email, "-f", keyPath, "-N", "")
	if err != nil {
		logger.Warn("[WARN] ssh-keygen not found. Install OpenSSH and run: ssh-keygen -t ed25519 -C %s\n", email)
		return nil
	}
	if res.ExitCode != 0 {
		logger.Warn("[WARN] Failed to generate SSH key:\n%s\n", res.Output)
		return nil
	}

	logger.Info("[INFO] SSH key generated\n")
	if err := displayPublicKey(pubPath); err != nil {
		logger.Warn("[WARN] %v\n", err)
	}
	return nil
}

// displayPublicKey prints the public key with instructions for registering
// it on GitHub.
func displayPublicKey(pubPath string) error {
	raw, err := os.ReadFile(pubPath)
	if err != nil {
		return fmt.Errorf("failed to read public key %s: %w", pubPath, err)
	}

	rule := color.CyanString(strings.Repeat("=", 60))
	fmt.Println(rule)
	color.Yellow("Your SSH public key (copy this to GitHub):")
	fmt.Println(rule)
	fmt.Println(strings.TrimSpace(string(raw)))
	fmt.Println(rule)
	fmt.Println("To add this key to GitHub:")
	fmt.Println("  1. Go to https://github.com/settings/keys")
	fmt.Println("  2. Click 'New SSH key'")
	fmt.Println("  3. Paste the key above and save")
	return nil
}
