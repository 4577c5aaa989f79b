package cmd

import (
	"github.com/spf13/cobra"

	"aftr/internal/bootstrap"
)

// manifestPath holds the path to the package manifest YAML file.
// Shared by the bootstrap and provision commands via `--manifest`.
var manifestPath string

// Remote-execution flags: fetch the manifest from a fixed remote location
// and stage it to a temp directory before running.
var (
	remoteMode bool
	remoteURL  string
)

// nonInteractive applies fixed defaults with no prompts, for automated runs.
var nonInteractive bool

// bootstrapCmd is stage 1: ensure the package manager, buckets, baseline
// packages, and the bun runtime, then chain into the provisioning stage.
var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap",
	Short: "Install the package manager, buckets, and baseline packages, then provision",
	RunE: func(cmd *cobra.Command, args []string) error {
		return bootstrap.Run(cmd.Context(), bootstrap.Options{
			ManifestPath:   manifestPath,
			Remote:         remoteMode,
			RemoteURL:      remoteURL,
			NonInteractive: nonInteractive,
		})
	},
}

// init sets up CLI flags and registers the command.
func init() {
	bootstrapCmd.Flags().StringVarP(&manifestPath, "manifest", "m", "packages.yaml", "Path to the package manifest")
	bootstrapCmd.Flags().BoolVar(&remoteMode, "remote", false, "Fetch the manifest from the remote location")
	bootstrapCmd.Flags().StringVar(&remoteURL, "remote-url", "", "Override the remote manifest URL")
	bootstrapCmd.Flags().BoolVarP(&nonInteractive, "non-interactive", "y", false, "Skip all prompts and use defaults")
	rootCmd.AddCommand(bootstrapCmd)
}
