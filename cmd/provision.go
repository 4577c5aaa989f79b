package cmd

import (
	"github.com/spf13/cobra"

	"aftr/internal/provision"
)

// provisionCmd is stage 2: mise tools, bun/uv globals, shell profiles,
// interactive handoff, and the installed-tool summary.
var provisionCmd = &cobra.Command{
	Use:   "provision",
	Short: "Install mise tools and global packages, configure shell profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runProvision(cmd)
	},
}

func runProvision(cmd *cobra.Command) error {
	return provision.Run(cmd.Context(), provision.Options{
		ManifestPath:   manifestPath,
		NonInteractive: nonInteractive,
	})
}

// init sets up CLI flags and registers the command.
func init() {
	provisionCmd.Flags().StringVarP(&manifestPath, "manifest", "m", "packages.yaml", "Path to the package manifest")
	provisionCmd.Flags().BoolVarP(&nonInteractive, "non-interactive", "y", false, "Skip all prompts and use defaults")
	rootCmd.AddCommand(provisionCmd)
}
