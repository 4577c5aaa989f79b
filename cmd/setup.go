package cmd

import (
	"github.com/spf13/cobra"

	"aftr/internal/setup"
)

// setupNonInteractive applies the documented defaults with no prompts:
// Claude Code selected, SSH key generation skipped.
var setupNonInteractive bool

// setupCmd runs the interactive handoff standalone: AI CLI selection and
// SSH key setup. Useful when re-run after the environment already exists.
var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Configure AI tools and SSH keys after environment setup",
	RunE: func(cmd *cobra.Command, args []string) error {
		return setup.Run(cmd.Context(), setup.Options{
			NonInteractive: setupNonInteractive,
		})
	},
}

// init sets up CLI flags and registers the command.
func init() {
	setupCmd.Flags().BoolVarP(&setupNonInteractive, "non-interactive", "y", false, "Skip all prompts and use defaults")
	rootCmd.AddCommand(setupCmd)
}
