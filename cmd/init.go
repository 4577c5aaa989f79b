package cmd

import (
	"github.com/spf13/cobra"

	"aftr/internal/scaffold"
)

// initPath is the parent directory for the new project (`--path`/`-p`).
var initPath string

// initCmd scaffolds a new Python data project.
var initCmd = &cobra.Command{
	Use:   "init <name>",
	Short: "Scaffold a new Python data project with UV, mise, and papermill",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return scaffold.Init(args[0], initPath)
	},
}

// init sets up CLI flags and registers the command.
func init() {
	initCmd.Flags().StringVarP(&initPath, "path", "p", ".", "Parent directory for the project")
	rootCmd.AddCommand(initCmd)
}
