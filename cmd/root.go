package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"aftr/internal/logger"
	"aftr/internal/prompt"
	"aftr/internal/scaffold"
	"aftr/internal/setup"
)

// debug indicates whether debug logging should be enabled.
// It can be toggled via the `--debug` command-line flag.
var debug bool

// rootCmd is the base command for the CLI tool `aftr`.
// Invoked bare, it presents an interactive menu instead of help output.
var rootCmd = &cobra.Command{
	Use:   "aftr",
	Short: "Dev environment bootstrapper and data-project scaffolder",

	// PersistentPreRun runs before any subcommand and initializes the
	// logger based on the debug flag.
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Init(debug)
	},

	RunE: func(cmd *cobra.Command, args []string) error {
		return runMenu(cmd)
	},

	SilenceUsage: true,
}

// Execute initializes global flags and starts command execution.
// Fatal errors exit non-zero after cobra has printed them.
func Execute() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// runMenu is the bare-invocation interactive menu.
func runMenu(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	p := prompt.NewTerminal(cmd.InOrStdin(), out)

	for {
		fmt.Fprintln(out, "aftr - what would you like to do?")
		fmt.Fprintln(out, "  1. init      - scaffold a new data project")
		fmt.Fprintln(out, "  2. setup     - configure AI tools and SSH keys")
		fmt.Fprintln(out, "  3. provision - sync tools and packages from the manifest")
		fmt.Fprintln(out, "  q. quit")

		choice, err := p.Input("Choice:")
		if err != nil {
			// Closed stdin means there is nobody left to ask.
			return nil
		}
		switch choice {
		case "1":
			name, err := p.Input("Project name:")
			if err != nil {
				return err
			}
			if name == "" {
				logger.Warn("[WARN] No project name given\n")
				continue
			}
			if err := scaffold.Init(name, "."); err != nil {
				logger.Error("[ERROR] %v\n", err)
			}
		case "2":
			if err := setup.Run(cmd.Context(), setup.Options{Prompter: p}); err != nil {
				logger.Error("[ERROR] %v\n", err)
			}
		case "3":
			if err := runProvision(cmd); err != nil {
				logger.Error("[ERROR] %v\n", err)
			}
		case "q", "quit", "":
			return nil
		default:
			logger.Warn("[WARN] Unknown choice %q\n", choice)
		}
	}
}
