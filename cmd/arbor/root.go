package main

import (
	"fmt"
	"os"

	"github.com/aretw0/arbor/internal/cli"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "arbor",
	Short: "Arbor composes task trees, notifications and a phone state machine",
	Long: `Arbor executes hierarchical task trees defined in YAML or JSON, broadcasts
messages to subscribers and drives a small on/off state machine.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().Bool("debug", false, "Log every engine event to stderr")
	rootCmd.PersistentFlags().String("tree", "", "YAML or JSON tree definition")
	rootCmd.PersistentFlags().String("initial", "off", "Initial phone state (on|off)")
}

// engineOptions reads the persistent flags. A positional argument overrides --tree.
func engineOptions(cmd *cobra.Command, args []string) cli.EngineOptions {
	debug, _ := cmd.Flags().GetBool("debug")
	treePath, _ := cmd.Flags().GetString("tree")
	initial, _ := cmd.Flags().GetString("initial")
	if !cmd.Flags().Changed("tree") && len(args) > 0 {
		treePath = args[0]
	}
	return cli.EngineOptions{
		TreePath: treePath,
		Initial:  initial,
		Debug:    debug,
	}
}
