package main

import (
	"github.com/aretw0/arbor/internal/cli"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [tree-file]",
	Short: "Execute a task tree",
	Long:  `Loads the tree definition and prints every leaf label in execution (pre-order) order.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pretty, _ := cmd.Flags().GetBool("pretty")
		jsonMode, _ := cmd.Flags().GetBool("json")

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		return cli.Run(sigCtx, cmd.OutOrStdout(), cli.RunOptions{
			EngineOptions: engineOptions(cmd, args),
			Pretty:        pretty,
			JSON:          jsonMode,
		})
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Bool("pretty", false, "Render the outline and execution as markdown")
	runCmd.Flags().Bool("json", false, "Print labels as JSON")
}
