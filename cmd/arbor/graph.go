package main

import (
	"github.com/aretw0/arbor/internal/cli"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [tree-file]",
	Short: "Export the tree visualization",
	Long:  `Outputs a Mermaid diagram (graph TD) of the task tree, or the phone state diagram with --machine.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		machine, _ := cmd.Flags().GetBool("machine")
		visited, _ := cmd.Flags().GetBool("visited")

		return cli.Graph(cmd.Context(), cmd.OutOrStdout(), cli.GraphOptions{
			EngineOptions: engineOptions(cmd, args),
			Machine:       machine,
			Visited:       visited,
		})
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)

	graphCmd.Flags().Bool("machine", false, "Render the phone state machine instead of the tree")
	graphCmd.Flags().Bool("visited", false, "Highlight the leaves visited by one execution")
}
