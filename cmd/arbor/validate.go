package main

import (
	"fmt"

	"github.com/aretw0/arbor/internal/cli"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <tree-file>",
	Short: "Check the tree definition for consistency",
	Long:  `Loads the tree and reports duplicate composite names or sibling keys that would make nodes ambiguous to address.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cli.Validate(cmd.OutOrStdout(), args[0]); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
