package main

import (
	"github.com/aretw0/arbor/internal/cli"
	"github.com/spf13/cobra"
)

var phoneCmd = &cobra.Command{
	Use:   "phone [inputs...]",
	Short: "Drive the phone state machine",
	Long: `Feeds inputs (power, call, volume) to the phone state machine and prints each
transition. Without arguments it reads one input per line from stdin.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		headless, _ := cmd.Flags().GetBool("headless")
		opts := engineOptions(cmd, nil)
		opts.Headless = headless

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		return cli.Phone(sigCtx, cmd.InOrStdin(), cmd.OutOrStdout(), opts, args)
	},
}

func init() {
	rootCmd.AddCommand(phoneCmd)

	phoneCmd.Flags().Bool("headless", false, "No banner or prompts when reading stdin")
}
