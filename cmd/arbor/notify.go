package main

import (
	"github.com/aretw0/arbor/internal/cli"
	"github.com/spf13/cobra"
)

var notifyCmd = &cobra.Command{
	Use:   "notify [message]",
	Short: "Broadcast a message to named subscribers",
	Long: `Subscribes one display per --subscriber (repeat a name to subscribe it twice)
and broadcasts the message to all of them in subscription order.
With --discount the message announces the given discount instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		names, _ := cmd.Flags().GetStringSlice("subscriber")
		discount, _ := cmd.Flags().GetString("discount")

		opts := cli.NotifyOptions{
			EngineOptions: engineOptions(cmd, nil),
			Discount:      discount,
			Subscribers:   names,
		}
		if len(args) == 1 {
			opts.Message = args[0]
		}
		return cli.Notify(cmd.OutOrStdout(), opts)
	},
}

func init() {
	rootCmd.AddCommand(notifyCmd)

	notifyCmd.Flags().StringSliceP("subscriber", "s", []string{"display"}, "Subscriber names")
	notifyCmd.Flags().StringP("discount", "d", "", "Announce a discount (e.g. 10%)")
}
