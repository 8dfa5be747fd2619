package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newResetUpdatesCommand(ctx *commandContext) *cobra.Command {
	var endpointOverride string

	cmd := &cobra.Command{
		Use:   "reset-updates",
		Short: "Discard all updates applied since the index was built",
		Long: "Discard all updates applied since the index was built.\n\n" +
			"The engine drops its delta triples, taking the dataset back to the state\n" +
			"of the last index build. This cannot be undone.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configForEndpoint(ctx, endpointOverride, "server.port", "server.access_token")
			if err != nil {
				return err
			}
			client := ctx.endpointClient(cfg, endpointOverride)
			if ctx.showOnly() {
				fmt.Fprintln(cmd.OutOrStdout(), client.CurlClearDeltaTriples())
				return nil
			}
			if err := client.ClearDeltaTriples(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "All updates discarded, the dataset is back at the last index build")
			return nil
		},
	}

	cmd.Flags().StringVar(&endpointOverride, "sparql-endpoint", "", "Talk to this endpoint instead of the configured one")
	return cmd
}
