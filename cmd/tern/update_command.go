package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newUpdateCommand(ctx *commandContext) *cobra.Command {
	var updateFile string
	var endpointOverride string

	cmd := &cobra.Command{
		Use:   "update [sparql]",
		Short: "Apply a SPARQL update to the endpoint",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configForEndpoint(ctx, endpointOverride, "server.port", "server.access_token")
			if err != nil {
				return err
			}

			update, err := readSparql(cmd, args, updateFile, "")
			if err != nil {
				return err
			}

			client := ctx.endpointClient(cfg, endpointOverride)
			if ctx.showOnly() {
				fmt.Fprintln(cmd.OutOrStdout(), client.CurlUpdate(update))
				return nil
			}

			stats, err := client.Update(cmd.Context(), update)
			if err != nil {
				return err
			}
			for i, stat := range stats {
				prefix := "Update applied"
				if len(stats) > 1 {
					prefix = fmt.Sprintf("Statement %d applied", i+1)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s in %s: +%s -%s triples, %s delta triples total\n",
					prefix,
					(time.Duration(stat.Time.Total) * time.Millisecond).Round(time.Millisecond),
					humanize.Comma(int64(stat.DeltaTriples.Operation.Inserted)),
					humanize.Comma(int64(stat.DeltaTriples.Operation.Deleted)),
					humanize.Comma(int64(stat.DeltaTriples.After.Total)))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&updateFile, "file", "f", "", "Read the update from this file ('-' for stdin)")
	cmd.Flags().StringVar(&endpointOverride, "sparql-endpoint", "", "Send to this endpoint instead of the configured one")
	return cmd
}
