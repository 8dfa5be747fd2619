package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newCacheCommands(ctx *commandContext) []*cobra.Command {
	var statsEndpoint string
	statsCmd := &cobra.Command{
		Use:   "cache-stats",
		Short: "Show the engine's query cache statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configForEndpoint(ctx, statsEndpoint)
			if err != nil {
				return err
			}
			client := ctx.endpointClient(cfg, statsEndpoint)
			if ctx.showOnly() {
				fmt.Fprintln(cmd.OutOrStdout(), client.CurlCacheStats())
				return nil
			}

			stats, err := client.FetchCacheStats(cmd.Context())
			if err != nil {
				return err
			}
			stdout := cmd.OutOrStdout()
			colorize := shouldColorize(stdout)
			fmt.Fprintln(stdout, renderStatusLine("Pinned", statusInfo,
				cacheDetail(int64(stats.NumPinnedEntries), int64(stats.PinnedSize)), colorize))
			fmt.Fprintln(stdout, renderStatusLine("Not pinned", statusInfo,
				cacheDetail(int64(stats.NumNonPinnedEntries), int64(stats.NonPinnedSize)), colorize))
			fmt.Fprintln(stdout, renderStatusLine("Total", statusInfo,
				cacheDetail(int64(stats.NumPinnedEntries+stats.NumNonPinnedEntries),
					int64(stats.PinnedSize+stats.NonPinnedSize)), colorize))
			return nil
		},
	}
	statsCmd.Flags().StringVar(&statsEndpoint, "sparql-endpoint", "", "Talk to this endpoint instead of the configured one")

	var complete bool
	var clearEndpoint string
	clearCmd := &cobra.Command{
		Use:   "clear-cache",
		Short: "Clear the engine's query cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			keys := []string{"server.port"}
			if complete {
				// Dropping pinned results is token-protected.
				keys = append(keys, "server.access_token")
			}
			cfg, err := configForEndpoint(ctx, clearEndpoint, keys...)
			if err != nil {
				return err
			}
			client := ctx.endpointClient(cfg, clearEndpoint)
			if ctx.showOnly() {
				fmt.Fprintln(cmd.OutOrStdout(), client.CurlClearCache(complete))
				return nil
			}

			answer, err := client.ClearCache(cmd.Context(), complete)
			if err != nil {
				return err
			}
			if answer == "" {
				answer = "Cache cleared"
				if complete {
					answer = "Cache cleared, including pinned results"
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), answer)
			return nil
		},
	}
	clearCmd.Flags().BoolVar(&complete, "complete", false, "Also drop pinned results (needs the access token)")
	clearCmd.Flags().StringVar(&clearEndpoint, "sparql-endpoint", "", "Talk to this endpoint instead of the configured one")

	return []*cobra.Command{statsCmd, clearCmd}
}

func cacheDetail(entries, size int64) string {
	return fmt.Sprintf("%s entries, %s", humanize.Comma(entries), humanize.IBytes(uint64(size)))
}
