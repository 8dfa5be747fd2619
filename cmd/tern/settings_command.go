package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSettingsCommand(ctx *commandContext) *cobra.Command {
	var endpointOverride string

	cmd := &cobra.Command{
		Use:   "settings [key] [value]",
		Short: "Show or change the engine's runtime settings",
		Long: "Show or change the engine's runtime settings.\n\n" +
			"Without arguments every setting is listed in the engine's order. With a\n" +
			"key the single value is printed. With a key and a value the setting is\n" +
			"changed, which requires the access token.",
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			keys := []string{"server.port"}
			if len(args) == 2 {
				keys = append(keys, "server.access_token")
			}
			cfg, err := configForEndpoint(ctx, endpointOverride, keys...)
			if err != nil {
				return err
			}
			client := ctx.endpointClient(cfg, endpointOverride)
			stdout := cmd.OutOrStdout()

			if len(args) == 2 {
				key, value := args[0], args[1]
				if ctx.showOnly() {
					fmt.Fprintln(stdout, client.CurlSetSetting(key, value))
					return nil
				}
				if err := client.SetSetting(cmd.Context(), key, value); err != nil {
					return err
				}
				fmt.Fprintf(stdout, "Set %s = %s\n", key, value)
				return nil
			}

			if ctx.showOnly() {
				fmt.Fprintln(stdout, client.CurlGetSettings())
				return nil
			}

			settings, err := client.GetSettings(cmd.Context())
			if err != nil {
				return err
			}
			if len(args) == 1 {
				for _, setting := range settings {
					if setting.Key == args[0] {
						fmt.Fprintln(stdout, setting.Value)
						return nil
					}
				}
				return fmt.Errorf("the engine reports no setting named %q", args[0])
			}

			rows := make([][]string, 0, len(settings))
			for _, setting := range settings {
				rows = append(rows, []string{setting.Key, setting.Value})
			}
			fmt.Fprintln(stdout, renderTable([]string{"Setting", "Value"}, rows, nil))
			return nil
		},
	}

	cmd.Flags().StringVar(&endpointOverride, "sparql-endpoint", "", "Talk to this endpoint instead of the configured one")
	return cmd
}
