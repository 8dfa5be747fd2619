package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tern/internal/runner"
)

func newWarmupCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "warmup",
		Short: "Run the configured warmup command against the endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.requireConfig("server.warmup_cmd")
			if err != nil {
				return err
			}
			inv := runner.Shell(cfg.Server.WarmupCmd).InDir(ctx.workDir)
			if err := ctx.printOrRun(cmd, inv); err != nil || ctx.showOnly() {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Warmup complete")
			return nil
		},
	}
}
