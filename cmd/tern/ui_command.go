package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tern/internal/config"
	"tern/internal/engine"
)

func newUICommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Launch the web UI container for this dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.requireConfig("data.name", "server.port")
			if err != nil {
				return err
			}
			if !cfg.ContainerSystem() {
				return fmt.Errorf("the web UI needs a container runtime; set [runtime].system to %s or %s", config.SystemDocker, config.SystemPodman)
			}

			deployment := engine.NewDeployment(cfg)
			remove := deployment.RemoveContainerInvocation(cfg.UIContainerName())
			start := deployment.UIStartInvocation()

			if ctx.showOnly() {
				fmt.Fprintln(cmd.OutOrStdout(), remove.String())
				fmt.Fprintln(cmd.OutOrStdout(), start.String())
				return nil
			}

			// Replace any previous UI container; removal fails when there is
			// none, which is fine.
			_, _ = ctx.exec.Capture(cmd.Context(), remove)

			id, err := ctx.exec.Capture(cmd.Context(), start)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Started UI container %s (%s)\n", cfg.UIContainerName(), shortID(id))
			fmt.Fprintf(cmd.OutOrStdout(), "Open http://localhost:%d, it queries %s\n", cfg.UI.Port, cfg.EndpointURL())
			return nil
		},
	}
}
