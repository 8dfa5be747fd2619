package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"tern/internal/config"
	"tern/internal/deps"
	"tern/internal/engine"
	"tern/internal/logging"
	"tern/internal/logs"
)

const serverPollInterval = 250 * time.Millisecond

func newServerCommands(ctx *commandContext) []*cobra.Command {
	var killExisting bool

	startCmd := &cobra.Command{
		Use:   "start",
		Short: "Start the engine server and wait until it answers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStart(ctx, cmd, killExisting)
		},
	}
	startCmd.Flags().BoolVar(&killExisting, "kill-existing-with-same-port", false, "Stop a server already running on the configured port first")

	stopCmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop the engine server for this dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStop(ctx, cmd)
		},
	}

	restartCmd := &cobra.Command{
		Use:   "restart",
		Short: "Stop the engine server and start it again",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := runStop(ctx, cmd); err != nil {
				return err
			}
			return runStart(ctx, cmd, false)
		},
	}

	return []*cobra.Command{startCmd, stopCmd, restartCmd}
}

func runStart(ctx *commandContext, cmd *cobra.Command, killExisting bool) error {
	cfg, err := ctx.requireConfig("data.name", "server.port")
	if err != nil {
		return err
	}
	deployment := engine.NewDeployment(cfg)
	plan := deployment.ServerStartPlan(ctx.workDir)

	if ctx.showOnly() {
		fmt.Fprintln(cmd.OutOrStdout(), plan.Rendered())
		return nil
	}

	stdout := cmd.OutOrStdout()

	if missing := deps.Missing(deps.CheckBinaries(cmd.Context(), ctx.exec, deps.ForConfig(cfg))); len(missing) > 0 {
		return fmt.Errorf("%s; install it or change [runtime].system", missing[0].Detail)
	}

	indexFiles, err := deployment.IndexFiles(ctx.workDir)
	if err != nil {
		return err
	}
	if len(indexFiles) == 0 {
		return fmt.Errorf("no index files for %s in %s; build one with `tern index`", cfg.Data.Name, ctx.workDir)
	}

	running, err := serverRunning(cmd.Context(), ctx, cfg, deployment)
	if err != nil {
		return err
	}
	if running {
		if !killExisting {
			fmt.Fprintf(stdout, "Server already running at %s\n", cfg.EndpointURL())
			return nil
		}
		if err := stopServer(cmd.Context(), ctx, cfg, deployment, stdout); err != nil {
			return err
		}
	}

	logPath := filepath.Join(ctx.workDir, cfg.ServerLogFile())
	if plan.Detached {
		// Fresh log per run, matching the redirect inside the container.
		if err := os.Remove(logPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("reset server log: %w", err)
		}
		pid, err := ctx.exec.Start(plan.Invocation, logPath)
		if err != nil {
			return err
		}
		ctx.logger.Debug("server launched", logging.Int("pid", pid), logging.String("log", logPath))
		fmt.Fprintf(stdout, "Started server process %d, logging to %s\n", pid, cfg.ServerLogFile())
	} else {
		id, err := ctx.exec.Capture(cmd.Context(), plan.Invocation)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Started container %s (%s)\n", cfg.ServerContainerName(), shortID(id))
	}

	fmt.Fprintf(stdout, "Waiting for the server to answer at %s (Ctrl-C to stop waiting)\n", cfg.EndpointURL())
	if err := waitForServer(ctx, cmd, cfg, deployment, logPath); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Server ready at %s\n", cfg.EndpointURL())
	fmt.Fprintln(stdout, "Try `tern query` for an example query, or `tern ui` for the web UI.")
	return nil
}

func runStop(ctx *commandContext, cmd *cobra.Command) error {
	cfg, err := ctx.requireConfig("data.name", "server.port")
	if err != nil {
		return err
	}
	deployment := engine.NewDeployment(cfg)

	if ctx.showOnly() {
		if cfg.ContainerSystem() {
			fmt.Fprintln(cmd.OutOrStdout(), deployment.ServerStopInvocation().String())
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "pkill -f %q\n", deployment.ProcessPattern())
		}
		return nil
	}

	running, err := serverRunning(cmd.Context(), ctx, cfg, deployment)
	if err != nil {
		return err
	}
	if !running {
		fmt.Fprintf(cmd.OutOrStdout(), "Server for %s already stopped\n", cfg.Data.Name)
		return nil
	}
	return stopServer(cmd.Context(), ctx, cfg, deployment, cmd.OutOrStdout())
}

// serverRunning probes for this dataset's server: the named container under
// container runtimes, processes matching the binary and port natively.
func serverRunning(runCtx context.Context, ctx *commandContext, cfg *config.Config, deployment *engine.Deployment) (bool, error) {
	if cfg.ContainerSystem() {
		return deployment.ContainerRunning(runCtx, ctx.exec, cfg.ServerContainerName())
	}
	procs, err := deployment.FindServerProcesses()
	if err != nil {
		return false, err
	}
	return len(procs) > 0, nil
}

func stopServer(runCtx context.Context, ctx *commandContext, cfg *config.Config, deployment *engine.Deployment, stdout io.Writer) error {
	if cfg.ContainerSystem() {
		if _, err := ctx.exec.Capture(runCtx, deployment.ServerStopInvocation()); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Removed container %s\n", cfg.ServerContainerName())
		return nil
	}
	procs, err := deployment.StopNativeServers()
	if err != nil {
		return err
	}
	for _, proc := range procs {
		fmt.Fprintf(stdout, "Stopped process %d (%s)\n", proc.PID, truncateMiddle(proc.Cmdline, 80))
	}
	return nil
}

// waitForServer blocks until the endpoint answers a ping, streaming the
// server log to stderr while it waits. A server that dies during startup
// turns into an error instead of an endless wait.
func waitForServer(ctx *commandContext, cmd *cobra.Command, cfg *config.Config, deployment *engine.Deployment, logPath string) error {
	client := ctx.endpointClient(cfg, "")

	tailCtx, stopTail := context.WithCancel(cmd.Context())
	defer stopTail()
	go func() {
		// The log file appears once the server (or its container) starts
		// writing; keep retrying until then.
		for tailCtx.Err() == nil {
			err := logs.Tail(tailCtx, logPath, logs.TailOptions{Lines: -1, Follow: true, Poll: serverPollInterval}, func(line string) {
				fmt.Fprintln(cmd.ErrOrStderr(), line)
			})
			if err == nil || errors.Is(err, context.Canceled) {
				return
			}
			select {
			case <-tailCtx.Done():
				return
			case <-time.After(serverPollInterval):
			}
		}
	}()

	ping := time.NewTicker(serverPollInterval)
	defer ping.Stop()
	liveness := time.NewTicker(5 * time.Second)
	defer liveness.Stop()

	for {
		pingCtx, cancel := context.WithTimeout(cmd.Context(), time.Second)
		ready := client.Ping(pingCtx)
		cancel()
		if ready {
			stopTail()
			return nil
		}

		select {
		case <-cmd.Context().Done():
			return cmd.Context().Err()
		case <-liveness.C:
			running, err := serverRunning(cmd.Context(), ctx, cfg, deployment)
			if err == nil && !running {
				return fmt.Errorf("server exited during startup; check %s", cfg.ServerLogFile())
			}
		case <-ping.C:
		}
	}
}

// shortID shortens a container ID to the familiar 12 characters.
func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

func truncateMiddle(s string, limit int) string {
	if len(s) <= limit || limit < 5 {
		return s
	}
	half := (limit - 3) / 2
	return s[:half] + "..." + s[len(s)-half:]
}
