package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"tern/internal/config"
	"tern/internal/deps"
	"tern/internal/engine"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report server, index, and dependency state for this dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.requireConfig("data.name")
			if err != nil {
				return err
			}
			deployment := engine.NewDeployment(cfg)
			stdout := cmd.OutOrStdout()
			colorize := shouldColorize(stdout)

			printSectionHeader(stdout, "Configuration", colorize)
			fmt.Fprintln(stdout, renderStatusLine("File", statusInfo, ctx.configPath, colorize))
			fmt.Fprintln(stdout, renderStatusLine("Dataset", statusInfo, datasetDetail(cfg), colorize))
			fmt.Fprintln(stdout, renderStatusLine("Runtime", statusInfo, runtimeDetail(cfg), colorize))
			fmt.Fprintln(stdout)

			statuses := deps.CheckBinaries(cmd.Context(), ctx.exec, deps.ForConfig(cfg))
			runtimeUsable := len(deps.Missing(statuses)) == 0

			printSectionHeader(stdout, "Server", colorize)
			renderServerStatus(cmd, ctx, cfg, deployment, runtimeUsable, colorize)
			fmt.Fprintln(stdout)

			printSectionHeader(stdout, "Index", colorize)
			renderIndexStatus(stdout, ctx, cfg, deployment, colorize)
			fmt.Fprintln(stdout)

			printSectionHeader(stdout, "Dependencies", colorize)
			for _, status := range statuses {
				fmt.Fprintln(stdout, renderStatusLine(status.Name, dependencyKind(status), dependencyDetail(status), colorize))
			}
			return nil
		},
	}
}

func datasetDetail(cfg *config.Config) string {
	if cfg.Data.Description != "" {
		return fmt.Sprintf("%s (%s)", cfg.Data.Name, cfg.Data.Description)
	}
	return cfg.Data.Name
}

func runtimeDetail(cfg *config.Config) string {
	if cfg.ContainerSystem() {
		return fmt.Sprintf("%s (%s)", cfg.Runtime.System, cfg.Runtime.Image)
	}
	return fmt.Sprintf("native (%s, %s)", cfg.Runtime.ServerBinary, cfg.Runtime.IndexBinary)
}

func renderServerStatus(cmd *cobra.Command, ctx *commandContext, cfg *config.Config, deployment *engine.Deployment, runtimeUsable bool, colorize bool) {
	stdout := cmd.OutOrStdout()

	running := false
	switch {
	case cfg.ContainerSystem() && !runtimeUsable:
		fmt.Fprintln(stdout, renderStatusLine("Container", statusWarn, cfg.Runtime.System+" not available, cannot probe", colorize))
	case cfg.ContainerSystem():
		up, err := deployment.ContainerRunning(cmd.Context(), ctx.exec, cfg.ServerContainerName())
		switch {
		case err != nil:
			fmt.Fprintln(stdout, renderStatusLine("Container", statusWarn, err.Error(), colorize))
		case up:
			running = true
			fmt.Fprintln(stdout, renderStatusLine("Container", statusOK, cfg.ServerContainerName()+" running", colorize))
		default:
			fmt.Fprintln(stdout, renderStatusLine("Container", statusInfo, cfg.ServerContainerName()+" not running", colorize))
		}
	default:
		procs, err := deployment.FindServerProcesses()
		switch {
		case err != nil:
			fmt.Fprintln(stdout, renderStatusLine("Process", statusWarn, err.Error(), colorize))
		case len(procs) > 0:
			running = true
			fmt.Fprintln(stdout, renderStatusLine("Process", statusOK, nativeProcessDetail(procs), colorize))
		default:
			fmt.Fprintln(stdout, renderStatusLine("Process", statusInfo, "not running", colorize))
		}
	}

	pingCtx, cancel := contextWithPingTimeout(cmd)
	defer cancel()
	started := time.Now()
	if ctx.endpointClient(cfg, "").Ping(pingCtx) {
		detail := fmt.Sprintf("%s answered in %s", cfg.EndpointURL(), time.Since(started).Round(time.Millisecond))
		fmt.Fprintln(stdout, renderStatusLine("Endpoint", statusOK, detail, colorize))
	} else {
		kind := statusInfo
		if running {
			// Launched but not answering: still starting up, or wedged.
			kind = statusWarn
		}
		fmt.Fprintln(stdout, renderStatusLine("Endpoint", kind, "no answer from "+cfg.EndpointURL(), colorize))
	}

	if all, err := engine.FindEngineProcesses(cfg.Runtime.ServerBinary, cfg.Runtime.IndexBinary); err == nil && len(all) > 0 {
		rows := make([][]string, 0, len(all))
		for _, proc := range all {
			rows = append(rows, []string{
				fmt.Sprintf("%d", proc.PID),
				proc.User,
				humanize.Time(proc.Started),
				truncateMiddle(proc.Cmdline, 80),
			})
		}
		fmt.Fprintln(stdout, renderTable([]string{"PID", "User", "Started", "Command"}, rows, []columnAlignment{alignRight}))
	}
}

func contextWithPingTimeout(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), 2*time.Second)
}

func nativeProcessDetail(procs []engine.ServerProcess) string {
	first := procs[0]
	detail := fmt.Sprintf("pid %d, started %s", first.PID, humanize.Time(first.Started))
	if len(procs) > 1 {
		detail = fmt.Sprintf("%s (+%d more)", detail, len(procs)-1)
	}
	return detail
}

func renderIndexStatus(stdout io.Writer, ctx *commandContext, cfg *config.Config, deployment *engine.Deployment, colorize bool) {
	if inputs, err := deployment.InputFiles(ctx.workDir); err == nil {
		detail := "none"
		if len(inputs) > 0 {
			detail = fmt.Sprintf("%d files, %s", len(inputs), humanize.IBytes(uint64(engine.TotalSize(inputs))))
		}
		fmt.Fprintln(stdout, renderStatusLine("Input files", statusInfo, detail, colorize))
	}

	files, err := deployment.IndexFiles(ctx.workDir)
	switch {
	case err != nil:
		fmt.Fprintln(stdout, renderStatusLine("Index files", statusWarn, err.Error(), colorize))
	case len(files) == 0:
		fmt.Fprintln(stdout, renderStatusLine("Index files", statusWarn, "none (run `tern index`)", colorize))
	default:
		detail := fmt.Sprintf("%d files, %s", len(files), humanize.IBytes(uint64(engine.TotalSize(files))))
		fmt.Fprintln(stdout, renderStatusLine("Index files", statusOK, detail, colorize))
	}

	busy, err := indexLockBusy(ctx.workDir, cfg, deployment)
	switch {
	case err != nil:
		fmt.Fprintln(stdout, renderStatusLine("Build lock", statusWarn, err.Error(), colorize))
	case busy:
		fmt.Fprintln(stdout, renderStatusLine("Build lock", statusWarn, "index build in progress", colorize))
	default:
		fmt.Fprintln(stdout, renderStatusLine("Build lock", statusInfo, "free", colorize))
	}
}

// indexLockBusy probes the advisory build lock without creating the lock
// file, so status stays free of side effects.
func indexLockBusy(dir string, cfg *config.Config, deployment *engine.Deployment) (bool, error) {
	if _, err := os.Stat(filepath.Join(dir, cfg.IndexLockFile())); errors.Is(err, os.ErrNotExist) {
		return false, nil
	} else if err != nil {
		return false, err
	}
	release, err := deployment.AcquireIndexLock(dir)
	if errors.Is(err, engine.ErrIndexLocked) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	release()
	return false, nil
}

func dependencyKind(status deps.Status) statusKind {
	switch {
	case status.Available:
		return statusOK
	case status.Optional:
		return statusWarn
	default:
		return statusError
	}
}

func dependencyDetail(status deps.Status) string {
	if status.Available {
		if status.Version != "" {
			return fmt.Sprintf("%s (%s)", status.Path, status.Version)
		}
		return status.Path
	}
	if status.Detail != "" {
		return status.Detail
	}
	return "not found"
}
