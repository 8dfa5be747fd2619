package main

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/cobra"

	"tern/internal/engine"
	"tern/internal/logs"
)

func newLogCommand(ctx *commandContext) *cobra.Command {
	var lines int
	var noFollow bool
	var fromBeginning bool
	var indexLog bool
	var uiLog bool

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Tail the server log, or the index or UI log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.requireConfig("data.name")
			if err != nil {
				return err
			}
			if indexLog && uiLog {
				return errors.New("--index and --ui are mutually exclusive")
			}

			if uiLog {
				if !cfg.ContainerSystem() {
					return errors.New("the web UI only runs under a container runtime")
				}
				deployment := engine.NewDeployment(cfg)
				return ctx.printOrRun(cmd, deployment.ContainerLogsInvocation(cfg.UIContainerName(), !noFollow))
			}

			name := cfg.ServerLogFile()
			if indexLog {
				name = cfg.IndexLogFile()
			}
			path := filepath.Join(ctx.workDir, name)

			if ctx.showOnly() {
				rendered := fmt.Sprintf("tail -n %d", lines)
				if !noFollow {
					rendered += " -f"
				}
				fmt.Fprintln(cmd.OutOrStdout(), rendered+" "+path)
				return nil
			}

			opts := logs.TailOptions{Lines: lines, Follow: !noFollow}
			if fromBeginning {
				opts.Lines = -1
			}
			if opts.Follow {
				fmt.Fprintf(cmd.ErrOrStderr(), "Following %s (Ctrl-C to stop)\n", name)
			}
			err = logs.Tail(cmd.Context(), path, opts, func(line string) {
				fmt.Fprintln(cmd.OutOrStdout(), line)
			})
			if errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("no %s in %s yet; start the server or an index build first", name, ctx.workDir)
			}
			return err
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 120, "Trailing lines to print before following")
	cmd.Flags().BoolVar(&noFollow, "no-follow", false, "Print and exit instead of following")
	cmd.Flags().BoolVar(&fromBeginning, "from-beginning", false, "Print the whole log instead of the tail")
	cmd.Flags().BoolVar(&indexLog, "index", false, "Tail the index build log")
	cmd.Flags().BoolVar(&uiLog, "ui", false, "Stream the web UI container log")
	return cmd
}
