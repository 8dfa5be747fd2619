package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"tern/internal/engine"
	"tern/internal/runner"
)

func newGetDataCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "get-data",
		Short: "Download the dataset with the configured get_data_cmd",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.requireConfig("data.name", "data.get_data_cmd", "index.input_files")
			if err != nil {
				return err
			}

			inv := runner.Shell(cfg.Data.GetDataCmd).InDir(ctx.workDir)
			if err := ctx.printOrRun(cmd, inv); err != nil || ctx.showOnly() {
				return err
			}

			deployment := engine.NewDeployment(cfg)
			files, err := deployment.InputFiles(ctx.workDir)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Download finished, but no files match [index].input_files (%q)\n", cfg.Index.InputFiles)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Downloaded %d input files, %s\n",
				len(files), humanize.IBytes(uint64(engine.TotalSize(files))))
			return nil
		},
	}
}
