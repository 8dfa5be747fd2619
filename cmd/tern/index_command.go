package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"tern/internal/engine"
)

func newIndexCommand(ctx *commandContext) *cobra.Command {
	var overwriteExisting bool

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Build the dataset index from the input files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.requireConfig("data.name", "index.input_files", "index.cat_files")
			if err != nil {
				return err
			}
			deployment := engine.NewDeployment(cfg)
			inv := deployment.IndexInvocation(ctx.workDir)

			if ctx.showOnly() {
				fmt.Fprintln(cmd.OutOrStdout(), inv.String())
				return nil
			}

			inputs, err := deployment.InputFiles(ctx.workDir)
			if err != nil {
				return err
			}
			if len(inputs) == 0 {
				return fmt.Errorf("no input files match %q in %s; run `tern get-data` first", cfg.Index.InputFiles, ctx.workDir)
			}
			existing, err := deployment.IndexFiles(ctx.workDir)
			if err != nil {
				return err
			}
			if len(existing) > 0 && !overwriteExisting {
				return fmt.Errorf("%w for %s (rerun with --overwrite-existing to rebuild)", engine.ErrIndexExists, cfg.Data.Name)
			}

			release, err := deployment.AcquireIndexLock(ctx.workDir)
			if err != nil {
				return err
			}
			defer release()

			if _, err := deployment.WriteSettings(ctx.workDir); err != nil {
				return err
			}

			started := time.Now()
			if err := ctx.runForeground(cmd, inv); err != nil {
				return err
			}

			built, err := deployment.IndexFiles(ctx.workDir)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Index built in %s: %d files, %s\n",
				time.Since(started).Round(time.Second), len(built),
				humanize.IBytes(uint64(engine.TotalSize(built))))
			return nil
		},
	}

	cmd.Flags().BoolVar(&overwriteExisting, "overwrite-existing", false, "Rebuild even when index files already exist")
	return cmd
}
