package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"tern/internal/config"
	"tern/internal/runner"
)

func newRebuildIndexCommand(ctx *commandContext) *cobra.Command {
	var indexDir string
	var skipGetData bool

	cmd := &cobra.Command{
		Use:   "rebuild-index",
		Short: "Build a fresh index in another directory and switch the running server to it",
		Long: "Build a fresh index in another directory and switch the running server to it.\n\n" +
			"The dataset is downloaded again into --index-dir, indexed there, and the\n" +
			"running server is told to swap to the new index without a restart. The\n" +
			"directory must live on the same filesystem the server can reach.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.requireConfig("data.name", "server.port", "server.access_token")
			if err != nil {
				return err
			}

			absDir, err := filepath.Abs(indexDir)
			if err != nil {
				return fmt.Errorf("resolve --index-dir: %w", err)
			}

			exe, err := os.Executable()
			if err != nil {
				return fmt.Errorf("resolve own binary: %w", err)
			}
			steps := make([]runner.Invocation, 0, 2)
			if !skipGetData {
				steps = append(steps, runner.Command(exe, "get-data").InDir(absDir))
			}
			steps = append(steps, runner.Command(exe, "index", "--overwrite-existing").InDir(absDir))

			client := ctx.endpointClient(cfg, "")
			newIndex := filepath.Join(absDir, cfg.Data.Name)

			if ctx.showOnly() {
				for _, step := range steps {
					fmt.Fprintln(cmd.OutOrStdout(), step.String())
				}
				fmt.Fprintln(cmd.OutOrStdout(), client.CurlRebuildIndex(newIndex))
				return nil
			}

			// The server must be up for the final switch; check before the
			// expensive download and build, not after.
			if err := client.WaitReady(cmd.Context(), 5*time.Second); err != nil {
				return fmt.Errorf("no running server to switch; start it with `tern start` (%v)", err)
			}

			if err := os.MkdirAll(absDir, 0o755); err != nil {
				return fmt.Errorf("create --index-dir: %w", err)
			}
			if err := copyConfigInto(ctx.configPath, absDir); err != nil {
				return err
			}

			stdout := cmd.OutOrStdout()
			for _, step := range steps {
				fmt.Fprintf(stdout, "Running %s\n", step.String())
				if err := ctx.runForeground(cmd, step); err != nil {
					return err
				}
			}

			answer, err := client.RebuildIndex(cmd.Context(), newIndex)
			if err != nil {
				return err
			}
			if answer == "" {
				answer = "Server switched to the new index"
			}
			fmt.Fprintln(stdout, answer)
			fmt.Fprintf(stdout, "The old index in %s is no longer in use\n", ctx.workDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&indexDir, "index-dir", "", "Directory for the fresh index build")
	cmd.MarkFlagRequired("index-dir")
	cmd.Flags().BoolVar(&skipGetData, "skip-get-data", false, "Index the files already present in --index-dir")
	return cmd
}

// copyConfigInto copies the dataset configuration into the rebuild directory
// so the child invocations see the same settings. An existing file there is
// kept, allowing per-rebuild overrides.
func copyConfigInto(configPath, dir string) error {
	dest := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(dest); err == nil {
		return nil
	}
	content, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("read %s: %w", configPath, err)
	}
	if err := os.WriteFile(dest, content, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", dest, err)
	}
	return nil
}
