package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"tern/internal/config"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var showFlag bool
	var logLevelFlag string

	ctx := newCommandContext(&configFlag, &showFlag, &logLevelFlag)

	rootCmd := &cobra.Command{
		Use:           "tern",
		Short:         "Manage datasets, indexes, and servers of a SPARQL engine",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx.initLogging()
			// The root itself only prints help or the unknown-command
			// listing, neither of which needs configuration.
			if !cmd.HasParent() || shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return unknownCommandError(cmd, args[0])
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file (default "+config.FileName+" in the working directory)")
	rootCmd.PersistentFlags().BoolVar(&showFlag, "show", false, "Print what would be executed instead of executing it")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "info", "Log verbosity (debug, info, warn, error)")

	rootCmd.AddCommand(newSetupConfigCommand(ctx))
	rootCmd.AddCommand(newGetDataCommand(ctx))
	rootCmd.AddCommand(newIndexCommand(ctx))
	for _, cmd := range newServerCommands(ctx) {
		rootCmd.AddCommand(cmd)
	}
	rootCmd.AddCommand(newStatusCommand(ctx))
	rootCmd.AddCommand(newLogCommand(ctx))
	rootCmd.AddCommand(newWarmupCommand(ctx))
	rootCmd.AddCommand(newUICommand(ctx))
	rootCmd.AddCommand(newSystemInfoCommand(ctx))
	rootCmd.AddCommand(newQueryCommand(ctx))
	rootCmd.AddCommand(newUpdateCommand(ctx))
	rootCmd.AddCommand(newSettingsCommand(ctx))
	for _, cmd := range newCacheCommands(ctx) {
		rootCmd.AddCommand(cmd)
	}
	rootCmd.AddCommand(newResetUpdatesCommand(ctx))
	rootCmd.AddCommand(newRebuildIndexCommand(ctx))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

func unknownCommandError(root *cobra.Command, name string) error {
	names := make([]string, 0, len(root.Commands()))
	for _, sub := range root.Commands() {
		if sub.Hidden || sub.Name() == "help" || sub.Name() == "completion" {
			continue
		}
		names = append(names, sub.Name())
	}
	sort.Strings(names)
	return fmt.Errorf("no such command %q; valid commands are: %s", name, strings.Join(names, ", "))
}
