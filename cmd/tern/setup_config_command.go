package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"tern/internal/config"
	"tern/internal/preset"
)

func newSetupConfigCommand(ctx *commandContext) *cobra.Command {
	var overwrite bool
	var freshToken bool

	cmd := &cobra.Command{
		Use:   "setup-config [preset]",
		Short: "Copy a preset configuration into the current directory",
		Long: "Copy a preset configuration into the current directory.\n\n" +
			"Without arguments the shipped presets are listed. With a preset name the\n" +
			"template is written verbatim as " + config.FileName + ", ready for get-data and index.",
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			if len(args) == 0 {
				descriptors, err := preset.List()
				if err != nil {
					return err
				}
				titler := cases.Title(language.English)
				rows := make([][]string, 0, len(descriptors))
				for _, d := range descriptors {
					rows = append(rows, []string{d.Name, titler.String(d.Dataset), d.Description})
				}
				fmt.Fprintln(stdout, renderTable([]string{"Preset", "Dataset", "Description"}, rows, nil))
				fmt.Fprintln(stdout, "Run `tern setup-config <preset>` to copy one into this directory.")
				return nil
			}

			destDir, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("resolve working directory: %w", err)
			}
			result, err := preset.Materialize(args[0], destDir, preset.Options{
				Overwrite:  overwrite,
				FreshToken: freshToken,
			})
			if errors.Is(err, preset.ErrNotFound) {
				if names, namesErr := preset.Names(); namesErr == nil {
					return fmt.Errorf("%w; valid presets are: %s", err, strings.Join(names, ", "))
				}
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(stdout, "Wrote %s\n", result.Path)
			if result.Token != "" {
				fmt.Fprintf(stdout, "Generated access token %s\n", result.Token)
			}
			fmt.Fprintln(stdout, "Edit the file to taste, then run `tern get-data` followed by `tern index`.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing configuration file")
	cmd.Flags().BoolVar(&freshToken, "fresh-token", false, "Replace the preset's access token with a generated one")
	return cmd
}
