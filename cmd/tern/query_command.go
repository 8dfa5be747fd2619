package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"tern/internal/api"
	"tern/internal/config"
)

// defaultQuery is used when query is invoked without a query argument.
const defaultQuery = "SELECT * WHERE { ?s ?p ?o } LIMIT 100"

func newQueryCommand(ctx *commandContext) *cobra.Command {
	var accept string
	var queryFile string
	var endpointOverride string

	cmd := &cobra.Command{
		Use:   "query [sparql]",
		Short: "Send a SPARQL query to the endpoint and print the result",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configForEndpoint(ctx, endpointOverride)
			if err != nil {
				return err
			}

			query, err := readSparql(cmd, args, queryFile, defaultQuery)
			if err != nil {
				return err
			}

			client := ctx.endpointClient(cfg, endpointOverride)
			acceptHeader := api.AcceptHeader(accept)
			if ctx.showOnly() {
				fmt.Fprintln(cmd.OutOrStdout(), client.CurlQuery(query, acceptHeader))
				return nil
			}

			result, err := client.Query(cmd.Context(), query, acceptHeader)
			if err != nil {
				return err
			}
			writeBody(cmd.OutOrStdout(), result.Body)
			if count := api.ResultCount(result.Body, result.ContentType); count >= 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s results in %s\n",
					humanize.Comma(int64(count)), result.Duration.Round(time.Millisecond))
			} else {
				fmt.Fprintf(cmd.ErrOrStderr(), "Answered in %s\n", result.Duration.Round(time.Millisecond))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&accept, "accept", "json", "Result format: json, csv, tsv, srx, ttl, or a full MIME type")
	cmd.Flags().StringVarP(&queryFile, "file", "f", "", "Read the query from this file ('-' for stdin)")
	cmd.Flags().StringVar(&endpointOverride, "sparql-endpoint", "", "Query this endpoint instead of the configured one")
	return cmd
}

// configForEndpoint resolves configuration for endpoint commands. With an
// explicit endpoint override no configuration keys are required at all, so
// arbitrary endpoints can be queried from anywhere.
func configForEndpoint(ctx *commandContext, override string, keys ...string) (*config.Config, error) {
	if strings.TrimSpace(override) != "" {
		return ctx.ensureConfig()
	}
	if len(keys) == 0 {
		keys = []string{"server.port"}
	}
	return ctx.requireConfig(keys...)
}

// readSparql resolves the query or update text: argument first, then --file
// ('-' reads stdin), then the fallback. An empty fallback makes the text
// mandatory.
func readSparql(cmd *cobra.Command, args []string, file, fallback string) (string, error) {
	if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
		return args[0], nil
	}
	switch {
	case file == "-":
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", file, err)
		}
		return string(data), nil
	case fallback != "":
		return fallback, nil
	default:
		return "", errors.New("nothing to send; pass the text as an argument or via --file")
	}
}

// writeBody prints a response body, making sure the output ends in a
// newline so the shell prompt does not glue onto the result.
func writeBody(w io.Writer, body []byte) {
	if len(body) == 0 {
		return
	}
	w.Write(body)
	if !bytes.HasSuffix(body, []byte("\n")) {
		io.WriteString(w, "\n")
	}
}
