package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"tern/internal/config"
	"tern/internal/deps"
	"tern/internal/sysinfo"
)

// summaryKeys are the configuration keys system-info reports, in display
// order.
var summaryKeys = []string{
	"data.name",
	"data.description",
	"index.input_files",
	"index.format",
	"server.host_name",
	"server.port",
	"runtime.system",
	"runtime.image",
	"ui.port",
}

func newSystemInfoCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "system-info",
		Short: "Show host facts, tool versions, and the loaded configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			stdout := cmd.OutOrStdout()
			colorize := shouldColorize(stdout)

			host := sysinfo.Collect(cmd.Context(), ctx.workDir)
			printSectionHeader(stdout, "Host", colorize)
			if host.Hostname != "" {
				fmt.Fprintln(stdout, renderStatusLine("Hostname", statusInfo, host.Hostname, colorize))
			}
			if host.Platform != "" {
				fmt.Fprintln(stdout, renderStatusLine("Platform", statusInfo, host.Platform, colorize))
			}
			if host.Kernel != "" {
				fmt.Fprintln(stdout, renderStatusLine("Kernel", statusInfo, host.Kernel, colorize))
			}
			fmt.Fprintln(stdout, renderStatusLine("CPUs", statusInfo, strconv.Itoa(host.CPUs), colorize))
			fmt.Fprintln(stdout, renderStatusLine("Memory", statusInfo, host.MemoryDetail(), colorize))
			openFilesKind := statusOK
			openFilesDetail := fmt.Sprintf("soft limit %d", host.OpenFileLimit)
			if !host.OpenFilesOK() {
				openFilesKind = statusWarn
				openFilesDetail = fmt.Sprintf("soft limit %d, below the recommended %d", host.OpenFileLimit, sysinfo.RecommendedOpenFiles)
			}
			fmt.Fprintln(stdout, renderStatusLine("Open files", openFilesKind, openFilesDetail, colorize))
			if host.DiskTotal > 0 {
				fmt.Fprintln(stdout, renderStatusLine("Disk", statusInfo, host.DiskDetail(), colorize))
			}
			fmt.Fprintln(stdout)

			printSectionHeader(stdout, "Tools", colorize)
			for _, status := range deps.CheckBinaries(cmd.Context(), ctx.exec, deps.ForConfig(cfg)) {
				fmt.Fprintln(stdout, renderStatusLine(status.Name, dependencyKind(status), dependencyDetail(status), colorize))
			}
			fmt.Fprintln(stdout)

			printSectionHeader(stdout, "Configuration", colorize)
			provenance := ctx.configPath
			if !ctx.configExists {
				provenance = fmt.Sprintf("defaults (no %s found)", config.FileName)
			}
			fmt.Fprintln(stdout, renderStatusLine("File", statusInfo, provenance, colorize))
			rows := make([][]string, 0, len(summaryKeys)+1)
			for _, key := range summaryKeys {
				value, ok := cfg.Lookup(key)
				if !ok {
					value = "(unset)"
				}
				rows = append(rows, []string{key, value})
			}
			token := "(unset)"
			if _, ok := cfg.Lookup("server.access_token"); ok {
				token = "set (hidden)"
			}
			rows = append(rows, []string{"server.access_token", token})
			fmt.Fprintln(stdout, renderTable([]string{"Key", "Value"}, rows, nil))
			return nil
		},
	}
}
