// Package deps resolves the external binaries the CLI shells out to and
// reports their availability for status and system-info output.
package deps

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"tern/internal/config"
	"tern/internal/runner"
)

// Requirement defines an external binary a command depends on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	// VersionArgs, when set, are passed to the resolved binary to read its
	// version; the first output line is recorded.
	VersionArgs []string
}

// Status reports the availability of one requirement.
type Status struct {
	Name        string
	Command     string
	Path        string
	Description string
	Optional    bool
	Available   bool
	Version     string
	Detail      string
}

// ForConfig returns the requirements implied by the configured runtime: the
// container runtime binary for docker and podman, the engine binaries for
// native deployments.
func ForConfig(cfg *config.Config) []Requirement {
	switch cfg.Runtime.System {
	case config.SystemNative:
		return []Requirement{
			{
				Name:        "Engine server",
				Command:     cfg.Runtime.ServerBinary,
				Description: "Serves the SPARQL endpoint",
			},
			{
				Name:        "Engine indexer",
				Command:     cfg.Runtime.IndexBinary,
				Description: "Builds the index from the input files",
			},
		}
	default:
		return []Requirement{{
			Name:        cfg.Runtime.System,
			Command:     cfg.Runtime.System,
			Description: "Container runtime running the engine image",
			VersionArgs: []string{"--version"},
		}}
	}
}

// CheckBinaries resolves each requirement on PATH and, where requested, asks
// the binary for its version.
func CheckBinaries(ctx context.Context, run runner.Executor, requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		command := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     command,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if command == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		path, err := exec.LookPath(command)
		if err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", command)
			results = append(results, status)
			continue
		}
		status.Path = path
		status.Available = true
		if len(req.VersionArgs) > 0 && run != nil {
			if out, err := run.Capture(ctx, runner.Command(path, req.VersionArgs...)); err == nil {
				status.Version = firstLine(out)
			}
		}
		results = append(results, status)
	}
	return results
}

// Missing filters statuses down to the required binaries that did not
// resolve. Lifecycle commands refuse to run when this is non-empty.
func Missing(statuses []Status) []Status {
	var missing []Status
	for _, status := range statuses {
		if !status.Available && !status.Optional {
			missing = append(missing, status)
		}
	}
	return missing
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
