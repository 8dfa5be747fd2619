package engine

import (
	"errors"
	"fmt"
	"strings"

	"tern/internal/config"
)

// Errors classifying index state at plan or probe time.
var (
	ErrIndexExists = errors.New("index files already exist")
	ErrIndexLocked = errors.New("index build already in progress")
)

// Deployment builds the external invocations for one dataset, following the
// configured runtime (container or native binaries). It never executes
// anything itself.
type Deployment struct {
	cfg *config.Config
}

func NewDeployment(cfg *config.Config) *Deployment {
	return &Deployment{cfg: cfg}
}

// ServerCommand renders the engine server command line shared by the
// container and native paths. The caller appends redirection or wraps it in
// a container invocation.
func (d *Deployment) ServerCommand() string {
	server := d.cfg.Server
	binary := d.cfg.Runtime.ServerBinary

	var b strings.Builder
	fmt.Fprintf(&b, "%s -i %s", binary, d.cfg.Data.Name)
	fmt.Fprintf(&b, " -j %d", server.NumThreads)
	fmt.Fprintf(&b, " -p %d", server.Port)
	fmt.Fprintf(&b, " -m %s", server.MemoryForQueries)
	fmt.Fprintf(&b, " -c %s", server.CacheMaxSize)
	fmt.Fprintf(&b, " -e %s", server.CacheMaxSizeSingleEntry)
	fmt.Fprintf(&b, " -k %d", server.CacheMaxNumEntries)
	if server.Timeout != "" {
		fmt.Fprintf(&b, " -s %s", server.Timeout)
	}
	if server.AccessToken != "" {
		fmt.Fprintf(&b, " -a %s", server.AccessToken)
	}
	return b.String()
}

// ProcessPattern is the command-line pattern identifying this dataset's
// native server process: the server binary with this port.
func (d *Deployment) ProcessPattern() string {
	return fmt.Sprintf("%s.* -p %d", d.cfg.Runtime.ServerBinary, d.cfg.Server.Port)
}
