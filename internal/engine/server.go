package engine

import (
	"fmt"

	"tern/internal/runner"
)

// StartPlan is a launch recipe for the engine server. Container runtimes
// detach on their own (docker run -d); native servers are detached by the
// executor with output appended to LogFile.
type StartPlan struct {
	Invocation runner.Invocation
	Detached   bool
	LogFile    string
}

// Rendered returns the plan as the command line a user could run directly.
func (p StartPlan) Rendered() string {
	if p.Detached {
		return fmt.Sprintf("%s > %s 2>&1 &", p.Invocation.String(), p.LogFile)
	}
	return p.Invocation.String()
}

// ServerStartPlan builds the launch recipe for the configured runtime.
func (d *Deployment) ServerStartPlan(workDir string) StartPlan {
	if d.cfg.ContainerSystem() {
		return StartPlan{Invocation: d.serverContainerInvocation(workDir)}
	}
	return StartPlan{
		Invocation: runner.Shell(d.ServerCommand()).InDir(workDir),
		Detached:   true,
		LogFile:    d.cfg.ServerLogFile(),
	}
}

// ServerStopInvocation returns the container removal for the server; the
// native path stops processes directly (see StopNativeServers).
func (d *Deployment) ServerStopInvocation() runner.Invocation {
	return d.RemoveContainerInvocation(d.cfg.ServerContainerName())
}
