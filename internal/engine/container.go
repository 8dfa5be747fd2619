package engine

import (
	"context"
	"fmt"
	"os"

	"tern/internal/runner"
)

// containerUser returns the uid:gid mapping so files the engine writes into
// the mounted working directory stay owned by the invoking user.
func containerUser() string {
	return fmt.Sprintf("%d:%d", os.Getuid(), os.Getgid())
}

// serverContainerInvocation launches the engine server detached, with the
// working directory mounted at /index and the server log written there so
// the log command can tail it like a native run.
func (d *Deployment) serverContainerInvocation(workDir string) runner.Invocation {
	inner := fmt.Sprintf("%s > %s 2>&1", d.ServerCommand(), d.cfg.ServerLogFile())
	return runner.Command(d.cfg.Runtime.System,
		"run", "-d",
		"--restart=unless-stopped",
		"-u", containerUser(),
		"-v", workDir+":/index",
		"-w", "/index",
		"-p", fmt.Sprintf("%d:%d", d.cfg.Server.Port, d.cfg.Server.Port),
		"--entrypoint", "bash",
		"--name", d.cfg.ServerContainerName(),
		d.cfg.Runtime.Image,
		"-c", inner,
	)
}

// indexContainerInvocation runs the index pipeline in the foreground; --rm so
// a finished build leaves no container behind.
func (d *Deployment) indexContainerInvocation(workDir, pipeline string) runner.Invocation {
	return runner.Command(d.cfg.Runtime.System,
		"run", "--rm",
		"-u", containerUser(),
		"-v", workDir+":/index",
		"-w", "/index",
		"--entrypoint", "bash",
		"--name", d.cfg.IndexContainerName(),
		d.cfg.Runtime.Image,
		"-c", pipeline,
	)
}

// UIStartInvocation launches the web UI container pointing at the server
// endpoint. Container runtimes only.
func (d *Deployment) UIStartInvocation() runner.Invocation {
	return runner.Command(d.cfg.Runtime.System,
		"run", "-d",
		"--restart=unless-stopped",
		"-p", fmt.Sprintf("%d:7000", d.cfg.UI.Port),
		"-e", "TERN_UI_ENDPOINT="+d.cfg.EndpointURL(),
		"--name", d.cfg.UIContainerName(),
		d.cfg.UI.Image,
	)
}

// RemoveContainerInvocation force-removes a container; removing an absent
// container fails, which stop-style callers tolerate.
func (d *Deployment) RemoveContainerInvocation(name string) runner.Invocation {
	return runner.Command(d.cfg.Runtime.System, "rm", "-f", name)
}

// ContainerLogsInvocation streams a container's own log, used for the UI
// container which has no log file in the working directory.
func (d *Deployment) ContainerLogsInvocation(name string, follow bool) runner.Invocation {
	args := []string{"logs"}
	if follow {
		args = append(args, "-f")
	}
	args = append(args, name)
	return runner.Command(d.cfg.Runtime.System, args...)
}

func (d *Deployment) containerRunningInvocation(name string) runner.Invocation {
	return runner.Command(d.cfg.Runtime.System,
		"ps", "--format", "{{.ID}}", "--filter", "name=^/"+name+"$")
}

// ContainerRunning probes the container runtime for a running container with
// the exact name.
func (d *Deployment) ContainerRunning(ctx context.Context, exec runner.Executor, name string) (bool, error) {
	out, err := exec.Capture(ctx, d.containerRunningInvocation(name))
	if err != nil {
		return false, fmt.Errorf("probe container %s: %w", name, err)
	}
	return out != "", nil
}
