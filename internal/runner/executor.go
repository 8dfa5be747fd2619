package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"syscall"
)

// RunOptions control where a foreground command writes.
type RunOptions struct {
	Stdout io.Writer
	Stderr io.Writer
}

// Executor abstracts command execution for testability.
type Executor interface {
	// Run executes the command in the foreground, streaming its output.
	Run(ctx context.Context, inv Invocation, opts RunOptions) error
	// Capture executes the command and returns its combined output, trimmed.
	Capture(ctx context.Context, inv Invocation) (string, error)
	// Start launches the command detached from the current session with
	// stdout and stderr appended to logPath, and returns its pid.
	Start(inv Invocation, logPath string) (int, error)
}

// New returns the executor backed by os/exec.
func New() Executor {
	return commandExecutor{}
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, inv Invocation, opts RunOptions) error {
	cmd := newCmd(ctx, inv)
	cmd.Stdout = opts.Stdout
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	cmd.Stderr = opts.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}
	cmd.Stdin = os.Stdin
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("run %q: %w", inv.String(), err)
	}
	return nil
}

func (commandExecutor) Capture(ctx context.Context, inv Invocation) (string, error) {
	cmd := newCmd(ctx, inv)
	output, err := cmd.CombinedOutput()
	text := strings.TrimSpace(string(output))
	if err != nil {
		if text != "" {
			return text, fmt.Errorf("run %q: %w: %s", inv.String(), err, text)
		}
		return "", fmt.Errorf("run %q: %w", inv.String(), err)
	}
	return text, nil
}

func (commandExecutor) Start(inv Invocation, logPath string) (int, error) {
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return 0, fmt.Errorf("open log %s: %w", logPath, err)
	}
	defer logFile.Close()

	cmd := newCmd(context.Background(), inv)
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	// Own session so the process survives this one and terminal hangups.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("start %q: %w", inv.String(), err)
	}
	pid := cmd.Process.Pid
	if err := cmd.Process.Release(); err != nil {
		return pid, fmt.Errorf("release process: %w", err)
	}
	return pid, nil
}

func newCmd(ctx context.Context, inv Invocation) *exec.Cmd {
	var cmd *exec.Cmd
	if inv.IsShell() {
		cmd = exec.CommandContext(ctx, "sh", "-c", inv.Pipeline) //nolint:gosec
	} else {
		cmd = exec.CommandContext(ctx, inv.Program, inv.Args...) //nolint:gosec
	}
	cmd.Dir = inv.Dir
	return cmd
}

var _ Executor = commandExecutor{}
