package engine

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v4/process"
)

// ServerProcess describes one engine process found on the host.
type ServerProcess struct {
	PID     int32
	User    string
	Started time.Time
	Cmdline string

	proc *process.Process
}

// FindEngineProcesses scans the host process table for command lines that
// mention any of the given engine binaries. Containerized engine processes
// show up too, which is what status wants.
func FindEngineProcesses(binaries ...string) ([]ServerProcess, error) {
	procs, err := process.Processes()
	if err != nil {
		return nil, fmt.Errorf("list processes: %w", err)
	}
	var found []ServerProcess
	for _, p := range procs {
		cmdline, err := p.Cmdline()
		if err != nil || cmdline == "" {
			continue
		}
		if !mentionsAny(cmdline, binaries) {
			continue
		}
		sp := ServerProcess{PID: p.Pid, Cmdline: cmdline, proc: p}
		if user, err := p.Username(); err == nil {
			sp.User = user
		}
		if ms, err := p.CreateTime(); err == nil {
			sp.Started = time.UnixMilli(ms)
		}
		found = append(found, sp)
	}
	return found, nil
}

func mentionsAny(cmdline string, binaries []string) bool {
	for _, binary := range binaries {
		if binary != "" && strings.Contains(cmdline, binary) {
			return true
		}
	}
	return false
}

// MatchesPort reports whether the process command line carries this exact
// port behind a -p flag.
func (p ServerProcess) MatchesPort(port int) bool {
	fields := strings.Fields(p.Cmdline)
	want := strconv.Itoa(port)
	for i, field := range fields {
		if field == "-p" && i+1 < len(fields) && fields[i+1] == want {
			return true
		}
	}
	return false
}

// Stop terminates the process, escalating to SIGKILL when SIGTERM is
// ignored.
func (p ServerProcess) Stop() error {
	proc := p.proc
	if proc == nil {
		var err error
		proc, err = process.NewProcess(p.PID)
		if err != nil {
			return nil // already gone
		}
	}
	if err := proc.Terminate(); err != nil {
		return fmt.Errorf("terminate pid %d: %w", p.PID, err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		running, err := proc.IsRunning()
		if err != nil || !running {
			return nil
		}
		time.Sleep(100 * time.Millisecond)
	}
	if err := proc.Kill(); err != nil {
		return fmt.Errorf("kill pid %d: %w", p.PID, err)
	}
	return nil
}

// FindServerProcesses returns the native server processes serving this
// dataset's port.
func (d *Deployment) FindServerProcesses() ([]ServerProcess, error) {
	procs, err := FindEngineProcesses(d.cfg.Runtime.ServerBinary)
	if err != nil {
		return nil, err
	}
	matched := procs[:0]
	for _, p := range procs {
		if p.MatchesPort(d.cfg.Server.Port) {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

// StopNativeServers terminates this dataset's native server processes and
// returns the ones that were stopped.
func (d *Deployment) StopNativeServers() ([]ServerProcess, error) {
	procs, err := d.FindServerProcesses()
	if err != nil {
		return nil, err
	}
	for _, p := range procs {
		if err := p.Stop(); err != nil {
			return nil, err
		}
	}
	return procs, nil
}
