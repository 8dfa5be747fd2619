package runner

import (
	"strings"
)

// Invocation describes one external command before it runs. Commands are
// either an argv vector or a shell pipeline; pipelines run under "sh -c" so
// redirects and pipes behave the same way they would pasted into a terminal.
type Invocation struct {
	Program  string
	Args     []string
	Pipeline string
	Dir      string
}

// Command builds an argv-style invocation.
func Command(program string, args ...string) Invocation {
	return Invocation{Program: program, Args: args}
}

// Shell builds an invocation that runs under "sh -c".
func Shell(pipeline string) Invocation {
	return Invocation{Pipeline: pipeline}
}

// InDir returns a copy of the invocation with its working directory set.
func (inv Invocation) InDir(dir string) Invocation {
	inv.Dir = dir
	return inv
}

// IsShell reports whether the invocation runs under a shell.
func (inv Invocation) IsShell() bool {
	return inv.Pipeline != ""
}

// String renders the command the way a user would type it, suitable for
// --show output and logs.
func (inv Invocation) String() string {
	if inv.IsShell() {
		return inv.Pipeline
	}
	parts := make([]string, 0, len(inv.Args)+1)
	parts = append(parts, shellQuote(inv.Program))
	for _, arg := range inv.Args {
		parts = append(parts, shellQuote(arg))
	}
	return strings.Join(parts, " ")
}

func shellQuote(s string) string {
	if s == "" {
		return "''"
	}
	if !strings.ContainsAny(s, " \t\n\"'`$&|;<>()*?[]#~%{}\\") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
