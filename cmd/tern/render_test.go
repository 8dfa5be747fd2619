package main

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"testing"
)

func TestRenderStatusLineNoColor(t *testing.T) {
	got := renderStatusLine("Server", statusError, "not running", false)
	want := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "Server:", "[ERROR] not running")
	if got != want {
		t.Fatalf("renderStatusLine mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderStatusLineWithColor(t *testing.T) {
	got := renderStatusLine("Server", statusOK, "running", true)
	if !strings.HasPrefix(got, ansiGreen) {
		t.Fatalf("expected green prefix, got %q", got)
	}
	if !strings.HasSuffix(got, ansiReset) {
		t.Fatalf("expected reset suffix, got %q", got)
	}
}

func TestRenderStatusLineWithoutMessage(t *testing.T) {
	got := renderStatusLine("Index", statusWarn, "", false)
	if !strings.HasSuffix(got, "[WARN]") {
		t.Fatalf("expected bare status, got %q", got)
	}
}

func TestPrintSectionHeaderUnderlines(t *testing.T) {
	var buf bytes.Buffer
	printSectionHeader(&buf, "Server", false)
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected title and rule, got %q", buf.String())
	}
	if lines[0] != "== Server ==" {
		t.Fatalf("unexpected title %q", lines[0])
	}
	if lines[1] != strings.Repeat("-", len(lines[0])) {
		t.Fatalf("rule does not match title width: %q", lines[1])
	}
}

func TestShouldColorizeNonFile(t *testing.T) {
	if shouldColorize(io.Discard) {
		t.Fatalf("expected non-file writer to disable color")
	}
}

func TestRenderTableAlignsColumns(t *testing.T) {
	got := renderTable(
		[]string{"Setting", "Value"},
		[][]string{{"cache-max-size", "2 GB"}, {"timeout", "30 s"}},
		nil,
	)
	for _, fragment := range []string{"Setting", "Value", "cache-max-size", "2 GB", "timeout"} {
		if !strings.Contains(got, fragment) {
			t.Fatalf("table output %q missing %q", got, fragment)
		}
	}
}
