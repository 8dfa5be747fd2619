package logs_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"tern/internal/logs"
)

func writeLog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nobel.server-log.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func appendLog(t *testing.T, path, content string) {
	t.Helper()
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()
	if _, err := file.WriteString(content); err != nil {
		t.Fatal(err)
	}
}

func collect(path string, opts logs.TailOptions) ([]string, error) {
	var lines []string
	err := logs.Tail(context.Background(), path, opts, func(line string) {
		lines = append(lines, line)
	})
	return lines, err
}

func waitLine(t *testing.T, ch <-chan string) string {
	t.Helper()
	select {
	case line := <-ch:
		return line
	case <-time.After(5 * time.Second):
		t.Fatal("no line arrived in time")
		return ""
	}
}

func TestTailLastLines(t *testing.T) {
	path := writeLog(t, "one\ntwo\nthree\nfour\nfive\n")

	lines, err := collect(path, logs.TailOptions{Lines: 2})
	if err != nil {
		t.Fatalf("Tail: %v", err)
	}
	if len(lines) != 2 || lines[0] != "four" || lines[1] != "five" {
		t.Errorf("lines = %q", lines)
	}
}

func TestTailLimitBeyondFile(t *testing.T) {
	path := writeLog(t, "one\ntwo\n")

	lines, err := collect(path, logs.TailOptions{Lines: 50})
	if err != nil {
		t.Fatalf("Tail: %v", err)
	}
	if len(lines) != 2 || lines[0] != "one" || lines[1] != "two" {
		t.Errorf("lines = %q", lines)
	}
}

func TestTailWholeFile(t *testing.T) {
	path := writeLog(t, "one\ntwo\nthree\n")

	lines, err := collect(path, logs.TailOptions{Lines: -1})
	if err != nil {
		t.Fatalf("Tail: %v", err)
	}
	if len(lines) != 3 || lines[0] != "one" {
		t.Errorf("lines = %q", lines)
	}
}

func TestTailMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.server-log.txt")

	_, err := collect(path, logs.TailOptions{Lines: 10})
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err = %v", err)
	}
}

func TestTailFollowEmitsAppendedLines(t *testing.T) {
	path := writeLog(t, "old\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := make(chan string, 16)
	done := make(chan error, 1)
	go func() {
		done <- logs.Tail(ctx, path, logs.TailOptions{Lines: -1, Follow: true, Poll: 10 * time.Millisecond}, func(line string) {
			ch <- line
		})
	}()

	// Receiving the initial content proves the follower has taken its
	// starting offset; only then is appending race-free.
	if line := waitLine(t, ch); line != "old" {
		t.Errorf("line = %q", line)
	}

	appendLog(t, path, "fresh\n")
	if line := waitLine(t, ch); line != "fresh" {
		t.Errorf("line = %q", line)
	}

	// A partial line stays buffered until the writer completes it.
	appendLog(t, path, "par")
	appendLog(t, path, "tial\n")
	if line := waitLine(t, ch); line != "partial" {
		t.Errorf("line = %q", line)
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v", err)
	}
}

func TestTailFollowRestartsAfterTruncation(t *testing.T) {
	path := writeLog(t, "first run line one\nfirst run line two\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := make(chan string, 16)
	go logs.Tail(ctx, path, logs.TailOptions{Lines: -1, Follow: true, Poll: 10 * time.Millisecond}, func(line string) {
		ch <- line
	})

	for _, want := range []string{"first run line one", "first run line two"} {
		if line := waitLine(t, ch); line != want {
			t.Errorf("line = %q, want %q", line, want)
		}
	}

	// Simulate a restarted server reopening its log with O_TRUNC.
	if err := os.WriteFile(path, []byte("second run\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if line := waitLine(t, ch); line != "second run" {
		t.Errorf("line = %q", line)
	}
}
