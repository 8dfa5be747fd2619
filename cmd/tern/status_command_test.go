package main

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func statusTestConfig(t *testing.T, dir string) string {
	t.Helper()
	return writeConfig(t, dir,
		"[data]",
		`name = "demo"`,
		`description = "status test dataset"`,
		"[index]",
		`input_files = "*.nt"`,
		"[server]",
		"port = 7034",
		"[runtime]",
		`system = "native"`,
		`server_binary = "tern-test-absent-ad71"`,
		`index_binary = "tern-test-absent-ad71-idx"`,
	)
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names
}

func TestStatusReportsStoppedDeployment(t *testing.T) {
	dir := t.TempDir()
	path := statusTestConfig(t, dir)

	stdout, _, err := runCLI(t, []string{"status"}, path)
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	requireContains(t, stdout, "== Configuration ==")
	requireContains(t, stdout, "demo (status test dataset)")
	requireContains(t, stdout, "== Server ==")
	requireContains(t, stdout, "not running")
	requireContains(t, stdout, "no answer from http://localhost:7034")
	requireContains(t, stdout, "== Index ==")
	requireContains(t, stdout, "none (run `tern index`)")
	requireContains(t, stdout, "== Dependencies ==")
	requireContains(t, stdout, "not found")
}

func TestStatusLeavesNoTraces(t *testing.T) {
	dir := t.TempDir()
	path := statusTestConfig(t, dir)
	before := listDir(t, dir)

	for i := 0; i < 2; i++ {
		if _, _, err := runCLI(t, []string{"status"}, path); err != nil {
			t.Fatalf("status run %d failed: %v", i+1, err)
		}
	}

	after := listDir(t, dir)
	if len(before) != len(after) {
		t.Fatalf("status changed the working directory: before %v, after %v", before, after)
	}
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("status changed the working directory: before %v, after %v", before, after)
		}
	}
}

func TestStatusCountsIndexFiles(t *testing.T) {
	dir := t.TempDir()
	path := statusTestConfig(t, dir)
	for _, name := range []string{"demo.index.bin", "demo.index.vocab"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("data"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	stdout, _, err := runCLI(t, []string{"status"}, path)
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	requireContains(t, stdout, "2 files")
	requireNotContains(t, stdout, "none (run `tern index`)")
}
