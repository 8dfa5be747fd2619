package main

import (
	"testing"
)

func TestSystemInfoWorksWithoutConfig(t *testing.T) {
	stdout, _, err := runCLI(t, []string{"system-info"}, "")
	if err != nil {
		t.Fatalf("system-info failed: %v", err)
	}
	requireContains(t, stdout, "== Host ==")
	requireContains(t, stdout, "CPUs")
	requireContains(t, stdout, "Memory")
	requireContains(t, stdout, "== Tools ==")
	requireContains(t, stdout, "== Configuration ==")
	requireContains(t, stdout, "defaults (no tern.toml found)")
	requireContains(t, stdout, "(unset)")
}

func TestSystemInfoRendersConfigTable(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir,
		"[data]",
		`name = "demo"`,
		"[server]",
		"port = 7038",
	)

	stdout, _, err := runCLI(t, []string{"system-info"}, path)
	if err != nil {
		t.Fatalf("system-info failed: %v", err)
	}
	requireContains(t, stdout, path)
	requireContains(t, stdout, "data.name")
	requireContains(t, stdout, "demo")
	requireContains(t, stdout, "7038")
	requireContains(t, stdout, "runtime.system")
	requireContains(t, stdout, "docker")
}

func TestSystemInfoHidesAccessToken(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir,
		"[data]",
		`name = "demo"`,
		"[server]",
		`access_token = "demo_f81ce2a0"`,
	)

	stdout, _, err := runCLI(t, []string{"system-info"}, path)
	if err != nil {
		t.Fatalf("system-info failed: %v", err)
	}
	requireContains(t, stdout, "set (hidden)")
	requireNotContains(t, stdout, "demo_f81ce2a0")
}
