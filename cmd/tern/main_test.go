package main

import (
	"strings"
	"testing"
)

func TestHelpWithoutArguments(t *testing.T) {
	stdout, _, err := runCLI(t, nil, "")
	if err != nil {
		t.Fatalf("bare invocation failed: %v", err)
	}
	requireContains(t, stdout, "Usage:")
	requireContains(t, stdout, "setup-config")
	requireContains(t, stdout, "query")
}

func TestUnknownCommandListsValidOnes(t *testing.T) {
	_, _, err := runCLI(t, []string{"frobnicate"}, "")
	if err == nil {
		t.Fatal("expected an error for an unknown command")
	}
	requireContains(t, err.Error(), `no such command "frobnicate"`)
	for _, name := range []string{"get-data", "index", "start", "stop", "status", "query", "setup-config"} {
		requireContains(t, err.Error(), name)
	}
	requireNotContains(t, err.Error(), "completion")
}

func TestUnknownCommandIgnoresBrokenConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "[server]", `port = "not a number"`)
	_, _, err := runCLI(t, []string{"frobnicate"}, path)
	if err == nil {
		t.Fatal("expected an error for an unknown command")
	}
	requireContains(t, err.Error(), `no such command "frobnicate"`)
}

func TestVersionPrintsBuildInfo(t *testing.T) {
	stdout, _, err := runCLI(t, []string{"version"}, "")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	requireContains(t, stdout, "dev")

	stdout, _, err = runCLI(t, []string{"version", "--short"}, "")
	if err != nil {
		t.Fatalf("version --short failed: %v", err)
	}
	if !strings.Contains(stdout, "dev") {
		t.Fatalf("expected short version output, got %q", stdout)
	}
}

func TestVersionIgnoresBrokenConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "[server]", `port = "not a number"`)
	if _, _, err := runCLI(t, []string{"version"}, path); err != nil {
		t.Fatalf("version should not load configuration: %v", err)
	}
}

func TestBrokenConfigFailsOtherCommands(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "[server]", `port = "not a number"`)
	_, _, err := runCLI(t, []string{"status"}, path)
	if err == nil {
		t.Fatal("expected a parse error")
	}
	requireContains(t, err.Error(), "parse config")
}
