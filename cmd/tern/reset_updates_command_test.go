package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestResetUpdatesSendsClearDeltaTriples(t *testing.T) {
	var gotCmd, gotToken string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		gotCmd = r.Form.Get("cmd")
		gotToken = r.Form.Get("access-token")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	dir := t.TempDir()
	path := writeConfig(t, dir,
		"[server]",
		`access_token = "sesame"`,
	)

	stdout, _, err := runCLI(t, []string{"reset-updates", "--sparql-endpoint", server.URL}, path)
	if err != nil {
		t.Fatalf("reset-updates failed: %v", err)
	}
	if gotCmd != "clear-delta-triples" {
		t.Fatalf("unexpected cmd %q", gotCmd)
	}
	if gotToken != "sesame" {
		t.Fatalf("unexpected token %q", gotToken)
	}
	requireContains(t, stdout, "All updates discarded")
}

func TestResetUpdatesRequiresToken(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir,
		"[data]",
		`name = "demo"`,
	)

	_, _, err := runCLI(t, []string{"reset-updates"}, path)
	if err == nil {
		t.Fatal("expected an error for the missing token")
	}
	requireContains(t, err.Error(), `key "server.access_token"`)
}

func TestResetUpdatesShowPrintsCurl(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir,
		"[server]",
		"port = 7040",
		`access_token = "sesame"`,
	)

	stdout, _, err := runCLI(t, []string{"reset-updates", "--show"}, path)
	if err != nil {
		t.Fatalf("reset-updates --show failed: %v", err)
	}
	requireContains(t, stdout, "curl -s")
	requireContains(t, stdout, "cmd=clear-delta-triples")
	requireContains(t, stdout, "http://localhost:7040")
}
