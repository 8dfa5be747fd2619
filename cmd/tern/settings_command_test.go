package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSettingsListsInEngineOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if got := r.Form.Get("cmd"); got != "get-settings" {
			t.Errorf("unexpected cmd %q", got)
		}
		io.WriteString(w, `{"zzz-last-check":"false","cache-max-size":"2 GB","always-first":"1"}`)
	}))
	defer server.Close()

	stdout, _, err := runCLI(t, []string{"settings", "--sparql-endpoint", server.URL}, "")
	if err != nil {
		t.Fatalf("settings failed: %v", err)
	}
	first := strings.Index(stdout, "zzz-last-check")
	second := strings.Index(stdout, "cache-max-size")
	third := strings.Index(stdout, "always-first")
	if first < 0 || second < 0 || third < 0 {
		t.Fatalf("missing settings in output: %q", stdout)
	}
	if !(first < second && second < third) {
		t.Fatalf("settings not in engine order: %q", stdout)
	}
}

func TestSettingsPrintsSingleValue(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"cache-max-size":"2 GB","default-query-timeout":"30s"}`)
	}))
	defer server.Close()

	stdout, _, err := runCLI(t, []string{"settings", "cache-max-size", "--sparql-endpoint", server.URL}, "")
	if err != nil {
		t.Fatalf("settings failed: %v", err)
	}
	if strings.TrimSpace(stdout) != "2 GB" {
		t.Fatalf("expected the single value, got %q", stdout)
	}
}

func TestSettingsUnknownKeyFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"cache-max-size":"2 GB"}`)
	}))
	defer server.Close()

	_, _, err := runCLI(t, []string{"settings", "no-such-setting", "--sparql-endpoint", server.URL}, "")
	if err == nil {
		t.Fatal("expected an error for the unknown setting")
	}
	requireContains(t, err.Error(), "no-such-setting")
}

func TestSettingsSetSendsPairWithToken(t *testing.T) {
	var gotForm string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotForm = string(body)
		io.WriteString(w, `{}`)
	}))
	defer server.Close()

	dir := t.TempDir()
	path := writeConfig(t, dir,
		"[server]",
		`access_token = "sesame"`,
	)

	stdout, _, err := runCLI(t, []string{
		"settings", "cache-max-size", "4G", "--sparql-endpoint", server.URL,
	}, path)
	if err != nil {
		t.Fatalf("settings set failed: %v", err)
	}
	requireContains(t, gotForm, "cache-max-size=4G")
	requireContains(t, gotForm, "access-token=sesame")
	requireContains(t, stdout, "Set cache-max-size = 4G")
}

func TestSettingsSetRequiresToken(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir,
		"[data]",
		`name = "demo"`,
	)

	_, _, err := runCLI(t, []string{"settings", "cache-max-size", "4G"}, path)
	if err == nil {
		t.Fatal("expected an error for the missing token")
	}
	requireContains(t, err.Error(), `key "server.access_token"`)
}
