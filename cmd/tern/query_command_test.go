package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
)

func TestQuerySendsDefaultQuery(t *testing.T) {
	var gotBody, gotAccept, gotContentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		gotAccept = r.Header.Get("Accept")
		gotContentType = r.Header.Get("Content-Type")
		w.Header().Set("Content-Type", "application/sparql-results+json")
		io.WriteString(w, `{"head":{"vars":["s"]},"results":{"bindings":[{},{}]}}`)
	}))
	defer server.Close()

	stdout, stderr, err := runCLI(t, []string{"query", "--sparql-endpoint", server.URL}, "")
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if gotBody != defaultQuery {
		t.Fatalf("expected the default query, got %q", gotBody)
	}
	if gotAccept != "application/sparql-results+json" {
		t.Fatalf("unexpected Accept header %q", gotAccept)
	}
	if gotContentType != "application/sparql-query" {
		t.Fatalf("unexpected Content-Type header %q", gotContentType)
	}
	requireContains(t, stdout, `"bindings"`)
	requireContains(t, stderr, "2 results in")
}

func TestQueryReadsFromFile(t *testing.T) {
	dir := t.TempDir()
	queryFile := filepath.Join(dir, "q.sparql")
	if err := os.WriteFile(queryFile, []byte("SELECT ?x WHERE { ?x a ?y }"), 0o644); err != nil {
		t.Fatalf("write query file: %v", err)
	}

	var gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.Header().Set("Content-Type", "text/csv")
		io.WriteString(w, "x\n1\n2\n3\n")
	}))
	defer server.Close()

	stdout, stderr, err := runCLI(t, []string{
		"query", "--sparql-endpoint", server.URL, "--file", queryFile, "--accept", "csv",
	}, "")
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if gotBody != "SELECT ?x WHERE { ?x a ?y }" {
		t.Fatalf("unexpected query body %q", gotBody)
	}
	requireContains(t, stdout, "x\n1\n2\n3\n")
	requireContains(t, stderr, "3 results in")
}

func TestQueryShowPrintsCurlWithoutRequesting(t *testing.T) {
	var requests atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
	}))
	defer server.Close()

	stdout, _, err := runCLI(t, []string{
		"query", "SELECT * WHERE { ?s ?p ?o }", "--sparql-endpoint", server.URL, "--show",
	}, "")
	if err != nil {
		t.Fatalf("query --show failed: %v", err)
	}
	requireContains(t, stdout, "curl -s "+server.URL)
	requireContains(t, stdout, "SELECT * WHERE { ?s ?p ?o }")
	if requests.Load() != 0 {
		t.Fatalf("expected no request, saw %d", requests.Load())
	}
}

func TestQuerySurfacesEngineErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Malformed query", http.StatusBadRequest)
	}))
	defer server.Close()

	_, _, err := runCLI(t, []string{"query", "broken", "--sparql-endpoint", server.URL}, "")
	if err == nil {
		t.Fatal("expected the engine error to surface")
	}
	requireContains(t, err.Error(), "Malformed query")
}

func TestQueryInvalidPortFailsBeforeRequest(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir,
		"[data]",
		`name = "demo"`,
		"[server]",
		"port = 0",
	)

	_, _, err := runCLI(t, []string{"query"}, path)
	if err == nil {
		t.Fatal("expected an error for the unusable port")
	}
	requireContains(t, err.Error(), "server.port")
}
