package api_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"tern/internal/api"
)

func TestNewClientNormalizesBaseURL(t *testing.T) {
	cases := map[string]string{
		"localhost:7015":          "http://localhost:7015",
		"http://localhost:7015/":  "http://localhost:7015",
		"https://db.example.org":  "https://db.example.org",
		" http://example.org/x/ ": "http://example.org/x",
	}
	for input, want := range cases {
		if got := api.NewClient(input, "", nil).BaseURL(); got != want {
			t.Errorf("NewClient(%q).BaseURL() = %q, want %q", input, got, want)
		}
	}
}

func TestPing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ping" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := api.NewClient(server.URL, "", nil)
	if !client.Ping(context.Background()) {
		t.Error("expected ping success")
	}

	down := api.NewClient("http://127.0.0.1:1", "", nil)
	if down.Ping(context.Background()) {
		t.Error("expected ping failure for unreachable endpoint")
	}
}

func TestWaitReadySucceedsOnceServerAnswers(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := api.NewClient(server.URL, "", nil)
	if err := client.WaitReady(context.Background(), 5*time.Second); err != nil {
		t.Fatalf("WaitReady: %v", err)
	}
	if calls.Load() < 3 {
		t.Errorf("calls = %d, want at least 3", calls.Load())
	}
}

func TestWaitReadyTimesOut(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := api.NewClient(server.URL, "", nil)
	err := client.WaitReady(context.Background(), 300*time.Millisecond)
	if err == nil {
		t.Fatal("expected timeout error")
	}
}

func TestWaitReadyHonorsCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	client := api.NewClient(server.URL, "", nil)
	err := client.WaitReady(ctx, time.Minute)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
