package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// StatusError reports a non-2xx engine response with the server's message.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("engine returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("engine returned status %d: %s", e.StatusCode, e.Message)
}

// HTTPDoer abstracts http.Client.Do for testing.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client talks to one engine endpoint. The access token is sent only where
// the engine requires it (updates and token-protected admin commands).
type Client struct {
	baseURL string
	token   string
	http    HTTPDoer
}

// NewClient builds a client for the endpoint. A URL without a scheme gets
// http:// prepended so host:port values work. A nil doer uses a default
// http.Client; per-call contexts govern cancellation and deadlines.
func NewClient(baseURL, accessToken string, doer HTTPDoer) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL != "" && !strings.Contains(baseURL, "://") {
		baseURL = "http://" + baseURL
	}
	if doer == nil {
		doer = &http.Client{}
	}
	return &Client{baseURL: baseURL, token: accessToken, http: doer}
}

// BaseURL returns the normalized endpoint URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Ping reports whether the engine answers its readiness probe.
func (c *Client) Ping(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/ping", nil)
	if err != nil {
		return false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode == http.StatusOK
}

// WaitReady polls the readiness probe until it answers, the timeout passes,
// or the context is cancelled.
func (c *Client) WaitReady(ctx context.Context, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()
	for {
		if c.Ping(ctx) {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("server at %s not ready after %s", c.baseURL, timeout)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// do sends the request and returns the full body. Non-2xx responses become a
// *StatusError carrying the trimmed body.
func (c *Client) do(req *http.Request) ([]byte, string, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("request %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return body, "", &StatusError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
		}
	}
	return body, resp.Header.Get("Content-Type"), nil
}
