package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	contentTypeQuery  = "application/sparql-query"
	contentTypeUpdate = "application/sparql-update"
)

// AcceptHeader maps a short result format name to its MIME type. Full MIME
// types pass through unchanged, anything else falls back to SPARQL JSON.
func AcceptHeader(format string) string {
	trimmed := strings.TrimSpace(format)
	if strings.Contains(trimmed, "/") {
		return trimmed
	}
	switch strings.ToLower(trimmed) {
	case "csv":
		return "text/csv"
	case "tsv":
		return "text/tab-separated-values"
	case "srx":
		return "application/sparql-results+xml"
	case "ttl":
		return "text/turtle"
	default:
		return "application/sparql-results+json"
	}
}

// QueryResult carries the raw response of one query.
type QueryResult struct {
	Body        []byte
	ContentType string
	Duration    time.Duration
}

// Query executes a SPARQL query, negotiating the result format through the
// Accept header. The body is returned unmodified.
func (c *Client) Query(ctx context.Context, query, accept string) (*QueryResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, strings.NewReader(query))
	if err != nil {
		return nil, fmt.Errorf("build query request: %w", err)
	}
	req.Header.Set("Content-Type", contentTypeQuery)
	req.Header.Set("Accept", accept)

	started := time.Now()
	body, contentType, err := c.do(req)
	if err != nil {
		return nil, err
	}
	return &QueryResult{Body: body, ContentType: contentType, Duration: time.Since(started)}, nil
}

// ResultCount counts the result rows in a response body: bindings for SPARQL
// JSON, data lines for CSV/TSV. Formats it cannot count yield -1.
func ResultCount(body []byte, accept string) int {
	switch {
	case strings.Contains(accept, "json"):
		var parsed struct {
			Results *struct {
				Bindings []json.RawMessage `json:"bindings"`
			} `json:"results"`
			Boolean *bool `json:"boolean"`
		}
		if err := json.Unmarshal(body, &parsed); err != nil {
			return -1
		}
		if parsed.Results != nil {
			return len(parsed.Results.Bindings)
		}
		if parsed.Boolean != nil {
			return 1
		}
		return -1
	case strings.Contains(accept, "csv"), strings.Contains(accept, "tab-separated"):
		lines := 0
		for _, line := range bytes.Split(body, []byte("\n")) {
			if len(bytes.TrimSpace(line)) > 0 {
				lines++
			}
		}
		if lines <= 1 {
			return 0
		}
		return lines - 1 // header
	default:
		return -1
	}
}

// Count is an integer the engine may serialize as a number or a string.
type Count int64

func (n *Count) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	parsed, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		asFloat, floatErr := strconv.ParseFloat(s, 64)
		if floatErr != nil {
			return fmt.Errorf("parse count %q: %w", s, err)
		}
		parsed = int64(asFloat)
	}
	*n = Count(parsed)
	return nil
}

// DeltaCounts is one inserted/deleted/total counter set.
type DeltaCounts struct {
	Inserted Count `json:"inserted"`
	Deleted  Count `json:"deleted"`
	Total    Count `json:"total"`
}

// UpdateStats carries the per-operation statistics of an update response.
type UpdateStats struct {
	DeltaTriples struct {
		Before    DeltaCounts `json:"before"`
		After     DeltaCounts `json:"after"`
		Operation DeltaCounts `json:"operation"`
	} `json:"delta-triples"`
	Time struct {
		Total Count `json:"total"` // milliseconds
	} `json:"time"`
}

// Update applies a SPARQL update with the access token and decodes the
// engine's statistics. An "exception" response becomes an error.
func (c *Client) Update(ctx context.Context, update string) ([]UpdateStats, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, strings.NewReader(update))
	if err != nil {
		return nil, fmt.Errorf("build update request: %w", err)
	}
	req.Header.Set("Content-Type", contentTypeUpdate)
	req.Header.Set("Authorization", "Bearer "+c.token)

	body, _, err := c.do(req)
	if err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var failure struct {
			Exception string `json:"exception"`
		}
		if err := json.Unmarshal(trimmed, &failure); err == nil && failure.Exception != "" {
			return nil, fmt.Errorf("engine exception: %s", failure.Exception)
		}
	}

	var stats []UpdateStats
	if err := json.Unmarshal(trimmed, &stats); err != nil {
		return nil, fmt.Errorf("decode update statistics: %w", err)
	}
	return stats, nil
}
