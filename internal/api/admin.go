package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// command POSTs a form-encoded admin command and returns the body.
func (c *Client) command(ctx context.Context, values url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, strings.NewReader(values.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build command request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	body, _, err := c.do(req)
	return body, err
}

// Setting is one engine runtime setting, in the order the engine reports.
type Setting struct {
	Key   string
	Value string
}

// GetSettings fetches the current runtime settings, preserving the engine's
// reporting order.
func (c *Client) GetSettings(ctx context.Context) ([]Setting, error) {
	body, err := c.command(ctx, url.Values{"cmd": {"get-settings"}})
	if err != nil {
		return nil, err
	}
	return decodeOrderedSettings(body)
}

// SetSetting applies one runtime setting; the engine checks the token.
func (c *Client) SetSetting(ctx context.Context, key, value string) error {
	_, err := c.command(ctx, url.Values{
		key:            {value},
		"access-token": {c.token},
	})
	return err
}

// CacheStats mirrors the engine's cache statistics document.
type CacheStats struct {
	NumPinnedEntries    Count `json:"num-pinned-entries"`
	PinnedSize          Count `json:"pinned-size"`
	NumNonPinnedEntries Count `json:"num-non-pinned-entries"`
	NonPinnedSize       Count `json:"non-pinned-size"`
}

// FetchCacheStats asks the engine for its cache statistics.
func (c *Client) FetchCacheStats(ctx context.Context) (*CacheStats, error) {
	body, err := c.command(ctx, url.Values{"cmd": {"cache-stats"}})
	if err != nil {
		return nil, err
	}
	var stats CacheStats
	if err := json.Unmarshal(body, &stats); err != nil {
		return nil, fmt.Errorf("decode cache stats: %w", err)
	}
	return &stats, nil
}

// ClearCache clears the unpinned cache; complete also evicts pinned results,
// which requires the access token. The engine's answer is returned verbatim.
func (c *Client) ClearCache(ctx context.Context, complete bool) (string, error) {
	values := url.Values{"cmd": {"clear-cache"}}
	if complete {
		values.Set("cmd", "clear-cache-complete")
		values.Set("access-token", c.token)
	}
	body, err := c.command(ctx, values)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(body)), nil
}

// ClearDeltaTriples discards the update triples held by the server.
func (c *Client) ClearDeltaTriples(ctx context.Context) error {
	_, err := c.command(ctx, url.Values{
		"cmd":          {"clear-delta-triples"},
		"access-token": {c.token},
	})
	return err
}

// RebuildIndex asks the server to rebuild its index under indexName. The
// call blocks until the rebuild finishes; the engine's answer is returned.
func (c *Client) RebuildIndex(ctx context.Context, indexName string) (string, error) {
	body, err := c.command(ctx, url.Values{
		"cmd":          {"rebuild-index"},
		"index-name":   {indexName},
		"access-token": {c.token},
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(body)), nil
}

// decodeOrderedSettings walks the JSON object token by token so the engine's
// key order survives. Some engine builds wrap the object in a one-element
// array.
func decodeOrderedSettings(data []byte) ([]Setting, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var wrapped []json.RawMessage
		if err := json.Unmarshal(trimmed, &wrapped); err != nil {
			return nil, fmt.Errorf("decode settings: %w", err)
		}
		if len(wrapped) == 0 {
			return nil, nil
		}
		trimmed = bytes.TrimSpace(wrapped[0])
	}

	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	decoder.UseNumber()
	opening, err := decoder.Token()
	if err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	if delim, ok := opening.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("decode settings: expected object, got %v", opening)
	}

	var settings []Setting
	for decoder.More() {
		keyToken, err := decoder.Token()
		if err != nil {
			return nil, fmt.Errorf("decode settings key: %w", err)
		}
		key, ok := keyToken.(string)
		if !ok {
			return nil, fmt.Errorf("decode settings: non-string key %v", keyToken)
		}
		var value any
		if err := decoder.Decode(&value); err != nil {
			return nil, fmt.Errorf("decode settings value for %q: %w", key, err)
		}
		settings = append(settings, Setting{Key: key, Value: settingValue(value)})
	}
	return settings, nil
}

func settingValue(value any) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		if v {
			return "true"
		}
		return "false"
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(encoded)
	}
}
