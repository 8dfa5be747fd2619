package api

import (
	"fmt"
	"strings"
)

// The Curl* methods render each request as the curl command a user could run
// directly; --show prints these instead of sending anything.

func (c *Client) CurlQuery(query, accept string) string {
	return fmt.Sprintf("curl -s %s -H \"Accept: %s\" -H \"Content-Type: %s\" --data %s",
		c.baseURL, accept, contentTypeQuery, curlQuote(query))
}

func (c *Client) CurlUpdate(update string) string {
	return fmt.Sprintf("curl -s -X POST %s -H \"Authorization: Bearer %s\" -H \"Content-Type: %s\" --data %s",
		c.baseURL, c.token, contentTypeUpdate, curlQuote(update))
}

func (c *Client) CurlGetSettings() string {
	return fmt.Sprintf("curl -s %s --data-urlencode cmd=get-settings", c.baseURL)
}

func (c *Client) CurlSetSetting(key, value string) string {
	return fmt.Sprintf("curl -s %s --data-urlencode \"%s=%s\" --data-urlencode \"access-token=%s\"",
		c.baseURL, key, value, c.token)
}

func (c *Client) CurlCacheStats() string {
	return fmt.Sprintf("curl -s %s --data-urlencode cmd=cache-stats", c.baseURL)
}

func (c *Client) CurlClearCache(complete bool) string {
	if complete {
		return fmt.Sprintf("curl -s %s --data-urlencode cmd=clear-cache-complete --data-urlencode \"access-token=%s\"",
			c.baseURL, c.token)
	}
	return fmt.Sprintf("curl -s %s --data-urlencode cmd=clear-cache", c.baseURL)
}

func (c *Client) CurlClearDeltaTriples() string {
	return fmt.Sprintf("curl -s %s --data-urlencode \"cmd=clear-delta-triples\" --data-urlencode \"access-token=%s\"",
		c.baseURL, c.token)
}

func (c *Client) CurlRebuildIndex(indexName string) string {
	return fmt.Sprintf("curl -s %s -d cmd=rebuild-index -d index-name=%s -d access-token=%s",
		c.baseURL, indexName, c.token)
}

// curlQuote wraps a request body in single quotes for display.
func curlQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
