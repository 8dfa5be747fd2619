package config

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrMissingKey reports a configuration key that a command requires but the
// loaded configuration does not provide.
var ErrMissingKey = errors.New("missing configuration")

// Lookup returns the string form of the value stored under a dotted key such
// as "data.name" or "server.port". The second result reports whether the key
// holds a usable (non-empty, non-zero) value. Unknown keys return ("", false).
func (c *Config) Lookup(key string) (string, bool) {
	switch key {
	case "data.name":
		return c.Data.Name, c.Data.Name != ""
	case "data.get_data_cmd":
		return c.Data.GetDataCmd, c.Data.GetDataCmd != ""
	case "data.description":
		return c.Data.Description, c.Data.Description != ""
	case "index.input_files":
		return c.Index.InputFiles, c.Index.InputFiles != ""
	case "index.cat_files":
		return c.Index.CatFiles, c.Index.CatFiles != ""
	case "index.format":
		return c.Index.Format, c.Index.Format != ""
	case "index.settings_json":
		return c.Index.SettingsJSON, c.Index.SettingsJSON != ""
	case "server.host_name":
		return c.Server.HostName, c.Server.HostName != ""
	case "server.port":
		return strconv.Itoa(c.Server.Port), c.Server.Port > 0
	case "server.access_token":
		return c.Server.AccessToken, c.Server.AccessToken != ""
	case "server.warmup_cmd":
		return c.Server.WarmupCmd, c.Server.WarmupCmd != ""
	case "runtime.system":
		return c.Runtime.System, c.Runtime.System != ""
	case "runtime.image":
		return c.Runtime.Image, c.Runtime.Image != ""
	case "ui.port":
		return strconv.Itoa(c.UI.Port), c.UI.Port > 0
	case "ui.image":
		return c.UI.Image, c.UI.Image != ""
	default:
		return "", false
	}
}

// Require verifies that every named key holds a usable value, failing with an
// error naming the first missing key. Commands call this before building any
// invocation or HTTP request so configuration problems surface up front.
func (c *Config) Require(keys ...string) error {
	for _, key := range keys {
		if _, ok := c.Lookup(key); !ok {
			return fmt.Errorf("%w key %q (edit %s)", ErrMissingKey, key, FileName)
		}
	}
	return nil
}
