package config

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateIndex(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateRuntime(); err != nil {
		return err
	}
	return c.validateUI()
}

func (c *Config) validateIndex() error {
	if c.Index.SettingsJSON != "" && !json.Valid([]byte(c.Index.SettingsJSON)) {
		return fmt.Errorf("index.settings_json is not valid JSON")
	}
	if err := validateMemory("index.stxxl_memory", c.Index.StxxlMemory); err != nil {
		return err
	}
	return validateMemory("index.parser_buffer_size", c.Index.ParserBufferSize)
}

func (c *Config) validateServer() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.NumThreads <= 0 {
		return fmt.Errorf("server.num_threads must be positive, got %d", c.Server.NumThreads)
	}
	if c.Server.CacheMaxNumEntries <= 0 {
		return fmt.Errorf("server.cache_max_num_entries must be positive, got %d", c.Server.CacheMaxNumEntries)
	}
	if c.Server.Timeout != "" {
		if _, err := time.ParseDuration(c.Server.Timeout); err != nil {
			return fmt.Errorf("server.timeout: %w", err)
		}
	}
	for key, value := range map[string]string{
		"server.memory_for_queries":          c.Server.MemoryForQueries,
		"server.cache_max_size":              c.Server.CacheMaxSize,
		"server.cache_max_size_single_entry": c.Server.CacheMaxSizeSingleEntry,
	} {
		if err := validateMemory(key, value); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateRuntime() error {
	switch c.Runtime.System {
	case SystemDocker, SystemPodman, SystemNative:
		return nil
	default:
		return fmt.Errorf("runtime.system must be one of %s, %s, or %s, got %q",
			SystemDocker, SystemPodman, SystemNative, c.Runtime.System)
	}
}

func (c *Config) validateUI() error {
	if c.UI.Port <= 0 || c.UI.Port > 65535 {
		return fmt.Errorf("ui.port must be between 1 and 65535, got %d", c.UI.Port)
	}
	if c.UI.Port == c.Server.Port {
		return fmt.Errorf("ui.port must differ from server.port (%d)", c.Server.Port)
	}
	return nil
}

func validateMemory(key, value string) error {
	if value == "" {
		return nil
	}
	if _, err := humanize.ParseBytes(value); err != nil {
		return fmt.Errorf("%s: invalid memory amount %q", key, value)
	}
	return nil
}
