package config

import (
	"os"
	"strings"
)

func (c *Config) normalize() {
	c.normalizeData()
	c.normalizeIndex()
	c.normalizeServer()
	c.normalizeRuntime()
	c.normalizeUI()
}

func (c *Config) normalizeData() {
	c.Data.Name = strings.TrimSpace(c.Data.Name)
	c.Data.GetDataCmd = strings.TrimSpace(c.Data.GetDataCmd)
	c.Data.Description = strings.TrimSpace(c.Data.Description)
}

func (c *Config) normalizeIndex() {
	c.Index.InputFiles = strings.TrimSpace(c.Index.InputFiles)
	c.Index.CatFiles = strings.TrimSpace(c.Index.CatFiles)
	c.Index.Format = strings.ToLower(strings.TrimSpace(c.Index.Format))
	if c.Index.Format == "" {
		c.Index.Format = defaultIndexFormat
	}
	c.Index.SettingsJSON = strings.TrimSpace(c.Index.SettingsJSON)
	c.Index.StxxlMemory = strings.TrimSpace(c.Index.StxxlMemory)
	c.Index.ParserBufferSize = strings.TrimSpace(c.Index.ParserBufferSize)
}

func (c *Config) normalizeServer() {
	c.Server.HostName = strings.TrimSpace(c.Server.HostName)
	if c.Server.HostName == "" {
		c.Server.HostName = defaultHostName
	}
	c.Server.AccessToken = strings.TrimSpace(c.Server.AccessToken)
	if value, ok := os.LookupEnv("TERN_ACCESS_TOKEN"); ok && strings.TrimSpace(value) != "" {
		c.Server.AccessToken = strings.TrimSpace(value)
	}
	c.Server.MemoryForQueries = strings.TrimSpace(c.Server.MemoryForQueries)
	c.Server.CacheMaxSize = strings.TrimSpace(c.Server.CacheMaxSize)
	c.Server.CacheMaxSizeSingleEntry = strings.TrimSpace(c.Server.CacheMaxSizeSingleEntry)
	c.Server.Timeout = strings.TrimSpace(c.Server.Timeout)
	c.Server.WarmupCmd = strings.TrimSpace(c.Server.WarmupCmd)
}

func (c *Config) normalizeRuntime() {
	c.Runtime.System = strings.ToLower(strings.TrimSpace(c.Runtime.System))
	if c.Runtime.System == "" {
		c.Runtime.System = defaultSystem
	}
	c.Runtime.Image = strings.TrimSpace(c.Runtime.Image)
	if c.Runtime.Image == "" {
		c.Runtime.Image = defaultImage
	}
	c.Runtime.IndexContainer = strings.TrimSpace(c.Runtime.IndexContainer)
	c.Runtime.ServerContainer = strings.TrimSpace(c.Runtime.ServerContainer)
	c.Runtime.IndexBinary = strings.TrimSpace(c.Runtime.IndexBinary)
	if c.Runtime.IndexBinary == "" {
		c.Runtime.IndexBinary = defaultIndexBinary
	}
	c.Runtime.ServerBinary = strings.TrimSpace(c.Runtime.ServerBinary)
	if c.Runtime.ServerBinary == "" {
		c.Runtime.ServerBinary = defaultServerBinary
	}
}

func (c *Config) normalizeUI() {
	if c.UI.Port <= 0 {
		c.UI.Port = defaultUIPort
	}
	c.UI.Image = strings.TrimSpace(c.UI.Image)
	if c.UI.Image == "" {
		c.UI.Image = defaultUIImage
	}
	c.UI.Container = strings.TrimSpace(c.UI.Container)
}
