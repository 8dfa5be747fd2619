package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// FileName is the conventional configuration file name. Each dataset lives in
// its own working directory with one tern.toml describing it.
const FileName = "tern.toml"

// Data describes the dataset itself.
type Data struct {
	Name        string `toml:"name"`
	GetDataCmd  string `toml:"get_data_cmd"`
	Description string `toml:"description"`
}

// Index contains settings for building the index from the input files.
type Index struct {
	InputFiles       string `toml:"input_files"`
	CatFiles         string `toml:"cat_files"`
	Format           string `toml:"format"`
	SettingsJSON     string `toml:"settings_json"`
	StxxlMemory      string `toml:"stxxl_memory"`
	ParserBufferSize string `toml:"parser_buffer_size"`
	ParallelParsing  bool   `toml:"parallel_parsing"`
}

// Server contains settings for the engine server and its endpoint.
type Server struct {
	HostName                string `toml:"host_name"`
	Port                    int    `toml:"port"`
	AccessToken             string `toml:"access_token"`
	MemoryForQueries        string `toml:"memory_for_queries"`
	CacheMaxSize            string `toml:"cache_max_size"`
	CacheMaxSizeSingleEntry string `toml:"cache_max_size_single_entry"`
	CacheMaxNumEntries      int    `toml:"cache_max_num_entries"`
	Timeout                 string `toml:"timeout"`
	NumThreads              int    `toml:"num_threads"`
	WarmupCmd               string `toml:"warmup_cmd"`
}

// Runtime selects how engine processes are launched: via a container runtime
// or as native binaries on the host.
type Runtime struct {
	System          string `toml:"system"`
	Image           string `toml:"image"`
	IndexContainer  string `toml:"index_container"`
	ServerContainer string `toml:"server_container"`
	IndexBinary     string `toml:"index_binary"`
	ServerBinary    string `toml:"server_binary"`
}

// UI contains settings for the web UI container.
type UI struct {
	Port      int    `toml:"port"`
	Image     string `toml:"image"`
	Container string `toml:"container"`
}

// Config encapsulates one dataset deployment.
//
// Sections:
//   - Data: dataset name and how to fetch its input files
//   - Index: index builder inputs and tuning
//   - Server: engine server endpoint and resource limits
//   - Runtime: container runtime vs. native binaries, image names
//   - UI: web UI container
type Config struct {
	Data    Data    `toml:"data"`
	Index   Index   `toml:"index"`
	Server  Server  `toml:"server"`
	Runtime Runtime `toml:"runtime"`
	UI      UI      `toml:"ui"`
}

// Load locates, parses, and validates a configuration file. An absent file is
// not an error: defaults are returned and exists reports false, so commands
// that can run without configuration keep working. Unknown keys in the file
// are ignored for forward compatibility.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolvedPath, err)
		}
	}

	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path == "" {
		path = FileName
	}
	expanded, err := expandPath(path)
	if err != nil {
		return "", false, err
	}
	info, err := os.Stat(expanded)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return expanded, false, nil
		}
		return "", false, fmt.Errorf("stat config: %w", err)
	}
	if info.IsDir() {
		return "", false, fmt.Errorf("config path %q is a directory", expanded)
	}
	return expanded, true, nil
}

// ContainerSystem reports whether the runtime launches containers rather than
// native binaries.
func (c *Config) ContainerSystem() bool {
	return c.Runtime.System != SystemNative
}

// ServerContainerName returns the configured server container name or the
// derived default tern.server.<name>.
func (c *Config) ServerContainerName() string {
	if c.Runtime.ServerContainer != "" {
		return c.Runtime.ServerContainer
	}
	return "tern.server." + c.Data.Name
}

// IndexContainerName returns the configured index container name or the
// derived default tern.index.<name>.
func (c *Config) IndexContainerName() string {
	if c.Runtime.IndexContainer != "" {
		return c.Runtime.IndexContainer
	}
	return "tern.index." + c.Data.Name
}

// UIContainerName returns the configured UI container name or the derived
// default tern.ui.<name>.
func (c *Config) UIContainerName() string {
	if c.UI.Container != "" {
		return c.UI.Container
	}
	return "tern.ui." + c.Data.Name
}

// ServerLogFile returns the dataset's server log file name.
func (c *Config) ServerLogFile() string {
	return c.Data.Name + ".server-log.txt"
}

// IndexLogFile returns the dataset's index build log file name.
func (c *Config) IndexLogFile() string {
	return c.Data.Name + ".index-log.txt"
}

// SettingsFile returns the staged settings JSON file name consumed by the
// index builder.
func (c *Config) SettingsFile() string {
	return c.Data.Name + ".settings.json"
}

// IndexLockFile returns the advisory lock file guarding index builds in the
// working directory.
func (c *Config) IndexLockFile() string {
	return c.Data.Name + ".index-lock"
}

// EndpointURL returns the base URL of the engine's HTTP endpoint.
func (c *Config) EndpointURL() string {
	return fmt.Sprintf("http://%s:%d", c.Server.HostName, c.Server.Port)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}
