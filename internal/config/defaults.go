package config

// Runtime systems accepted in [runtime].system.
const (
	SystemDocker = "docker"
	SystemPodman = "podman"
	SystemNative = "native"
)

const (
	defaultHostName                = "localhost"
	defaultPort                    = 7015
	defaultMemoryForQueries        = "5G"
	defaultCacheMaxSize            = "2G"
	defaultCacheMaxSizeSingleEntry = "1G"
	defaultCacheMaxNumEntries      = 100
	defaultTimeout                 = "30s"
	defaultNumThreads              = 8
	defaultIndexFormat             = "ttl"
	defaultSystem                  = SystemDocker
	defaultImage                   = "terndata/tern:latest"
	defaultIndexBinary             = "tern-indexer"
	defaultServerBinary            = "tern-server"
	defaultUIPort                  = 7000
	defaultUIImage                 = "terndata/tern-ui:latest"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Index: Index{
			Format:          defaultIndexFormat,
			ParallelParsing: true,
		},
		Server: Server{
			HostName:                defaultHostName,
			Port:                    defaultPort,
			MemoryForQueries:        defaultMemoryForQueries,
			CacheMaxSize:            defaultCacheMaxSize,
			CacheMaxSizeSingleEntry: defaultCacheMaxSizeSingleEntry,
			CacheMaxNumEntries:      defaultCacheMaxNumEntries,
			Timeout:                 defaultTimeout,
			NumThreads:              defaultNumThreads,
		},
		Runtime: Runtime{
			System:       defaultSystem,
			Image:        defaultImage,
			IndexBinary:  defaultIndexBinary,
			ServerBinary: defaultServerBinary,
		},
		UI: UI{
			Port:  defaultUIPort,
			Image: defaultUIImage,
		},
	}
}
