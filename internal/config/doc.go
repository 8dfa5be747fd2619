// Package config loads, normalizes, and validates the per-dataset tern.toml.
//
// One working directory describes one dataset: the configuration file names
// the dataset, how to fetch its input files, how to build its index, and how
// to launch and reach the engine server. Load tolerates an absent file (the
// defaults are returned and the caller decides whether that is fatal) and
// ignores unknown keys for forward compatibility.
//
// Commands declare the keys they depend on through Require, which reports the
// first missing key before any external process or HTTP request is issued.
package config
