// Package preset ships ready-made tern.toml templates for well-known
// datasets and materializes them into a working directory.
package preset
