// Package logging builds the slog logger used across tern. Lines go to
// stderr in a compact console format so stdout stays reserved for command
// results.
package logging
