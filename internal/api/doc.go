// Package api is the HTTP client for a running Tern engine endpoint:
// queries, updates, runtime settings, cache administration, and the
// readiness probe. Every request can render itself as an equivalent curl
// command for --show.
package api
