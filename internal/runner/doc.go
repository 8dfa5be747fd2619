// Package runner builds and executes the external commands tern drives:
// container engines, index builders, servers, and user-supplied pipelines.
package runner
