// Package main hosts the tern CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into external
// engine commands (container runs or native binaries), SPARQL endpoint
// requests, log tailing, and configuration scaffolding. It centralizes
// configuration resolution, process execution, and output rendering so
// subcommands can focus on user experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
// That separation keeps the CLI declarative while invocation building and
// endpoint access live in reusable components.
package main
