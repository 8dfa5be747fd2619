// Package engine turns a dataset configuration into concrete launch, stop,
// and probe actions for the Tern engine, covering both container runtimes
// and native binaries. Plans are plain values so commands can print them
// (--show) without side effects.
package engine
