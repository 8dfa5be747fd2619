// Package logs tails the engine log files that server and index runs leave
// in the working directory.
//
// It emits a bounded number of trailing lines with constant memory and can
// follow a file as the engine appends to it, surviving truncation when a
// restarted server reopens its log. Callers cancel the context to stop a
// follow loop.
package logs
