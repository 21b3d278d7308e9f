// Package logger provides the CLI's verbose diagnostics channel.
// With --verbose set, the query and ingestion pipelines narrate their
// steps to stderr; without it only errors are printed. Output never
// mixes with command results, which go to stdout.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	verbose = v
	mu.Unlock()
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput redirects log output, os.Stderr by default. Used by tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	output = w
	mu.Unlock()
}

// logf writes one tagged line. always bypasses the verbose gate.
func logf(tag string, always bool, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if !verbose && !always {
		return
	}
	fmt.Fprintf(output, "["+tag+"] "+format+"\n", args...)
}

// Debug prints a pipeline detail when verbose mode is enabled.
func Debug(format string, args ...any) {
	logf("DEBUG", false, format, args...)
}

// Info prints an informational message when verbose mode is enabled.
func Info(format string, args ...any) {
	logf("INFO", false, format, args...)
}

// Warn prints a warning when verbose mode is enabled.
func Warn(format string, args ...any) {
	logf("WARN", false, format, args...)
}

// Error prints an error message regardless of verbose mode.
func Error(format string, args ...any) {
	logf("ERROR", true, format, args...)
}

// Section prints a pipeline stage header when verbose mode is enabled.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}
