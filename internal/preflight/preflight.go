package preflight

import (
	"context"
	"path/filepath"

	"mediascan/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name     string
	Passed   bool
	Optional bool
	Detail   string
}

// Failed reports whether the result should fail the overall check.
func (r Result) Failed() bool {
	return !r.Passed && !r.Optional
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	// Library directory (read only)
	results = append(results, CheckDirectoryAccess("Library directory", cfg.Paths.LibraryDir, false))

	// Log and database directories must be writable; missing ones are created on first use.
	results = append(results, CheckWritableParent("Log directory", cfg.Paths.LogDir))
	results = append(results, CheckWritableParent("Database directory", filepath.Dir(cfg.Paths.Database)))

	results = append(results, CheckFFprobe(ctx, cfg))
	results = append(results, CheckLibraryLock(cfg.Paths.Database))

	return results
}

// AnyFailed reports whether any non-optional check failed.
func AnyFailed(results []Result) bool {
	for _, r := range results {
		if r.Failed() {
			return true
		}
	}
	return false
}
