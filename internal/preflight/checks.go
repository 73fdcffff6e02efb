package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"mediascan/internal/config"
	"mediascan/internal/deps"
	"mediascan/internal/icy"
	"mediascan/internal/library"
)

// CheckDirectoryAccess verifies that the directory exists and is readable,
// and writable when writable is set.
func CheckDirectoryAccess(name, path string, writable bool) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	mode := uint32(unix.R_OK | unix.X_OK)
	label := "read ok"
	if writable {
		mode |= unix.W_OK
		label = "read/write ok"
	}
	if err := unix.Access(path, mode); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s)", path, label)}
}

// CheckWritableParent passes when path is a writable directory, or when it
// does not exist yet and its nearest existing ancestor is writable.
func CheckWritableParent(name, path string) Result {
	if _, err := os.Stat(path); err == nil {
		return CheckDirectoryAccess(name, path, true)
	}
	ancestor := filepath.Dir(path)
	for {
		if _, err := os.Stat(ancestor); err == nil {
			break
		}
		next := filepath.Dir(ancestor)
		if next == ancestor {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: no existing ancestor)", path)}
		}
		ancestor = next
	}
	if err := unix.Access(ancestor, unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: cannot create under %s: %v)", path, ancestor, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (will be created)", path)}
}

// CheckFFprobe verifies the ffprobe binary. It is optional for the auto
// backend and skipped for the native backend.
func CheckFFprobe(ctx context.Context, cfg *config.Config) Result {
	const name = "FFprobe"

	if cfg.Scan.Backend == config.BackendNative {
		return Result{Name: name, Passed: true, Optional: true, Detail: "not used (native backend)"}
	}
	optional := cfg.Scan.Backend == config.BackendAuto
	bin, err := deps.InspectFFprobe(ctx, cfg.FFprobeBinary())
	switch {
	case errors.Is(err, deps.ErrFFprobeNotFound):
		return Result{Name: name, Optional: optional, Detail: fmt.Sprintf("binary %q not found", bin.Configured)}
	case err != nil:
		return Result{Name: name, Optional: optional, Detail: fmt.Sprintf("%s (error: %v)", bin.Path, err)}
	}
	return Result{Name: name, Passed: true, Optional: optional, Detail: fmt.Sprintf("%s (%s)", bin.Path, bin.Version)}
}

// CheckLibraryLock reports whether another scan currently holds the
// database lock.
func CheckLibraryLock(dbPath string) Result {
	const name = "Library lock"

	if _, err := os.Stat(filepath.Dir(dbPath)); err != nil {
		return Result{Name: name, Passed: true, Detail: "database not created yet"}
	}
	lock, err := library.AcquireLock(dbPath)
	if err != nil {
		if errors.Is(err, library.ErrLocked) {
			return Result{Name: name, Detail: "held by another scan"}
		}
		return Result{Name: name, Detail: err.Error()}
	}
	_ = lock.Release()
	return Result{Name: name, Passed: true, Detail: "free"}
}

// CheckStation fetches station metadata from a network stream.
func CheckStation(ctx context.Context, client *icy.Client, url string) Result {
	const name = "Stream"

	meta, err := client.Fetch(ctx, url)
	if err != nil {
		return Result{Name: name, Detail: summarizeStreamError(err)}
	}
	if meta.Empty() {
		return Result{Name: name, Passed: true, Detail: "reachable (no station metadata)"}
	}
	detail := meta.Name
	if detail == "" {
		detail = meta.Description
	}
	if detail == "" {
		detail = meta.StreamTitle
	}
	if meta.Bitrate > 0 {
		detail = fmt.Sprintf("%s, %d kbps", detail, meta.Bitrate)
	}
	return Result{Name: name, Passed: true, Detail: detail}
}

func summarizeStreamError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "request timed out (stream unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "request timed out (stream unreachable)"
	}
	return err.Error()
}
