package deps

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

const versionTimeout = 5 * time.Second

// ErrFFprobeNotFound is returned when the configured binary cannot be
// resolved on PATH.
var ErrFFprobeNotFound = errors.New("ffprobe not found")

// FFprobe describes the ffprobe binary a scan will execute.
type FFprobe struct {
	// Configured is the command as written in config, or "ffprobe".
	Configured string
	// Path is the resolved executable.
	Path string
	// Version is the first line of "-version" output, without the copyright.
	Version string
}

// ResolveFFprobePath returns the configured ffprobe binary, falling back to
// the PATH lookup name when none is configured.
func ResolveFFprobePath(configured string) string {
	if trimmed := strings.TrimSpace(configured); trimmed != "" {
		return trimmed
	}
	return "ffprobe"
}

// LocateFFprobe resolves the configured binary without running it.
func LocateFFprobe(configured string) (FFprobe, error) {
	bin := FFprobe{Configured: ResolveFFprobePath(configured)}
	resolved, err := exec.LookPath(bin.Configured)
	if err != nil {
		return bin, fmt.Errorf("%w: %q", ErrFFprobeNotFound, bin.Configured)
	}
	bin.Path = resolved
	return bin, nil
}

// InspectFFprobe locates the binary and reads its version.
func InspectFFprobe(ctx context.Context, configured string) (FFprobe, error) {
	bin, err := LocateFFprobe(configured)
	if err != nil {
		return bin, err
	}
	bin.Version, err = FFprobeVersion(ctx, bin.Path)
	return bin, err
}

// FFprobeVersion runs "<binary> -version" and returns the first output line,
// e.g. "ffprobe version 6.1.1".
func FFprobeVersion(ctx context.Context, binary string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, versionTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, ResolveFFprobePath(binary), "-version").Output()
	if err != nil {
		return "", fmt.Errorf("ffprobe -version: %w", err)
	}
	line, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
	line = strings.TrimSpace(line)
	if line == "" {
		return "", fmt.Errorf("ffprobe -version: empty output")
	}
	if head, _, found := strings.Cut(line, " Copyright"); found {
		line = head
	}
	return line, nil
}
