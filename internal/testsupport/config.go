package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"mediascan/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.LibraryDir = filepath.Join(base, "library")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.Database = filepath.Join(base, "data", "library.db")
	cfgVal.Scan.Workers = 2

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := os.MkdirAll(cfgVal.Paths.LibraryDir, 0o755); err != nil {
		t.Fatalf("mkdir library dir: %v", err)
	}
	return builder.cfg
}

// WithBackend selects the probe backend.
func WithBackend(backend string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Scan.Backend = backend
	}
}

// WithPodcastDir marks a library subdirectory as holding podcasts.
func WithPodcastDir(rel string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Library.PodcastDirs = append(b.cfg.Library.PodcastDirs, filepath.Join(b.cfg.Paths.LibraryDir, rel))
	}
}

// WithStubbedFFprobe writes an ffprobe stand-in that prints payload and
// points the config at it.
func WithStubbedFFprobe(payload string) ConfigOption {
	return func(b *configBuilder) {
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		payloadPath := filepath.Join(binDir, "ffprobe.json")
		if err := os.WriteFile(payloadPath, []byte(payload), 0o644); err != nil {
			b.t.Fatalf("write ffprobe payload: %v", err)
		}
		script := "#!/bin/sh\ncat '" + payloadPath + "'\n"
		target := filepath.Join(binDir, "ffprobe")
		if err := os.WriteFile(target, []byte(script), 0o755); err != nil {
			b.t.Fatalf("write ffprobe stub: %v", err)
		}
		b.cfg.Scan.FFprobeBinary = target
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.LibraryDir)
}
