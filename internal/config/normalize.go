package config

import (
	"fmt"
	"os"
	"runtime"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeScan()
	c.normalizeStream()
	if err := c.normalizeLibrary(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv("MEDIASCAN_LIBRARY_DIR"); ok && strings.TrimSpace(value) != "" {
		c.Paths.LibraryDir = strings.TrimSpace(value)
	}
	var err error
	if c.Paths.LibraryDir, err = expandPath(c.Paths.LibraryDir); err != nil {
		return fmt.Errorf("paths.library_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.Database) == "" {
		c.Paths.Database = Default().Paths.Database
	}
	if c.Paths.Database, err = expandPath(c.Paths.Database); err != nil {
		return fmt.Errorf("paths.database: %w", err)
	}
	return nil
}

func (c *Config) normalizeScan() {
	c.Scan.Backend = strings.ToLower(strings.TrimSpace(c.Scan.Backend))
	if c.Scan.Backend == "" {
		c.Scan.Backend = defaultBackend
	}
	c.Scan.FFprobeBinary = strings.TrimSpace(c.Scan.FFprobeBinary)
	if value, ok := os.LookupEnv("MEDIASCAN_FFPROBE"); ok && strings.TrimSpace(value) != "" {
		c.Scan.FFprobeBinary = strings.TrimSpace(value)
	}
	if c.Scan.FFprobeBinary == "" {
		c.Scan.FFprobeBinary = defaultFFprobeBinary
	}
	if c.Scan.Workers == 0 {
		c.Scan.Workers = runtime.NumCPU()
	}

	if len(c.Scan.Extensions) == 0 {
		c.Scan.Extensions = append([]string(nil), defaultExtensions...)
		return
	}
	exts := make([]string, 0, len(c.Scan.Extensions))
	seen := make(map[string]struct{}, len(c.Scan.Extensions))
	for _, ext := range c.Scan.Extensions {
		normalized := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(ext)), ".")
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		exts = append(exts, normalized)
	}
	c.Scan.Extensions = exts
}

func (c *Config) normalizeStream() {
	c.Stream.UserAgent = strings.TrimSpace(c.Stream.UserAgent)
	if c.Stream.UserAgent == "" {
		c.Stream.UserAgent = defaultUserAgent
	}
}

func (c *Config) normalizeLibrary() error {
	var err error
	if c.Library.CompilationDirs, err = expandPaths(c.Library.CompilationDirs); err != nil {
		return fmt.Errorf("library.compilation_dirs: %w", err)
	}
	if c.Library.PodcastDirs, err = expandPaths(c.Library.PodcastDirs); err != nil {
		return fmt.Errorf("library.podcast_dirs: %w", err)
	}
	if c.Library.AudiobookDirs, err = expandPaths(c.Library.AudiobookDirs); err != nil {
		return fmt.Errorf("library.audiobook_dirs: %w", err)
	}
	return nil
}

func expandPaths(values []string) ([]string, error) {
	out := make([]string, 0, len(values))
	for _, value := range values {
		if strings.TrimSpace(value) == "" {
			continue
		}
		expanded, err := expandPath(strings.TrimSpace(value))
		if err != nil {
			return nil, err
		}
		out = append(out, expanded)
	}
	return out, nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
