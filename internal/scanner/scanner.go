package scanner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"mediascan/internal/config"
	"mediascan/internal/icy"
	"mediascan/internal/logging"
	"mediascan/internal/media/ffprobe"
	"mediascan/internal/media/native"
	"mediascan/internal/media/probe"
	"mediascan/internal/mediafile"
)

// Result is one assembled record together with what produced it.
type Result struct {
	File      *mediafile.MediaFile
	Stats     Stats
	Container *probe.Container
	Station   *icy.Metadata
}

// Scanner probes sources and assembles records.
type Scanner struct {
	cfg          *config.Config
	prober       probe.Prober
	streamProber probe.Prober
	icy          *icy.Client
	sink         Sink
	logger       *slog.Logger
	prune        bool
}

// Option customizes a Scanner.
type Option func(*Scanner)

// WithProber replaces the prober used for local files.
func WithProber(p probe.Prober) Option {
	return func(s *Scanner) {
		if p != nil {
			s.prober = p
		}
	}
}

// WithStreamProber replaces the prober used for HTTP sources.
func WithStreamProber(p probe.Prober) Option {
	return func(s *Scanner) {
		if p != nil {
			s.streamProber = p
		}
	}
}

// WithICYClient replaces the station metadata client.
func WithICYClient(c *icy.Client) Option {
	return func(s *Scanner) {
		if c != nil {
			s.icy = c
		}
	}
}

// WithSink persists tree scan results.
func WithSink(sink Sink) Option {
	return func(s *Scanner) {
		s.sink = sink
	}
}

// WithLogger sets the base logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scanner) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithPrune removes stored records under the scanned root that a tree scan
// did not see.
func WithPrune(prune bool) Option {
	return func(s *Scanner) {
		s.prune = prune
	}
}

// New constructs a Scanner whose probers follow cfg.Scan.Backend.
func New(cfg *config.Config, opts ...Option) *Scanner {
	s := &Scanner{
		cfg:          cfg,
		prober:       NewProber(cfg),
		streamProber: ffprobe.Prober{Binary: cfg.FFprobeBinary(), Args: []string{"-icy", "1"}},
		icy:          icy.NewClient(icy.WithTimeout(cfg.ICYTimeout()), icy.WithUserAgent(cfg.Stream.UserAgent)),
		logger:       logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.NewComponentLogger(s.logger, "scanner")
	return s
}

// NewProber returns the local-file prober selected by cfg.Scan.Backend.
func NewProber(cfg *config.Config) probe.Prober {
	ff := ffprobe.Prober{Binary: cfg.FFprobeBinary()}
	switch cfg.Scan.Backend {
	case config.BackendFFprobe:
		return ff
	case config.BackendNative:
		return native.Prober{}
	default:
		return probe.Auto{Primary: native.Prober{}, Fallback: ff}
	}
}

// ScanFile probes and assembles the local file at path.
func (s *Scanner) ScanFile(ctx context.Context, path string) (*Result, error) {
	ctx = logging.WithPath(ctx, path)
	logger := logging.WithContext(ctx, s.logger)

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	mf := mediafile.New(path)
	mf.FileSize = info.Size()
	mf.DataKind = mediafile.DataFile
	s.seed(mf)
	if mf.FileSize == 0 {
		return nil, fmt.Errorf("%s: %w: zero-byte file", path, ErrUnusable)
	}

	c, err := s.probe(ctx, s.prober, path)
	if err != nil {
		return nil, err
	}
	return s.assemble(logger, c, mf, nil)
}

// ScanURL resolves playlists, fetches station metadata, probes the stream,
// and assembles a record whose path is the original URL.
func (s *Scanner) ScanURL(ctx context.Context, rawURL string) (*Result, error) {
	ctx = logging.WithPath(ctx, rawURL)
	logger := logging.WithContext(ctx, s.logger)

	target, err := s.icy.ResolvePlaylist(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnusable, err)
	}
	if target != rawURL {
		logger.Debug("playlist resolved", logging.String("stream_url", target))
	}

	meta, err := s.icy.Fetch(ctx, target)
	if err != nil {
		logging.WarnWithContext(logger, "station metadata unavailable", "icy_fetch_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "tag values are used without station overrides"),
		)
		meta = nil
	} else if meta.StreamTitle != "" {
		logger.Debug("station now playing", logging.String("stream_title", meta.StreamTitle))
	}

	c, err := s.probe(ctx, s.streamProber, target)
	if err != nil {
		return nil, err
	}

	mf := mediafile.New(rawURL)
	mf.DataKind = mediafile.DataHTTP
	res, err := s.assemble(logger, c, mf, OverrideFromICY(meta))
	if err != nil {
		return nil, err
	}
	res.Station = meta
	return res, nil
}

func (s *Scanner) probe(ctx context.Context, p probe.Prober, path string) (*probe.Container, error) {
	if timeout := s.cfg.ProbeTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	started := time.Now()
	c, err := p.Probe(ctx, path)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: probe %s: %w", ErrUnusable, path, err)
	}
	logging.WithContext(ctx, s.logger).Debug("probed",
		logging.String("backend", c.Backend),
		logging.String("format", c.FormatName),
		logging.Int("streams", len(c.Streams)),
		logging.Duration("elapsed", time.Since(started)),
	)
	return c, nil
}

func (s *Scanner) assemble(logger *slog.Logger, c *probe.Container, mf *mediafile.MediaFile, ov *Override) (*Result, error) {
	stats, err := Assemble(c, mf, ov)
	if err != nil {
		return nil, err
	}
	logger.Debug("metadata extracted",
		logging.String("type", mf.Type.Value()),
		logging.String("extra_map", stats.ExtraMap),
		logging.Int("extra", stats.Extra),
		logging.Int("generic", stats.Generic),
		logging.Int("container", stats.Container),
		logging.Int("audio", stats.Audio),
		logging.Int("video", stats.Video),
	)
	if stats.Total == 0 {
		logging.WarnWithContext(logger, "no metadata extracted", "metadata_empty",
			logging.String("title", mf.Title.Value()),
			logging.String(logging.FieldImpact, "title falls back to the file name"),
			logging.String(logging.FieldErrorHint, "tag the file or check the probe backend"),
		)
	}
	return &Result{File: mf, Stats: stats, Container: c}, nil
}

// seed applies the directory rules from [library].
func (s *Scanner) seed(mf *mediafile.MediaFile) {
	lib := s.cfg.Library
	if underAny(mf.Path, lib.PodcastDirs) {
		mf.MediaKind.Fill(uint32(mediafile.KindPodcast))
	}
	if underAny(mf.Path, lib.AudiobookDirs) {
		mf.MediaKind.Fill(uint32(mediafile.KindAudiobook))
	}
	if underAny(mf.Path, lib.CompilationDirs) {
		mf.Compilation.Fill(1)
	}
}

func underAny(path string, dirs []string) bool {
	for _, dir := range dirs {
		dir = strings.TrimRight(dir, string(filepath.Separator))
		if dir == "" {
			continue
		}
		if path == dir || strings.HasPrefix(path, dir+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
