package scanner_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"mediascan/internal/config"
	"mediascan/internal/library"
	"mediascan/internal/media/ffprobe"
	"mediascan/internal/media/native"
	"mediascan/internal/media/probe"
	"mediascan/internal/mediafile"
	"mediascan/internal/scanner"
	"mediascan/internal/testsupport"
)

func mp3Container(tags ...probe.Tag) *probe.Container {
	return &probe.Container{
		FormatName: "mp3",
		BitRate:    128000,
		Tags:       tags,
		Streams:    []probe.Stream{testsupport.AudioStream("mp3")},
	}
}

func TestNewProberFollowsBackend(t *testing.T) {
	tests := []struct {
		backend string
		check   func(probe.Prober) bool
	}{
		{backend: config.BackendNative, check: func(p probe.Prober) bool { _, ok := p.(native.Prober); return ok }},
		{backend: config.BackendFFprobe, check: func(p probe.Prober) bool { _, ok := p.(ffprobe.Prober); return ok }},
		{backend: config.BackendAuto, check: func(p probe.Prober) bool { _, ok := p.(probe.Auto); return ok }},
	}
	for _, tt := range tests {
		cfg := testsupport.NewConfig(t, testsupport.WithBackend(tt.backend))
		if p := scanner.NewProber(cfg); !tt.check(p) {
			t.Fatalf("backend %q produced %T", tt.backend, p)
		}
	}
}

func TestScanFileZeroByte(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	prober := &testsupport.StaticProber{Containers: map[string]*probe.Container{"empty.mp3": mp3Container()}}
	s := scanner.New(cfg, scanner.WithProber(prober))

	path := filepath.Join(cfg.Paths.LibraryDir, "empty.mp3")
	testsupport.WriteFile(t, path, 0)

	_, err := s.ScanFile(context.Background(), path)
	if !errors.Is(err, scanner.ErrUnusable) {
		t.Fatalf("expected ErrUnusable, got %v", err)
	}
	if len(prober.Calls) != 0 {
		t.Fatalf("zero-byte file should not be probed, calls=%v", prober.Calls)
	}
}

func TestScanFileProbeFailure(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	s := scanner.New(cfg, scanner.WithProber(&testsupport.StaticProber{}))

	path := filepath.Join(cfg.Paths.LibraryDir, "garbage.mp3")
	testsupport.WriteFile(t, path, 512)

	_, err := s.ScanFile(context.Background(), path)
	if !errors.Is(err, scanner.ErrUnusable) || !errors.Is(err, probe.ErrUnsupported) {
		t.Fatalf("expected unusable wrapping unsupported, got %v", err)
	}
}

func TestScanFileSeedsDirectoryRules(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithPodcastDir("Podcasts"))
	prober := &testsupport.StaticProber{Containers: map[string]*probe.Container{
		"ep1.mp3": mp3Container(probe.Tag{Key: "title", Value: "Episode One"}),
	}}
	s := scanner.New(cfg, scanner.WithProber(prober))

	path := filepath.Join(cfg.Paths.LibraryDir, "Podcasts", "show", "ep1.mp3")
	testsupport.WriteFile(t, path, 4096)

	res, err := s.ScanFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ScanFile: %v", err)
	}
	mf := res.File
	if mf.Kind() != mediafile.KindPodcast {
		t.Fatalf("kind = %d, want podcast", mf.Kind())
	}
	if mf.FileSize != 4096 || mf.DataKind != mediafile.DataFile {
		t.Fatalf("unexpected file fields size=%d kind=%v", mf.FileSize, mf.DataKind)
	}
	if mf.Title.Value() != "Episode One" || res.Stats.Total != 1 {
		t.Fatalf("title=%q total=%d", mf.Title.Value(), res.Stats.Total)
	}
}

func TestScanTreePersistsAndPrunes(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	lib := cfg.Paths.LibraryDir

	prober := &testsupport.StaticProber{Containers: map[string]*probe.Container{
		"a.mp3": mp3Container(probe.Tag{Key: "title", Value: "A"}),
		"b.mp3": mp3Container(),
		"c.mp3": mp3Container(probe.Tag{Key: "title", Value: "Hidden"}),
	}}
	testsupport.WriteFile(t, filepath.Join(lib, "a.mp3"), 1024)
	testsupport.WriteFile(t, filepath.Join(lib, "sub", "b.mp3"), 1024)
	testsupport.WriteFile(t, filepath.Join(lib, "sub", "broken.mp3"), 1024)
	testsupport.WriteFile(t, filepath.Join(lib, "notes.txt"), 10)
	testsupport.WriteFile(t, filepath.Join(lib, ".cache", "c.mp3"), 1024)

	s := scanner.New(cfg, scanner.WithProber(prober), scanner.WithSink(store), scanner.WithPrune(true))
	ctx := context.Background()

	summary, err := s.ScanTree(ctx, lib)
	if err != nil {
		t.Fatalf("ScanTree: %v", err)
	}
	run := summary.Run
	if run.Scanned != 2 || run.Failed != 1 || run.Skipped != 1 {
		t.Fatalf("unexpected counts scanned=%d failed=%d skipped=%d", run.Scanned, run.Failed, run.Skipped)
	}
	if _, ok := summary.Failures[filepath.Join(lib, "sub", "broken.mp3")]; !ok {
		t.Fatalf("broken file missing from failures: %v", summary.Failures)
	}

	rec, err := store.GetByPath(ctx, filepath.Join(lib, "a.mp3"))
	if err != nil {
		t.Fatalf("GetByPath: %v", err)
	}
	if rec.File.Title.Value() != "A" || rec.MetadataCount != 1 || rec.ScanRunID != run.ID {
		t.Fatalf("unexpected stored record %+v", rec)
	}
	untagged, err := store.GetByPath(ctx, filepath.Join(lib, "sub", "b.mp3"))
	if err != nil {
		t.Fatalf("GetByPath: %v", err)
	}
	if untagged.File.Title.Value() != "b" || untagged.MetadataCount != 0 {
		t.Fatalf("unexpected untagged record title=%q count=%d", untagged.File.Title.Value(), untagged.MetadataCount)
	}

	stored, err := store.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if !stored.Finished() || stored.Scanned != 2 {
		t.Fatalf("run not finished correctly: %+v", stored)
	}

	if err := os.Remove(filepath.Join(lib, "a.mp3")); err != nil {
		t.Fatalf("remove: %v", err)
	}
	summary, err = s.ScanTree(ctx, lib)
	if err != nil {
		t.Fatalf("second ScanTree: %v", err)
	}
	if summary.Purged != 1 {
		t.Fatalf("purged = %d, want 1", summary.Purged)
	}
	if _, err := store.GetByPath(ctx, filepath.Join(lib, "a.mp3")); !errors.Is(err, library.ErrNotFound) {
		t.Fatalf("expected removed file to be purged, got %v", err)
	}
	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 1 {
		t.Fatalf("count = %d, want 1", count)
	}
}

func TestScanTreeRequiresSink(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	s := scanner.New(cfg, scanner.WithProber(&testsupport.StaticProber{}))
	if _, err := s.ScanTree(context.Background(), cfg.Paths.LibraryDir); err == nil {
		t.Fatal("expected error without a sink")
	}
}

func TestScanURLAppliesStationMetadata(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/listen.pls":
			w.Header().Set("Content-Type", "audio/x-scpls")
			_, _ = w.Write([]byte("[playlist]\nFile1=/live\nNumberOfEntries=1\n"))
		case "/live":
			if r.Header.Get("Icy-MetaData") != "1" {
				http.Error(w, "missing icy header", http.StatusBadRequest)
				return
			}
			w.Header().Set("icy-name", "Radio X")
			w.Header().Set("icy-genre", "Jazz")
			w.Header().Set("icy-br", "128")
			_, _ = w.Write(make([]byte, 64))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	cfg := testsupport.NewConfig(t)
	prober := &testsupport.StaticProber{Containers: map[string]*probe.Container{
		"live": mp3Container(probe.Tag{Key: "title", Value: "Now Playing"}),
	}}
	s := scanner.New(cfg, scanner.WithStreamProber(prober))

	playlist := srv.URL + "/listen.pls"
	res, err := s.ScanURL(context.Background(), playlist)
	if err != nil {
		t.Fatalf("ScanURL: %v", err)
	}
	mf := res.File
	if mf.Path != playlist || mf.DataKind != mediafile.DataHTTP {
		t.Fatalf("unexpected source path=%q kind=%v", mf.Path, mf.DataKind)
	}
	if mf.Title.Value() != "Radio X" || mf.Artist.Value() != "Radio X" || mf.Genre.Value() != "Jazz" {
		t.Fatalf("station override not applied: title=%q artist=%q genre=%q", mf.Title.Value(), mf.Artist.Value(), mf.Genre.Value())
	}
	if res.Station == nil || res.Station.Bitrate != 128 {
		t.Fatalf("unexpected station %+v", res.Station)
	}
	if len(prober.Calls) != 1 || prober.Calls[0] != srv.URL+"/live" {
		t.Fatalf("stream prober calls = %v", prober.Calls)
	}
}

func TestScanURLWithoutStationMetadata(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer srv.Close()

	cfg := testsupport.NewConfig(t)
	prober := &testsupport.StaticProber{Containers: map[string]*probe.Container{
		"stream.mp3": mp3Container(probe.Tag{Key: "title", Value: "Tagged"}),
	}}
	s := scanner.New(cfg, scanner.WithStreamProber(prober))

	res, err := s.ScanURL(context.Background(), srv.URL+"/stream.mp3")
	if err != nil {
		t.Fatalf("ScanURL: %v", err)
	}
	if res.File.Title.Value() != "Tagged" || res.Station != nil {
		t.Fatalf("unexpected result title=%q station=%+v", res.File.Title.Value(), res.Station)
	}
}
