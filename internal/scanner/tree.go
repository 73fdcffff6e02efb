package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"mediascan/internal/library"
	"mediascan/internal/logging"
)

// Sink persists tree scan results. *library.Store satisfies it.
type Sink interface {
	BeginRun(ctx context.Context, root string) (*library.Run, error)
	Upsert(ctx context.Context, rec library.Record) (int64, error)
	FinishRun(ctx context.Context, run *library.Run) error
	PurgeStale(ctx context.Context, run *library.Run) (int64, error)
}

// TreeSummary reports the outcome of ScanTree.
type TreeSummary struct {
	Run      *library.Run
	Purged   int64
	Failures map[string]error
	Elapsed  time.Duration
}

// ScanTree scans every media file under root and persists each record. A
// file that fails to scan is counted and logged; only sink and walk errors
// abort the tree.
func (s *Scanner) ScanTree(ctx context.Context, root string) (*TreeSummary, error) {
	if s.sink == nil {
		return nil, errors.New("scan tree: no sink configured")
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	started := time.Now()
	run, err := s.sink.BeginRun(ctx, root+string(filepath.Separator))
	if err != nil {
		return nil, err
	}
	ctx = logging.WithRunID(ctx, run.ID)
	logger := logging.WithContext(ctx, s.logger)
	logger.Info("scan started", logging.String("root", root), logging.Int("workers", s.workers()))

	summary := &TreeSummary{Run: run, Failures: map[string]error{}}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers())

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			logger.Warn("walk error", logging.String("entry", path), logging.Error(err))
			return nil
		}
		if gctx.Err() != nil {
			return gctx.Err()
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !s.wantFile(path, d) {
			mu.Lock()
			run.Skipped++
			mu.Unlock()
			return nil
		}

		g.Go(func() error {
			res, err := s.ScanFile(gctx, path)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				logging.WithContext(logging.WithPath(gctx, path), s.logger).Info("file skipped",
					logging.Error(err),
					logging.Bool("unusable", errors.Is(err, ErrUnusable)),
				)
				mu.Lock()
				run.Failed++
				summary.Failures[path] = err
				mu.Unlock()
				return nil
			}
			rec := library.Record{File: res.File, MetadataCount: res.Stats.Total, ScanRunID: run.ID}
			if _, err := s.sink.Upsert(gctx, rec); err != nil {
				return err
			}
			mu.Lock()
			run.Scanned++
			mu.Unlock()
			return nil
		})
		return nil
	})

	if err := g.Wait(); err != nil {
		walkErr = err
	}
	if walkErr != nil {
		_ = s.sink.FinishRun(context.WithoutCancel(ctx), run)
		return summary, fmt.Errorf("scan %s: %w", root, walkErr)
	}

	if s.prune {
		purged, err := s.sink.PurgeStale(ctx, run)
		if err != nil {
			return summary, err
		}
		summary.Purged = purged
	}
	if err := s.sink.FinishRun(ctx, run); err != nil {
		return summary, err
	}
	summary.Elapsed = time.Since(started)
	logger.Info("scan finished",
		logging.Int("scanned", run.Scanned),
		logging.Int("failed", run.Failed),
		logging.Int("skipped", run.Skipped),
		logging.Int64("purged", summary.Purged),
		logging.Duration("elapsed", summary.Elapsed),
	)
	return summary, nil
}

func (s *Scanner) workers() int {
	if s.cfg.Scan.Workers > 0 {
		return s.cfg.Scan.Workers
	}
	return 1
}

func (s *Scanner) wantFile(path string, d fs.DirEntry) bool {
	if strings.HasPrefix(d.Name(), ".") || !s.cfg.ScanExtension(path) {
		return false
	}
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink != 0 && s.cfg.Scan.FollowSymlinks {
		info, err := os.Stat(path)
		return err == nil && info.Mode().IsRegular()
	}
	return false
}
