package main

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"mediascan/internal/config"
	"mediascan/internal/library"
	"mediascan/internal/logging"
	"mediascan/internal/preflight"
	"mediascan/internal/scanner"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var prune bool
	var workers int
	var backend string

	cmd := &cobra.Command{
		Use:   "scan [path|url]...",
		Short: "Scan files, directories or streams into the library",
		Long: "Scan probes each target and stores the assembled records. Directories are walked\n" +
			"recursively; http(s) URLs are treated as network streams. With no arguments the\n" +
			"configured library directory is scanned.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if backend != "" {
				cfg.Scan.Backend = strings.ToLower(strings.TrimSpace(backend))
			}
			if workers > 0 {
				cfg.Scan.Workers = workers
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			targets := args
			if len(targets) == 0 {
				targets = []string{cfg.Paths.LibraryDir}
			}

			if check := preflight.CheckFFprobe(cmd.Context(), cfg); check.Failed() {
				return fmt.Errorf("ffprobe unavailable: %s", check.Detail)
			} else if !check.Passed {
				logging.WarnWithContext(logger, "ffprobe unavailable", "ffprobe_missing",
					logging.String("detail", check.Detail),
					logging.String(logging.FieldImpact, "only natively readable formats will be scanned"),
					logging.String(logging.FieldErrorHint, "install ffmpeg or set scan.ffprobe_binary"),
				)
			}

			if err := cfg.EnsureDirectories(); err != nil {
				return err
			}
			lock, err := library.AcquireLock(cfg.Paths.Database)
			if err != nil {
				if errors.Is(err, library.ErrLocked) {
					return fmt.Errorf("%w (lock file %s)", err, cfg.Paths.Database+".lock")
				}
				return err
			}
			defer lock.Release()

			return ctx.withStore(func(store *library.Store) error {
				s := scanner.New(cfg,
					scanner.WithLogger(logger),
					scanner.WithSink(store),
					scanner.WithPrune(prune),
				)
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				var failed int
				for _, target := range targets {
					if err := scanTarget(cmd, cfg, s, store, target, out, colorize); err != nil {
						if errors.Is(err, scanner.ErrUnusable) {
							fmt.Fprintln(out, renderStatusLine(target, statusError, err.Error(), colorize))
							failed++
							continue
						}
						return err
					}
				}
				if failed > 0 {
					return fmt.Errorf("%d of %d targets could not be scanned", failed, len(targets))
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&prune, "prune", false, "Remove stored records under a scanned directory that no longer exist")
	cmd.Flags().IntVarP(&workers, "workers", "j", 0, "Concurrent probes (default from config)")
	cmd.Flags().StringVar(&backend, "backend", "", "Probe backend: auto, ffprobe or native")
	return cmd
}

func scanTarget(cmd *cobra.Command, cfg *config.Config, s *scanner.Scanner, store *library.Store, target string, out io.Writer, colorize bool) error {
	ctx := cmd.Context()
	if isStreamURL(target) {
		res, err := s.ScanURL(ctx, target)
		if err != nil {
			return err
		}
		if _, err := store.Upsert(ctx, library.Record{File: res.File, MetadataCount: res.Stats.Total}); err != nil {
			return err
		}
		fmt.Fprintln(out, renderStatusLine("stream", statusOK, fmt.Sprintf("%s (%s)", target, res.File.Title.Value()), colorize))
		return nil
	}

	path, err := config.ExpandPath(target)
	if err != nil {
		return err
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("inspect path %q: %w", path, err)
	}
	if !info.IsDir() {
		res, err := s.ScanFile(ctx, path)
		if err != nil {
			return err
		}
		if _, err := store.Upsert(ctx, library.Record{File: res.File, MetadataCount: res.Stats.Total}); err != nil {
			return err
		}
		fmt.Fprintln(out, renderStatusLine("file", statusOK, fmt.Sprintf("%s (%d fields)", path, res.Stats.Total), colorize))
		return nil
	}

	summary, err := s.ScanTree(ctx, path)
	if err != nil {
		return err
	}
	printTreeSummary(out, path, summary, cfg, colorize)
	return nil
}

func printTreeSummary(out io.Writer, root string, summary *scanner.TreeSummary, cfg *config.Config, colorize bool) {
	run := summary.Run
	fmt.Fprintf(out, "Scanned %s (run %s)\n", root, run.ID)
	fmt.Fprintln(out, renderStatusLine("Stored", statusOK, fmt.Sprintf("%d files", run.Scanned), colorize))
	failKind := statusOK
	if run.Failed > 0 {
		failKind = statusWarn
	}
	fmt.Fprintln(out, renderStatusLine("Unusable", failKind, fmt.Sprintf("%d files", run.Failed), colorize))
	fmt.Fprintln(out, renderStatusLine("Skipped", statusInfo, fmt.Sprintf("%d entries (extensions: %d configured)", run.Skipped, len(cfg.Scan.Extensions)), colorize))
	if summary.Purged > 0 {
		fmt.Fprintln(out, renderStatusLine("Purged", statusInfo, fmt.Sprintf("%d stale records", summary.Purged), colorize))
	}
	fmt.Fprintln(out, renderStatusLine("Elapsed", statusInfo, summary.Elapsed.Round(time.Millisecond).String(), colorize))
}

func isStreamURL(target string) bool {
	u, err := url.Parse(target)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
