package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"mediascan/internal/icy"
	"mediascan/internal/library"
	"mediascan/internal/preflight"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	var streamURL string

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check tools, directories and the library database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			fmt.Fprintf(out, "Config: %s\n", ctx.configPath)
			results := preflight.RunAll(cmd.Context(), cfg)
			if streamURL != "" {
				client := icy.NewClient(icy.WithTimeout(cfg.ICYTimeout()), icy.WithUserAgent(cfg.Stream.UserAgent))
				results = append(results, preflight.CheckStation(cmd.Context(), client, streamURL))
			}
			for _, r := range results {
				kind := statusOK
				switch {
				case r.Failed():
					kind = statusError
				case !r.Passed:
					kind = statusWarn
				}
				fmt.Fprintln(out, renderStatusLine(r.Name, kind, r.Detail, colorize))
			}

			if run, count, ok := libraryStatus(cmd, ctx); ok {
				detail := fmt.Sprintf("%d records", count)
				if run != nil {
					detail = fmt.Sprintf("%s, last scan %s (%d stored, %d unusable)",
						detail, run.StartedAt.Local().Format("2006-01-02 15:04"), run.Scanned, run.Failed)
				}
				fmt.Fprintln(out, renderStatusLine("Library", statusInfo, detail, colorize))
			}

			if preflight.AnyFailed(results) {
				return errors.New("one or more checks failed")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&streamURL, "stream", "", "Also check a network stream for station metadata")
	return cmd
}

// libraryStatus reads the record count and latest run without creating a
// database that does not exist yet.
func libraryStatus(cmd *cobra.Command, ctx *commandContext) (*library.Run, int, bool) {
	cfg, err := ctx.ensureConfig()
	if err != nil || !fileExists(cfg.Paths.Database) {
		return nil, 0, false
	}
	var (
		run   *library.Run
		count int
	)
	err = ctx.withStore(func(store *library.Store) error {
		var err error
		if count, err = store.Count(cmd.Context()); err != nil {
			return err
		}
		run, err = store.LatestRun(cmd.Context())
		if errors.Is(err, library.ErrNotFound) {
			run, err = nil, nil
		}
		return err
	})
	return run, count, err == nil
}
