package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"mediascan/internal/config"
	"mediascan/internal/media/streams"
	"mediascan/internal/scanner"
)

func newProbeCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	var showStreams bool

	cmd := &cobra.Command{
		Use:   "probe <path|url>",
		Short: "Assemble and print one record without storing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			s := scanner.New(cfg, scanner.WithLogger(logger))

			var res *scanner.Result
			if isStreamURL(args[0]) {
				res, err = s.ScanURL(cmd.Context(), args[0])
			} else {
				path, expandErr := config.ExpandPath(args[0])
				if expandErr != nil {
					return expandErr
				}
				res, err = s.ScanFile(cmd.Context(), path)
			}
			if err != nil {
				return err
			}

			if jsonOutput {
				return writeJSON(cmd, newRecordView(res.File))
			}

			out := cmd.OutOrStdout()
			title := fmt.Sprintf("%s via %s", res.File.Type.Value(), res.Container.Backend)
			fmt.Fprintln(out, renderTable(title, []string{"Field", "Value"}, recordRows(res.File), nil))
			stats := res.Stats
			fmt.Fprintf(out, "metadata: %d fields (container %d, audio %d, video %d; %s %d, generic %d)\n",
				stats.Total, stats.Container, stats.Audio, stats.Video, mapLabel(stats.ExtraMap), stats.Extra, stats.Generic)
			if res.Station != nil && res.Station.StreamTitle != "" {
				fmt.Fprintf(out, "now playing: %s\n", res.Station.StreamTitle)
			}

			if showStreams {
				rows := make([][]string, 0, len(res.Container.Streams))
				for _, st := range res.Container.Streams {
					rows = append(rows, []string{
						strconv.Itoa(st.Index),
						string(st.MediaType),
						st.Codec,
						streams.Summary(st),
						strconv.Itoa(len(st.Tags)),
					})
				}
				fmt.Fprintln(out, renderTable("Streams", []string{"#", "Type", "Codec", "Details", "Tags"}, rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight}))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the record as JSON")
	cmd.Flags().BoolVar(&showStreams, "streams", false, "List the container's streams")
	return cmd
}

func mapLabel(name string) string {
	if name == "" {
		return "no extra map"
	}
	return name
}
