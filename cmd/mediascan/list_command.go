package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"mediascan/internal/config"
	"mediascan/internal/library"
	"mediascan/internal/mediafile"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	var kind string
	var album int64
	var prefix string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored records",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := library.Filter{AlbumID: album, Limit: limit}
			if strings.TrimSpace(kind) != "" {
				parsed, ok := mediafile.ParseMediaKind(kind)
				if !ok {
					return fmt.Errorf("unknown media kind %q", kind)
				}
				filter.Kind = parsed
			}
			if strings.TrimSpace(prefix) != "" {
				expanded, err := config.ExpandPath(prefix)
				if err != nil {
					return err
				}
				filter.Prefix = expanded
			}

			return ctx.withStore(func(store *library.Store) error {
				records, err := store.List(cmd.Context(), filter)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(records) == 0 {
					fmt.Fprintln(out, "No records found")
					return nil
				}
				rows := make([][]string, 0, len(records))
				for _, rec := range records {
					mf := rec.File
					rows = append(rows, []string{
						strconv.FormatInt(rec.ID, 10),
						mf.Title.Value(),
						mf.Artist.Value(),
						mf.Album.Value(),
						mf.Type.Value(),
						mf.Kind().String(),
						formatLength(mf.SongLength),
						mf.Path,
					})
				}
				headers := []string{"ID", "Title", "Artist", "Album", "Type", "Kind", "Length", "Path"}
				aligns := []columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft}
				fmt.Fprintln(out, renderTable("", headers, rows, aligns))
				fmt.Fprintf(out, "%d records\n", len(records))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "Filter by media kind (music, movie, podcast, audiobook, musicvideo, tvshow)")
	cmd.Flags().Int64Var(&album, "album", 0, "Filter by album identity")
	cmd.Flags().StringVar(&prefix, "prefix", "", "Filter by path prefix")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum records to list (0 for all)")
	return cmd
}
