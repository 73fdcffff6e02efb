package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"mediascan/internal/config"
	"mediascan/internal/library"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show <path|url>",
		Short: "Display a stored record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			if !isStreamURL(key) {
				expanded, err := config.ExpandPath(key)
				if err != nil {
					return err
				}
				key = expanded
			}
			return ctx.withStore(func(store *library.Store) error {
				rec, err := store.GetByPath(cmd.Context(), key)
				if err != nil {
					if errors.Is(err, library.ErrNotFound) {
						return fmt.Errorf("%s is not in the library; run `mediascan scan` first", key)
					}
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, newStoredRecordView(rec))
				}
				title := fmt.Sprintf("#%d, %d metadata fields", rec.ID, rec.MetadataCount)
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(title, []string{"Field", "Value"}, recordRows(rec.File), nil))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the record as JSON")
	return cmd
}
