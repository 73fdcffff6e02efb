package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"mediascan/internal/tagmap"
)

func newMapsCommand() *cobra.Command {
	var only string

	cmd := &cobra.Command{
		Use:         "maps",
		Short:       "Print the tag field maps in priority order",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			printed := false
			for _, m := range tagmap.All() {
				if only != "" && only != m.Name() {
					continue
				}
				rows := make([][]string, 0, m.Len())
				for i, entry := range m.Entries() {
					parser := "-"
					if entry.Parser != nil {
						parser = entry.Parser.Name
					}
					rows = append(rows, []string{
						strconv.Itoa(i + 1),
						entry.Key,
						entry.Field.String(),
						entry.Kind.String(),
						parser,
					})
				}
				fmt.Fprintln(out, renderTable(m.Name(), []string{"#", "Tag", "Field", "Kind", "Parser"}, rows,
					[]columnAlignment{alignRight}))
				printed = true
			}
			if !printed {
				return fmt.Errorf("unknown map %q", only)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&only, "map", "", "Print a single map (generic, tv, vorbis, id3)")
	return cmd
}
