package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-makerdb/pkg/renderers/tui"
	"github.com/goliatone/go-makerdb/pkg/search"
)

func newSearchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search <kind> <query>",
		Short: "Search an entity kind, e.g. locations or parts",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := a.searcher()
			query := strings.Join(args[1:], " ")
			if err := s.Search(cmd.Context(), query, args[0]); err != nil {
				return err
			}
			hits := s.Results()
			styles := tui.DefaultStyles()
			if len(hits) == 0 {
				msg := "no results"
				if len([]rune(strings.TrimSpace(query))) < search.MinQueryLength {
					msg = fmt.Sprintf("queries need at least %d characters", search.MinQueryLength)
				}
				fmt.Fprintln(a.stdout, styles.Muted.Render(msg))
				return nil
			}
			rows := make([][]string, len(hits))
			for i, hit := range hits {
				rows[i] = []string{hit.ID, hit.Name, hit.Description}
			}
			fmt.Fprintln(a.stdout, styles.Table([]string{"ID", "Name", "Description"}, rows))
			return nil
		},
	}
}
