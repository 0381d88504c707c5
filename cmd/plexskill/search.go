package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mmcdole/plexskill/internal/domain"
	"github.com/mmcdole/plexskill/internal/skill"
)

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var mediaType string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "search <phrase>",
		Short: "Run one search and print the batches",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hint, err := domain.ParseMediaType(mediaType)
			if err != nil {
				return err
			}

			provider, err := ctx.newProvider()
			if err != nil {
				return err
			}
			searcher, err := ctx.newSearcher(provider, "")
			if err != nil {
				return err
			}

			req := skill.Request{Phrase: strings.Join(args, " "), MediaType: hint}
			out := cmd.OutOrStdout()

			if jsonOutput || !isTerminal(out) {
				batches, err := searcher.SearchAll(cmd.Context(), req)
				if err != nil {
					return err
				}
				if batches == nil {
					batches = []domain.Batch{}
				}
				return writeJSON(cmd, batches)
			}

			found := 0
			for batch, err := range searcher.Search(cmd.Context(), req) {
				if err != nil {
					return err
				}
				found++
				fmt.Fprintln(out, renderBatch(batch))
			}
			if found == 0 {
				fmt.Fprintln(out, "No results.")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&mediaType, "type", "t", "generic", "Media type hint (music, movie, tv, ...)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Write batches as JSON")
	return cmd
}

func renderBatch(b domain.Batch) string {
	rows := make([][]string, 0, len(b.Playlist))
	for i, r := range b.Playlist {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			r.Title,
			r.Album,
			r.Artist,
			formatDuration(r.Length),
		})
	}
	title := fmt.Sprintf("%s · %s · %d%%", b.Category, b.Title, b.MatchConfidence)
	return renderTable(title, []string{"#", "Title", "Album", "Artist", "Length"}, rows, 1, 5)
}

// formatDuration renders milliseconds as m:ss or h:mm:ss
func formatDuration(ms int64) string {
	if ms <= 0 {
		return "-"
	}
	secs := ms / 1000
	h, m, s := secs/3600, (secs%3600)/60, secs%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
