package main

import (
	"fmt"

	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"

	"github.com/mmcdole/plexskill/internal/catalog"
	"github.com/mmcdole/plexskill/internal/domain"
)

type libraryRow struct {
	Server   string `json:"server"`
	Category string `json:"category"`
	ID       string `json:"id"`
	Title    string `json:"title"`
	Type     string `json:"type"`
}

func newLibrariesCommand(ctx *commandContext) *cobra.Command {
	var filter string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "libraries",
		Short: "List the library sections the skill searches",
		RunE: func(cmd *cobra.Command, args []string) error {
			provider, err := ctx.newProvider()
			if err != nil {
				return err
			}
			cat, err := provider.Get(cmd.Context())
			if err != nil {
				return err
			}

			rows := filterLibraries(libraryRows(cat), filter)
			if jsonOutput {
				return writeJSON(cmd, rows)
			}

			out := cmd.OutOrStdout()
			if len(rows) == 0 {
				fmt.Fprintln(out, "No library sections found.")
				return nil
			}
			table := make([][]string, len(rows))
			for i, r := range rows {
				table[i] = []string{r.Server, r.Category, r.ID, r.Title, r.Type}
			}
			fmt.Fprintln(out, renderTable("", []string{"Server", "Category", "ID", "Section", "Type"}, table))
			return nil
		},
	}

	cmd.Flags().StringVarP(&filter, "filter", "f", "", "Fuzzy filter on server and section names")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Write sections as JSON")
	return cmd
}

func libraryRows(cat *catalog.Catalog) []libraryRow {
	rows := []libraryRow{}
	for _, category := range domain.Categories() {
		for _, sec := range cat.Sections(category) {
			name := ""
			if srv := cat.Server(sec.ServerIndex); srv != nil {
				name = srv.Name()
			}
			rows = append(rows, libraryRow{
				Server:   name,
				Category: category.String(),
				ID:       sec.Info.ID,
				Title:    sec.Info.Title,
				Type:     sec.Info.Type,
			})
		}
	}
	return rows
}

// filterLibraries keeps rows fuzzy-matching query, best match first
func filterLibraries(rows []libraryRow, query string) []libraryRow {
	if query == "" {
		return rows
	}
	targets := make([]string, len(rows))
	for i, r := range rows {
		targets[i] = r.Server + " " + r.Title
	}
	matches := fuzzy.Find(query, targets)
	filtered := make([]libraryRow, len(matches))
	for i, m := range matches {
		filtered[i] = rows[m.Index]
	}
	return filtered
}
