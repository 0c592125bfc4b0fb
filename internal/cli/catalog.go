// Copyright (c) 2026 n8n Dashboard Team
// n8n Dashboard - workflow template browser and installer
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/altafpasha/n8n-dashboard/internal/core"
	"github.com/altafpasha/n8n-dashboard/internal/i18n"
	"github.com/altafpasha/n8n-dashboard/internal/view"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the template repository",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List templates with their derived category, trigger and complexity",
		RunE: func(cmd *cobra.Command, args []string) error {
			crit := view.Criteria{}
			crit.Search, _ = cmd.Flags().GetString("search")
			crit.TriggerTypes, _ = cmd.Flags().GetStringSlice("trigger")
			crit.Categories, _ = cmd.Flags().GetStringSlice("category")
			crit.Complexities, _ = cmd.Flags().GetStringSlice("complexity")
			crit.Tags, _ = cmd.Flags().GetStringSlice("tag")
			crit.Descending, _ = cmd.Flags().GetBool("desc")
			sortBy, _ := cmd.Flags().GetString("sort")
			crit.SortBy = view.ParseSortKey(sortBy)
			limit, _ := cmd.Flags().GetInt("limit")

			svc := core.NewCatalogService(newTemplateSource(appConfig.Catalog), view.HeuristicClassifier{})
			cards, _, err := svc.Browse(cmd.Context(), crit)
			if err != nil {
				return err
			}
			if limit > 0 && len(cards) > limit {
				cards = cards[:limit]
			}
			renderCards(cmd.OutOrStdout(), cards)
			return nil
		},
	}
	list.Flags().String("search", "", "Case-insensitive search over name, description, category, trigger and tags")
	list.Flags().StringSlice("trigger", nil, "Trigger types to include")
	list.Flags().StringSlice("category", nil, "Categories to include")
	list.Flags().StringSlice("complexity", nil, "Complexities to include (low, medium, high)")
	list.Flags().StringSlice("tag", nil, "Tags to include")
	list.Flags().String("sort", "name", "Sort key (name, date, popularity, complexity, rating)")
	list.Flags().Bool("desc", false, "Reverse the sort order (date defaults to newest first)")
	list.Flags().Int("limit", 0, "Show at most this many rows")

	cmd.AddCommand(list)
	return cmd
}

func renderCards(w io.Writer, cards []view.Card) {
	if len(cards) == 0 {
		fmt.Fprintln(w, i18n.T("cli.catalog_empty"))
		return
	}
	rows := make([][]string, 0, len(cards))
	for _, c := range cards {
		rows = append(rows, []string{
			c.Name,
			c.Category,
			c.TriggerType,
			string(c.Complexity),
			strconv.Itoa(c.NodeCount),
			strings.Join(c.Tags, ", "),
		})
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("NAME", "CATEGORY", "TRIGGER", "COMPLEXITY", "NODES", "TAGS").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	fmt.Fprintln(w, t.Render())
}
