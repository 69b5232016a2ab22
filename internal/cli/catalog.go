package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/zappabad/stockpick/internal/market"
	"github.com/zappabad/stockpick/internal/news"
	"github.com/zappabad/stockpick/tui/styles"
)

func newCatalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List the assets and news templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printCatalog(cmd.OutOrStdout(), market.DefaultSeeds(), news.DefaultCatalog())
		},
	}
}

func printCatalog(w io.Writer, seeds []market.Seed, catalog news.Catalog) error {
	keys := make([]market.AssetKey, 0, len(seeds))
	assets := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		StyleFunc(cellStyle).
		Headers("KEY", "NAME", "PRICE", "DRIFT", "VOL")
	for _, s := range seeds {
		keys = append(keys, s.Key)
		assets.Row(string(s.Key), s.Name, styles.FormatPrice(s.Price),
			fmt.Sprintf("%.4f", s.Drift), fmt.Sprintf("%.2f", s.Vol))
	}

	templates := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		StyleFunc(cellStyle).
		Headers("ID", "PRESS", "HEADLINE", "DURATION", "IMPACTS")
	for _, t := range catalog {
		templates.Row(t.ID, t.Press, t.Title,
			fmt.Sprintf("%s-%s", t.MinDuration, t.MaxDuration),
			formatRanges(t.Impacts))
	}

	if err := catalog.Validate(keys); err != nil {
		return fmt.Errorf("catalog is invalid: %w", err)
	}

	_, err := fmt.Fprintf(w, "%s\n%s\n\n%s\n%s\n",
		titleStyle.Render("Assets"), assets.Render(),
		titleStyle.Render("News templates"), templates.Render())
	return err
}

func formatRanges(impacts map[market.AssetKey]news.ImpactRange) string {
	keys := make([]string, 0, len(impacts))
	for k := range impacts {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		r := impacts[market.AssetKey(k)]
		parts = append(parts, fmt.Sprintf("%s %+g..%+g%%", k, r.Min, r.Max))
	}
	return strings.Join(parts, ", ")
}
