package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hikaru-dev/watchscout/internal/query"
	"github.com/hikaru-dev/watchscout/internal/ui"
)

var searchCmd = &cobra.Command{
	Use:   "search [keywords...]",
	Short: "Search secondhand listings by keyword",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().String("format", "json", "Output format: json, table")
	searchCmd.Flags().Bool("raw", false, "Search the keywords as given, without the secondhand marker")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if cfg.TavilyAPIKey == "" {
		return fmt.Errorf("TAVILY_API_KEY is not set")
	}

	keywords := strings.Join(args, " ")
	if raw, _ := cmd.Flags().GetBool("raw"); !raw && !strings.Contains(keywords, query.SecondhandMarker) {
		keywords = keywords + " " + query.SecondhandMarker
	}
	format, _ := cmd.Flags().GetString("format")

	spin := ui.NewSpinner()
	spin.Start(fmt.Sprintf("Searching '%s'...", keywords))
	listings, err := buildSearcher().Search(context.Background(), keywords, cfg.MaxListings, cfg.AdvancedSearch)
	spin.Stop()
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	switch format {
	case "table":
		fmt.Fprintf(os.Stdout, "Mall search: %s\n\n", query.SearchURL(keywords))
		printListingsTable(listings)
	default:
		enc := json.NewEncoder(os.Stdout)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		enc.Encode(listings)
	}

	return nil
}
