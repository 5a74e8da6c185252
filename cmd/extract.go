package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hikaru-dev/watchscout/internal/ui"
	"github.com/hikaru-dev/watchscout/internal/watch"
)

var extractCmd = &cobra.Command{
	Use:   "extract [url]",
	Short: "Extract a structured watch record from a single listing page",
	Long:  "Fetch one listing page and run the LLM extraction on it. Useful for spot-checking a URL before a full run.",
	Args:  cobra.ExactArgs(1),
	RunE:  runExtract,
}

func init() {
	extractCmd.Flags().Bool("page-only", false, "Print the fetched page content without LLM extraction")
	extractCmd.Flags().Bool("images", false, "Include image URLs in the page fetch")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	pageURL := args[0]
	pageOnly, _ := cmd.Flags().GetBool("page-only")
	images, _ := cmd.Flags().GetBool("images")

	ctx := context.Background()
	spin := ui.NewSpinner()
	spin.Start(fmt.Sprintf("Fetching %s...", pageURL))
	page, err := buildSearcher().Extract(ctx, pageURL, cfg.AdvancedSearch, images)
	spin.Stop()
	if err != nil {
		return fmt.Errorf("page fetch failed: %w", err)
	}
	if page == nil || page.RawContent == "" {
		return fmt.Errorf("no content extracted from %s", pageURL)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")

	if pageOnly {
		return enc.Encode(page)
	}

	spin.Start("Extracting watch record...")
	rec, err := buildExtractor().Extract(ctx, page.RawContent)
	spin.Stop()
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}
	if rec == nil {
		return fmt.Errorf("model produced no record for %s", pageURL)
	}
	watch.Normalize(rec)
	if rec.URL == nil {
		rec.URL = &pageURL
	}
	return enc.Encode(rec)
}
