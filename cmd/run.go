package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/hikaru-dev/watchscout/internal/excelio"
	"github.com/hikaru-dev/watchscout/internal/models"
	"github.com/hikaru-dev/watchscout/internal/pipeline"
	"github.com/hikaru-dev/watchscout/internal/report"
	"github.com/hikaru-dev/watchscout/internal/ui"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Research every watch in the input spreadsheet",
	Long:  "Read the target spreadsheet, search Rakuten listings for each row, extract structured records with an LLM, and write JSON plus Excel reports.",
	RunE:  runResearch,
}

func init() {
	runCmd.Flags().Bool("test", false, "Process only the first few rows and write to a test output file")
	runCmd.Flags().String("input", "", "Input spreadsheet path (default target.xlsx)")
	runCmd.Flags().String("output", "", "JSON output path (default result.json)")
	runCmd.Flags().String("excel", "", "Also write a flattened Excel report to this path")
	runCmd.Flags().Int("limit", 0, "Process at most this many rows")
	rootCmd.AddCommand(runCmd)
}

func runResearch(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if v, _ := cmd.Flags().GetBool("test"); v {
		cfg.TestMode = true
	}
	if v, _ := cmd.Flags().GetString("input"); v != "" {
		cfg.InputPath = v
	}
	if v, _ := cmd.Flags().GetString("output"); v != "" {
		cfg.OutputPath = v
	}
	if v, _ := cmd.Flags().GetString("excel"); v != "" {
		cfg.ExcelPath = v
	}
	limit, _ := cmd.Flags().GetInt("limit")

	records, err := excelio.ReadTargets(cfg.InputPath)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("no target rows found in %s", cfg.InputPath)
	}
	if cfg.TestMode && len(records) > cfg.TestRowLimit {
		records = records[:cfg.TestRowLimit]
	}
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}

	outputPath := cfg.EffectiveOutputPath()
	sink := report.NewJSONSink(outputPath)

	pipe := pipeline.New(buildSearcher(), buildExtractor(), pipeline.Options{
		MaxListings: cfg.MaxListings,
		Advanced:    cfg.AdvancedSearch,
		Delay:       cfg.Delay,
	}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	spin := ui.NewSpinner()
	spin.Start(fmt.Sprintf("Researching %d watches...", len(records)))
	ctx = pipeline.WithProgress(ctx, spin.Update)
	results, runErr := pipe.Run(ctx, records, sink)
	spin.Stop()

	// Persist whatever completed, even on interruption.
	if err := writeReports(sink, results); err != nil {
		return err
	}
	if runErr != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Run interrupted after %d of %d rows; partial results kept in %s\n",
			len(results), len(records), outputPath)
		return runErr
	}

	if cfg.TestMode {
		for _, r := range results {
			fmt.Fprintf(os.Stdout, "%s\n", r.InputKeywords)
			printRecordsTable(r.ExtractedResults)
			fmt.Fprintln(os.Stdout)
		}
	}
	printSummary(cmd, results, outputPath)
	return nil
}

// writeReports writes the final JSON document and, when configured, the
// Excel report. The two outputs are independent so they run concurrently.
func writeReports(sink *report.JSONSink, results []models.RowResult) error {
	var g errgroup.Group
	g.Go(func() error {
		return sink.Save(results)
	})
	if cfg.ExcelPath != "" {
		g.Go(func() error {
			return report.NewExcelSink(cfg.ExcelPath).WriteFile(results)
		})
	}
	return g.Wait()
}

func printSummary(cmd *cobra.Command, results []models.RowResult, outputPath string) {
	var extracted, failedRows int
	for _, r := range results {
		extracted += len(r.ExtractedResults)
		if r.RowError != nil {
			failedRows++
		}
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Done: %d rows, %d listings extracted", len(results), extracted)
	if failedRows > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), ", %d rows failed", failedRows)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), " -> %s", outputPath)
	if cfg.ExcelPath != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), ", %s", cfg.ExcelPath)
	}
	fmt.Fprintln(cmd.ErrOrStderr())
}
