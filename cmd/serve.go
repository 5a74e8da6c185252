package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	mcpserver "github.com/hikaru-dev/watchscout/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start MCP stdio server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	fmt.Fprintln(cmd.ErrOrStderr(), "Starting WatchScout MCP server on stdio...")

	if err := mcpserver.Serve(buildMCPDeps()); err != nil {
		log.Fatalf("MCP server error: %v", err)
	}
	return nil
}

func buildMCPDeps() mcpserver.Deps {
	return mcpserver.Deps{
		Searcher:    buildSearcher(),
		Extractor:   buildExtractor(),
		MaxListings: cfg.MaxListings,
		Advanced:    cfg.AdvancedSearch,
		Delay:       cfg.Delay,
	}
}
