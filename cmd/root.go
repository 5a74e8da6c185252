package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hikaru-dev/watchscout/config"
	"github.com/hikaru-dev/watchscout/internal/extractor"
	"github.com/hikaru-dev/watchscout/internal/httputil"
	"github.com/hikaru-dev/watchscout/internal/tavily"
)

var (
	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "watchscout",
	Short: "WatchScout - secondhand watch market research CLI & MCP server",
	Long:  "A Go-based CLI tool and MCP server that researches secondhand watch listings on Rakuten via web search and LLM extraction.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("model", "", "LLM model for listing extraction")
	rootCmd.PersistentFlags().Int("max-listings", 0, "Max listings extracted per input row")
	rootCmd.PersistentFlags().Bool("basic-search", false, "Use basic search depth instead of advanced")
	rootCmd.PersistentFlags().Duration("delay", 0, "Pause between LLM extraction calls")
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable debug logging to stderr")
}

func initConfig() {
	cfg = config.DefaultConfig()
	cfg.LoadFromEnv()

	// Override from flags
	if v, _ := rootCmd.PersistentFlags().GetString("model"); v != "" {
		cfg.OpenAIModel = v
	}
	if v, _ := rootCmd.PersistentFlags().GetInt("max-listings"); v > 0 {
		cfg.MaxListings = v
	}
	if v, _ := rootCmd.PersistentFlags().GetBool("basic-search"); v {
		cfg.AdvancedSearch = false
	}
	if v, _ := rootCmd.PersistentFlags().GetDuration("delay"); v > 0 {
		cfg.Delay = v
	}

	logger = newLogger()
}

func newLogger() *zap.Logger {
	verbose, _ := rootCmd.PersistentFlags().GetBool("verbose")
	if !verbose {
		return zap.NewNop()
	}
	zc := zap.NewDevelopmentConfig()
	zc.OutputPaths = []string{"stderr"}
	l, err := zc.Build()
	if err != nil {
		return zap.NewNop()
	}
	return l
}

// buildSearcher creates the Tavily search client from config.
func buildSearcher() *tavily.Client {
	client := httputil.NewHTTPClient(nil)
	client.Timeout = 90 * time.Second
	return tavily.NewClient(cfg.TavilyAPIKey, client)
}

// buildExtractor creates the LLM listing extractor from config.
func buildExtractor() *extractor.Extractor {
	return extractor.New(cfg.OpenAIAPIKey, cfg.OpenAIModel)
}
