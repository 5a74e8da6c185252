package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
)

// Config holds all application configuration.
type Config struct {
	// Credentials
	TavilyAPIKey string
	OpenAIAPIKey string

	// Search and extraction
	OpenAIModel    string
	MaxListings    int  // listings extracted per input row
	AdvancedSearch bool // deeper (and slower) web search
	Delay          time.Duration

	// Input/output
	InputPath  string
	OutputPath string
	ExcelPath  string

	// Test mode
	TestMode     bool
	TestRowLimit int

	// HTTP server
	HTTPPort string
	APIKey   string
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		OpenAIModel:    "gpt-4o-mini",
		MaxListings:    5,
		AdvancedSearch: true,
		Delay:          time.Second,
		InputPath:      "target.xlsx",
		OutputPath:     "result.json",
		TestRowLimit:   2,
		HTTPPort:       "8080",
	}
}

// LoadFromEnv loads .env file (if present) then overrides config from environment variables.
func (c *Config) LoadFromEnv() {
	// Auto-load .env file; silently ignored if missing
	_ = godotenv.Load()

	if v := os.Getenv("TAVILY_API_KEY"); v != "" {
		c.TavilyAPIKey = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.OpenAIAPIKey = v
	}
	if v := os.Getenv("WATCHSCOUT_MODEL"); v != "" {
		c.OpenAIModel = v
	}
	if v := os.Getenv("WATCHSCOUT_MAX_LISTINGS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.MaxListings = n
		}
	}
	if v := os.Getenv("WATCHSCOUT_ADVANCED_SEARCH"); v == "false" {
		c.AdvancedSearch = false
	}
	if v := os.Getenv("WATCHSCOUT_DELAY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d >= 0 {
			c.Delay = d
		}
	}
	if v := os.Getenv("WATCHSCOUT_INPUT"); v != "" {
		c.InputPath = v
	}
	if v := os.Getenv("WATCHSCOUT_OUTPUT"); v != "" {
		c.OutputPath = v
	}
	if v := os.Getenv("WATCHSCOUT_EXCEL"); v != "" {
		c.ExcelPath = v
	}
	if v := os.Getenv("WATCHSCOUT_TEST_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.TestRowLimit = n
		}
	}
	if v := os.Getenv("PORT"); v != "" {
		c.HTTPPort = v
	}
	if v := os.Getenv("WATCHSCOUT_API_KEY"); v != "" {
		c.APIKey = v
	}
}

// Validate checks that the credentials required for a research run are set.
// Missing credentials are the one condition that aborts a run outright.
func (c *Config) Validate() error {
	if c.TavilyAPIKey == "" {
		return eris.New("TAVILY_API_KEY is not set")
	}
	if c.OpenAIAPIKey == "" {
		return eris.New("OPENAI_API_KEY is not set")
	}
	return nil
}

// EffectiveOutputPath returns the JSON output path, switched to a test
// variant when test mode is on and the path was not set explicitly.
func (c *Config) EffectiveOutputPath() string {
	if c.TestMode && c.OutputPath == "result.json" {
		return "result_test.json"
	}
	return c.OutputPath
}
