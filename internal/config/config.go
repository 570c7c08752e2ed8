package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultModelsBaseURL = "https://models.github.ai"
	defaultModelsModel   = "openai/gpt-4o-mini"
	defaultUserAgent     = "history-dates-cli/1.0"
	defaultTimeout       = 30 * time.Second
	maxConcurrency       = 64
)

// Config holds all configuration for the application
type Config struct {
	GitHubToken string
	Concurrency int
	Verbose     bool
	Quiet       bool
	DateLayout  string        // Layout name understood by derive.RenderDate
	Locale      string        // Locale for weekday/month names
	UserAgent   string        // Sent by the scraper and API clients
	Timeout     time.Duration // Per request timeout for network sources
	Models      struct {
		BaseURL string
		Model   string
		Enabled bool // Restate unparseable expressions through GitHub Models
	}
}

// Flags carries the CLI flag values that feed into Config
type Flags struct {
	Concurrency int
	Verbose     bool
	Quiet       bool
	Restate     bool
	DateLayout  string
	Locale      string
}

// FromEnvAndFlags creates a Config from environment variables and CLI flags
func FromEnvAndFlags(flags Flags) (*Config, error) {
	// A missing .env file is fine
	_ = godotenv.Load()

	config := &Config{
		GitHubToken: os.Getenv("GITHUB_TOKEN"),
		Concurrency: flags.Concurrency,
		Verbose:     flags.Verbose && !flags.Quiet, // quiet wins
		Quiet:       flags.Quiet,
		DateLayout:  flags.DateLayout,
		Locale:      flags.Locale,
		UserAgent:   envOr("HISTORY_DATES_USER_AGENT", defaultUserAgent),
		Timeout:     defaultTimeout,
	}

	if config.Concurrency < 1 || config.Concurrency > maxConcurrency {
		return nil, fmt.Errorf("--concurrency must be between 1 and %d, got %d", maxConcurrency, config.Concurrency)
	}

	if raw := os.Getenv("HISTORY_DATES_TIMEOUT"); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil || timeout <= 0 {
			return nil, fmt.Errorf("HISTORY_DATES_TIMEOUT must be a positive duration, got %q", raw)
		}
		config.Timeout = timeout
	}

	config.Models.BaseURL = envOr("GITHUB_MODELS_BASE_URL", defaultModelsBaseURL)
	config.Models.Model = envOr("GITHUB_MODELS_MODEL", defaultModelsModel)
	config.Models.Enabled = flags.Restate

	// Restating goes through GitHub Models, which needs a token
	if config.Models.Enabled && config.GitHubToken == "" {
		return nil, errors.New("GITHUB_TOKEN environment variable is required for --restate")
	}

	return config, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
