package input

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Attamusc/history-dates-cli/internal/logctx"
)

// InputMode represents the detected input mode
type InputMode int

const (
	// InputModeUnknown indicates no valid input detected
	InputModeUnknown InputMode = iota
	// InputModeList indicates an entry list (stdin or file)
	InputModeList
	// InputModeScrape indicates entries scraped from a web page
	InputModeScrape
	// InputModeGitHub indicates an entry list stored in a GitHub repository
	InputModeGitHub
	// InputModeMixed indicates more than one source
	InputModeMixed
)

// String returns the string representation of InputMode
func (m InputMode) String() string {
	switch m {
	case InputModeList:
		return "Entry List"
	case InputModeScrape:
		return "Web Page"
	case InputModeGitHub:
		return "GitHub File"
	case InputModeMixed:
		return "Mixed"
	default:
		return "Unknown"
	}
}

// ResolverConfig holds configuration for input resolution
type ResolverConfig struct {
	// Entry list settings
	Path     string // File path or empty for stdin
	UseStdin bool   // Whether to read from stdin

	// Web page settings
	URL    string
	XPaths []string // Text node expressions, evaluated in order
	Skip   []int    // Leading matches to drop, per expression

	// GitHub settings
	GitHubRepo string // owner/repo
	GitHubPath string
	GitHubRef  string // Branch, tag or SHA; default branch when empty

	Format Format
}

// PageScraper fetches a page and returns the text matched by each XPath
// expression. Defined here so input does not depend on the scraper.
type PageScraper interface {
	ScrapeText(ctx context.Context, url string, xpaths []string, skip []int) ([]string, error)
}

// FileFetcher returns the text of a file stored in a GitHub repository
type FileFetcher interface {
	FetchText(ctx context.Context, repo, path, ref string) (string, error)
}

// Sources bundles the network backed sources used by ResolveEntries
type Sources struct {
	Scraper PageScraper
	Fetcher FileFetcher
}

// ResolveEntries determines input mode and returns deduplicated entries
// This is the main entry point for getting entries from any source
func ResolveEntries(ctx context.Context, cfg ResolverConfig, src Sources) ([]Entry, []Skipped, error) {
	logger := logctx.From(ctx)

	if err := validateConfig(cfg); err != nil {
		return nil, nil, err
	}

	mode := detectInputMode(cfg)
	logger.Info("Input mode detected", "mode", mode.String())

	if mode == InputModeUnknown {
		return nil, nil, fmt.Errorf("no valid input provided: specify --url, --github or provide entries via stdin/--input")
	}

	var all []Entry
	var skipped []Skipped

	if cfg.URL != "" {
		if src.Scraper == nil {
			return nil, nil, fmt.Errorf("no scraper configured for %s", cfg.URL)
		}
		logger.Debug("Scraping entries", "url", cfg.URL, "xpaths", len(cfg.XPaths))
		entries, rejected, err := fetchFromPage(ctx, cfg, src.Scraper)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scrape %s: %w", cfg.URL, err)
		}
		logger.Info("Entries scraped", "count", len(entries), "skipped", len(rejected))
		all = append(all, entries...)
		skipped = append(skipped, rejected...)
	}

	if cfg.GitHubRepo != "" {
		if src.Fetcher == nil {
			return nil, nil, fmt.Errorf("no GitHub client configured for %s", cfg.GitHubRepo)
		}
		logger.Debug("Fetching entries from GitHub", "repo", cfg.GitHubRepo, "path", cfg.GitHubPath)
		entries, rejected, err := fetchFromGitHub(ctx, cfg, src.Fetcher)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to fetch from GitHub: %w", err)
		}
		logger.Info("Entries fetched from GitHub", "count", len(entries), "skipped", len(rejected))
		all = append(all, entries...)
		skipped = append(skipped, rejected...)
	}

	if cfg.UseStdin || cfg.Path != "" {
		logger.Debug("Reading entry list")
		entries, rejected, err := fetchFromList(cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read entry list: %w", err)
		}
		logger.Info("Entries read from list", "count", len(entries), "skipped", len(rejected))
		all = append(all, entries...)
		skipped = append(skipped, rejected...)
	}

	logger.Debug("Deduplicating entries", "total", len(all))
	unique := deduplicateEntries(all)
	logger.Info("Input resolution complete", "uniqueEntries", len(unique), "mode", mode.String())

	return unique, skipped, nil
}

// detectInputMode determines which input mode to use based on configuration
func detectInputMode(cfg ResolverConfig) InputMode {
	var modes []InputMode
	if cfg.UseStdin || cfg.Path != "" {
		modes = append(modes, InputModeList)
	}
	if cfg.URL != "" {
		modes = append(modes, InputModeScrape)
	}
	if cfg.GitHubRepo != "" {
		modes = append(modes, InputModeGitHub)
	}

	switch len(modes) {
	case 0:
		return InputModeUnknown
	case 1:
		return modes[0]
	default:
		return InputModeMixed
	}
}

// validateConfig validates the resolver configuration
func validateConfig(cfg ResolverConfig) error {
	if cfg.URL != "" {
		if len(cfg.XPaths) == 0 {
			return fmt.Errorf("--xpath is required with --url")
		}
		if len(cfg.Skip) > len(cfg.XPaths) {
			return fmt.Errorf("--skip has %d values but only %d --xpath expressions", len(cfg.Skip), len(cfg.XPaths))
		}
		for _, n := range cfg.Skip {
			if n < 0 {
				return fmt.Errorf("--skip values must not be negative, got %d", n)
			}
		}
	}

	if cfg.GitHubRepo != "" && cfg.GitHubPath == "" {
		return fmt.Errorf("--github-path is required with --github")
	}

	return nil
}

// fetchFromList reads entries from stdin or a file
func fetchFromList(cfg ResolverConfig) ([]Entry, []Skipped, error) {
	var reader io.Reader
	source := cfg.Path

	if cfg.UseStdin {
		reader = os.Stdin
		source = "stdin"
	} else if cfg.Path != "" {
		file, err := os.Open(cfg.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open input file %s: %w", cfg.Path, err)
		}
		defer file.Close()
		reader = file
	} else {
		return nil, nil, fmt.Errorf("no entry list source specified")
	}

	entries, skipped, err := ParseEntries(reader, cfg.Format)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse entries: %w", err)
	}

	return withSource(entries, skipped, source)
}

// fetchFromPage splits every scraped string into an entry
func fetchFromPage(ctx context.Context, cfg ResolverConfig, scraper PageScraper) ([]Entry, []Skipped, error) {
	texts, err := scraper.ScrapeText(ctx, cfg.URL, cfg.XPaths, cfg.Skip)
	if err != nil {
		return nil, nil, err
	}

	var entries []Entry
	var skipped []Skipped
	for i, text := range texts {
		entry, ok := SplitEntry(text, cfg.Format)
		if !ok {
			skipped = append(skipped, Skipped{
				Source: cfg.URL,
				Line:   i + 1,
				Text:   text,
				Reason: "not a single label/date pair",
			})
			continue
		}
		entry.Source = cfg.URL
		entry.Line = i + 1
		entries = append(entries, entry)
	}

	return entries, skipped, nil
}

// fetchFromGitHub parses an entry list stored in a repository
func fetchFromGitHub(ctx context.Context, cfg ResolverConfig, fetcher FileFetcher) ([]Entry, []Skipped, error) {
	text, err := fetcher.FetchText(ctx, cfg.GitHubRepo, cfg.GitHubPath, cfg.GitHubRef)
	if err != nil {
		return nil, nil, err
	}

	entries, skipped, err := ParseEntries(strings.NewReader(text), cfg.Format)
	if err != nil {
		return nil, nil, err
	}

	return withSource(entries, skipped, cfg.GitHubRepo+"/"+cfg.GitHubPath)
}

func withSource(entries []Entry, skipped []Skipped, source string) ([]Entry, []Skipped, error) {
	for i := range entries {
		entries[i].Source = source
	}
	for i := range skipped {
		skipped[i].Source = source
	}
	return entries, skipped, nil
}

// deduplicateEntries removes duplicate entries while preserving order
func deduplicateEntries(entries []Entry) []Entry {
	seen := make(map[string]bool)
	var unique []Entry

	for _, entry := range entries {
		if !seen[entry.key()] {
			seen[entry.key()] = true
			unique = append(unique, entry)
		}
	}

	return unique
}

// ParseList splits a comma-separated string into values
// Trims whitespace and filters empty values
func ParseList(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	var values []string

	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			values = append(values, trimmed)
		}
	}

	return values
}

// ParseSkips parses a comma-separated list of non-negative match counts
func ParseSkips(raw string) ([]int, error) {
	var skips []int
	for _, value := range ParseList(raw) {
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid skip count %q", value)
		}
		skips = append(skips, n)
	}
	return skips, nil
}
