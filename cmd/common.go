package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Attamusc/history-dates-cli/internal/ai"
	"github.com/Attamusc/history-dates-cli/internal/config"
	"github.com/Attamusc/history-dates-cli/internal/derive"
	"github.com/Attamusc/history-dates-cli/internal/github"
	"github.com/Attamusc/history-dates-cli/internal/historic"
	"github.com/Attamusc/history-dates-cli/internal/input"
	"github.com/Attamusc/history-dates-cli/internal/logctx"
	"github.com/Attamusc/history-dates-cli/internal/scrape"
)

// exitNoRows is the exit code used when a command produced no output rows
const exitNoRows = 2

// sourceFlags holds the entry source flags shared by timeline, stats and describe
type sourceFlags struct {
	inputPath       string
	url             string
	xpaths          []string
	skip            string
	githubRepo      string
	githubPath      string
	githubRef       string
	sep             string
	expressionFirst bool
}

// bind registers the source flags on cmd
func (f *sourceFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.inputPath, "input", "", "Input file path (default: stdin)")
	cmd.Flags().StringVar(&f.url, "url", "", "Web page to scrape entries from")
	cmd.Flags().StringArrayVar(&f.xpaths, "xpath", nil, "XPath expression selecting entry text on --url (repeatable)")
	cmd.Flags().StringVar(&f.skip, "skip", "", "Comma-separated count of leading matches to drop, per --xpath")
	cmd.Flags().StringVar(&f.githubRepo, "github", "", "GitHub repository (owner/repo) holding an entry list")
	cmd.Flags().StringVar(&f.githubPath, "github-path", "", "Path of the entry list within --github")
	cmd.Flags().StringVar(&f.githubRef, "github-ref", "", "Branch, tag or SHA for --github (default branch when empty)")
	cmd.Flags().StringVar(&f.sep, "sep", input.DefaultSep, "Separator between label and expression")
	cmd.Flags().BoolVar(&f.expressionFirst, "expression-first", false, "Read lines as 'Expression: Label' (default for --url)")
}

// resolverConfig converts the flags into an input.ResolverConfig
// Stdin is used when no other source is named and it is not a terminal.
func (f *sourceFlags) resolverConfig(cmd *cobra.Command) (input.ResolverConfig, error) {
	skips, err := input.ParseSkips(f.skip)
	if err != nil {
		return input.ResolverConfig{}, err
	}

	expressionFirst := f.expressionFirst
	if f.url != "" && !cmd.Flags().Changed("expression-first") {
		expressionFirst = true
	}

	cfg := input.ResolverConfig{
		Path:       f.inputPath,
		URL:        f.url,
		XPaths:     f.xpaths,
		Skip:       skips,
		GitHubRepo: f.githubRepo,
		GitHubPath: f.githubPath,
		GitHubRef:  f.githubRef,
		Format:     input.Format{Sep: f.sep, ExpressionFirst: expressionFirst},
	}
	cfg.UseStdin = f.inputPath == "" && f.url == "" && f.githubRepo == "" && stdinHasData()
	return cfg, nil
}

// resolve reads every entry named by the flags
func (f *sourceFlags) resolve(ctx context.Context, cmd *cobra.Command, cfg *config.Config) ([]input.Entry, []input.Skipped, error) {
	resolverCfg, err := f.resolverConfig(cmd)
	if err != nil {
		return nil, nil, err
	}

	var sources input.Sources
	if resolverCfg.URL != "" {
		sources.Scraper = scrape.New(cfg.UserAgent, cfg.Timeout)
	}
	if resolverCfg.GitHubRepo != "" {
		sources.Fetcher = github.Fetcher{Client: github.New(ctx, cfg.GitHubToken)}
	}

	return input.ResolveEntries(ctx, resolverCfg, sources)
}

// stdinHasData reports whether stdin is a pipe or file rather than a terminal
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return stat.Mode()&os.ModeCharDevice == 0
}

// loadConfig builds the configuration from the persistent flags and the
// command's own settings, and attaches a logger to ctx
func loadConfig(ctx context.Context, flags config.Flags) (*config.Config, context.Context, *slog.Logger, error) {
	flags.Verbose = verbose
	flags.Quiet = quiet
	if flags.Concurrency == 0 {
		flags.Concurrency = 1
	}

	cfg, err := config.FromEnvAndFlags(flags)
	if err != nil {
		return nil, ctx, nil, fmt.Errorf("configuration error: %w", err)
	}

	if cfg.DateLayout != "" {
		if err := derive.ValidateLayout(cfg.DateLayout); err != nil {
			return nil, ctx, nil, err
		}
	}

	logger := setupLogger(cfg)
	return cfg, logctx.With(ctx, logger), logger, nil
}

// initRestater creates the appropriate restater based on configuration
func initRestater(cfg *config.Config, logger *slog.Logger) ai.Restater {
	if cfg.Models.Enabled {
		logger.Debug("AI restating enabled", "model", cfg.Models.Model)
		client := ai.NewGHModelsClient(cfg.Models.BaseURL, cfg.Models.Model, cfg.GitHubToken, cfg.UserAgent)
		client.HTTP.Timeout = cfg.Timeout
		return client
	}
	logger.Debug("AI restating disabled")
	return ai.NewNoopRestater()
}

// setupLogger creates a logger configured for progress output
func setupLogger(cfg *config.Config) *slog.Logger {
	if cfg.Quiet {
		// Discard all log output when quiet
		return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
			Level: slog.LevelError + 1, // Higher than any log level to discard all
		}))
	}

	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}

	// Use stderr for progress so stdout stays clean for output
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Remove time stamps for cleaner progress output
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	}))
}

// parseStatuses converts --only values into statuses
func parseStatuses(values []string) ([]derive.Status, error) {
	var statuses []derive.Status
	for _, value := range values {
		status, ok := derive.MapStatus(value)
		if !ok {
			return nil, fmt.Errorf("unknown status %q (valid: parsed, restated, corrected, unparseable)", value)
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

// parseCorrections combines the default corrections with --correct values
// Later corrections for the same label replace earlier ones.
func parseCorrections(values []string, withDefaults bool) ([]derive.Correction, error) {
	var corrections []derive.Correction
	if withDefaults {
		corrections = append(corrections, derive.DefaultCorrections...)
	}

	for _, value := range values {
		c, ok := derive.ParseCorrection(value)
		if !ok {
			return nil, fmt.Errorf("invalid correction %q: expected 'Label: text'", value)
		}
		replaced := false
		for i := range corrections {
			if strings.EqualFold(corrections[i].Label, c.Label) {
				corrections[i] = c
				replaced = true
			}
		}
		if !replaced {
			corrections = append(corrections, c)
		}
	}
	return corrections, nil
}

// parseWindow parses --from/--to bounds
func parseWindow(from, to string) (*historic.Date, *historic.Date, error) {
	fromDate, err := derive.ParseBound(from)
	if err != nil {
		return nil, nil, fmt.Errorf("--from: %w", err)
	}
	toDate, err := derive.ParseBound(to)
	if err != nil {
		return nil, nil, fmt.Errorf("--to: %w", err)
	}
	if fromDate != nil && toDate != nil && toDate.Before(*fromDate) {
		return nil, nil, fmt.Errorf("--to %s is before --from %s", toDate.ISO(), fromDate.ISO())
	}
	return fromDate, toDate, nil
}

// noRows reports an empty result on stderr and exits with exitNoRows
func noRows(msg string) {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(exitNoRows)
}
