package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/spf13/cobra"

	"github.com/Attamusc/history-dates-cli/internal/ai"
	"github.com/Attamusc/history-dates-cli/internal/config"
	"github.com/Attamusc/history-dates-cli/internal/derive"
	"github.com/Attamusc/history-dates-cli/internal/format"
	"github.com/Attamusc/history-dates-cli/internal/historic"
	"github.com/Attamusc/history-dates-cli/internal/input"
	"github.com/Attamusc/history-dates-cli/internal/logctx"
	"github.com/Attamusc/history-dates-cli/internal/report"
)

var (
	timelineSources       sourceFlags
	timelineConcurrency   int
	timelineRestate       bool
	timelineBatch         bool
	timelineLayout        string
	timelineFormat        string
	timelineTitle         string
	timelineOnly          []string
	timelineFrom          string
	timelineTo            string
	timelineCorrect       []string
	timelineNoCorrections bool
	timelineNoNotes       bool
	timelineGroup         bool
	timelineGaps          bool
)

var timelineCmd = &cobra.Command{
	Use:   "timeline",
	Short: "Build a sorted timeline from labelled date entries",
	Long: `Timeline reads labelled date entries from multiple sources, parses them
concurrently and renders a table sorted by date with notes for anything that
could not be parsed.

Input Sources:
  1. Entry list: 'Label: Expression' lines via stdin or --input file
  2. Web page: --url with one or more --xpath expressions (lines are read as
     'Expression: Label' unless --expression-first=false)
  3. GitHub file: --github owner/repo --github-path path/to/list.txt
  4. Mixed: any combination of the above, deduplicated

Entries whose label has a correction (by default Japan: 660 BCE and
China: 221 BCE) are replaced by the correction text, since the parser does not
represent BCE years. Corrected rows sit before any --from bound and are left
out when --from is given.

Examples:
  # From a file
  history-dates-cli timeline --input independence.txt

  # From a scraped list
  history-dates-cli timeline \
    --url https://www.thoughtco.com/independence-birthday-for-every-country-1435141 \
    --xpath '//p[@class="comp mntl-sc-block mntl-sc-block-html"]/text()' \
    --xpath '//p[@class="comp mntl-sc-block mntl-sc-block-html"]/a/text()' \
    --skip 6,3

  # Restate unparseable expressions through GitHub Models
  GITHUB_TOKEN=... history-dates-cli timeline --input dates.txt --restate

  # Only the 19th century, with gap statistics
  history-dates-cli timeline --input dates.txt --from 1801 --to 1900 --gaps`,
	RunE: runTimeline,
}

func init() {
	rootCmd.AddCommand(timelineCmd)

	timelineSources.bind(timelineCmd)
	timelineCmd.Flags().IntVar(&timelineConcurrency, "concurrency", 4, "Number of concurrent workers")
	timelineCmd.Flags().BoolVar(&timelineRestate, "restate", false, "Restate unparseable expressions with GitHub Models (requires GITHUB_TOKEN)")
	timelineCmd.Flags().BoolVar(&timelineBatch, "batch", false, "Restate all failures in a single request")
	timelineCmd.Flags().StringVar(&timelineLayout, "layout", derive.LayoutCanonical, "Date layout: canonical, dmy, iso or month-year")
	timelineCmd.Flags().StringVar(&timelineFormat, "format", "markdown", "Output format: 'markdown', 'terminal' or 'inline'")
	timelineCmd.Flags().StringVar(&timelineTitle, "title", "", "Title printed above the markdown table")
	timelineCmd.Flags().StringSliceVar(&timelineOnly, "only", nil, "Only show rows with these statuses (parsed, restated, corrected, unparseable)")
	timelineCmd.Flags().StringVar(&timelineFrom, "from", "", "Earliest date to include (ISO date or any accepted expression)")
	timelineCmd.Flags().StringVar(&timelineTo, "to", "", "Latest date to include (ISO date or any accepted expression)")
	timelineCmd.Flags().StringArrayVar(&timelineCorrect, "correct", nil, "Extra correction as 'Label: text' (repeatable)")
	timelineCmd.Flags().BoolVar(&timelineNoCorrections, "no-corrections", false, "Disable the default BCE corrections")
	timelineCmd.Flags().BoolVar(&timelineNoNotes, "no-notes", false, "Disable notes section in output")
	timelineCmd.Flags().BoolVar(&timelineGroup, "group-by-status", false, "Group rows by status, date order within each group")
	timelineCmd.Flags().BoolVar(&timelineGaps, "gaps", false, "Append gap statistics")
}

func runTimeline(cmd *cobra.Command, args []string) error {
	if timelineFormat != "markdown" && timelineFormat != "terminal" && timelineFormat != "inline" {
		return fmt.Errorf("invalid format '%s': must be 'markdown', 'terminal' or 'inline'", timelineFormat)
	}

	only, err := parseStatuses(timelineOnly)
	if err != nil {
		return err
	}
	corrections, err := parseCorrections(timelineCorrect, !timelineNoCorrections)
	if err != nil {
		return err
	}
	from, to, err := parseWindow(timelineFrom, timelineTo)
	if err != nil {
		return err
	}

	// Load configuration
	cfg, ctx, logger, err := loadConfig(cmd.Context(), config.Flags{
		Concurrency: timelineConcurrency,
		Restate:     timelineRestate,
		DateLayout:  timelineLayout,
	})
	if err != nil {
		return err
	}

	entries, skipped, err := timelineSources.resolve(ctx, cmd, cfg)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		noRows("No date entries found")
	}
	logger.Info("Found entries", "count", len(entries))

	var restater ai.Restater
	if cfg.Models.Enabled {
		restater = initRestater(cfg, logger)
	}

	// Restate one by one in the workers unless a batch was requested
	perEntry := restater
	if timelineBatch {
		perEntry = nil
	}

	logger.Info("Parsing entries...", "concurrency", cfg.Concurrency)
	results := parseEntries(ctx, entries, perEntry, cfg.Concurrency, !cfg.Quiet)

	if restater != nil && timelineBatch {
		results = restateBatch(ctx, restater, results)
	}

	timeline := report.Build(results, report.Options{
		Corrections: corrections,
		From:        from,
		To:          to,
		Only:        only,
		Skipped:     skipped,
		GroupBy:     timelineGroup,
	})

	logger.Info("Processing completed",
		"parsed", timeline.Summary.Parsed,
		"unparseable", timeline.Summary.Unparseable,
		"corrected", format.CountNotesByKind(timeline.Notes, format.NoteCorrection))

	if len(timeline.Rows) == 0 {
		noRows("No timeline rows generated")
	}

	out := cmd.OutOrStdout()
	logger.Info("Rendering output...", "rows", len(timeline.Rows))
	switch timelineFormat {
	case "terminal":
		fmt.Fprintln(out, format.RenderTerminal(timeline.Rows, cfg.DateLayout))
	case "inline":
		fmt.Fprintln(out, format.RenderInline(timeline.Rows, cfg.DateLayout))
	default:
		fmt.Fprint(out, format.RenderTableWithTitle(timelineTitle, timeline.Rows, cfg.DateLayout))
	}

	if timelineGaps {
		stats, _ := derive.Stats(derive.Gaps(timeline.Dates))
		fmt.Fprint(out, "\n")
		fmt.Fprint(out, format.RenderGapStats(stats, cfg.DateLayout))
	}

	logNotes(logger, timeline.Notes, !timelineNoNotes)

	// Output notes section if enabled and there are notes
	if !timelineNoNotes && len(timeline.Notes) > 0 {
		logger.Debug("Adding notes section", "notes", len(timeline.Notes))
		fmt.Fprint(out, "\n")
		fmt.Fprint(out, format.RenderNotes(timeline.Notes))
	}

	logger.Info("Timeline generated successfully", "rows", len(timeline.Rows), "notes", len(timeline.Notes))
	return nil
}

// logNotes logs accepted rewrites, and warns about failures the output
// will not mention when the notes section is disabled
func logNotes(logger *slog.Logger, notes []format.Note, shown bool) {
	for _, note := range format.FilterNotesByKind(notes, format.NoteRestated) {
		logger.Info("Restated expression", "label", note.Label, "input", note.Input, "restated", note.Restated)
	}

	if !shown && format.HasNotesOfKind(notes, format.NoteUnparseable) {
		logger.Warn("Some entries could not be parsed, drop --no-notes to list them",
			"count", format.CountNotesByKind(notes, format.NoteUnparseable))
	}
}

// indexedResult carries a result back to the collector with its input position
type indexedResult struct {
	index  int
	result report.Result
}

// parseEntries parses entries concurrently and returns results in input order
// A nil restater disables restating.
func parseEntries(ctx context.Context, entries []input.Entry, restater ai.Restater, concurrency int, progress bool) []report.Result {
	logger := logctx.From(ctx)

	results := make(chan indexedResult, len(entries))
	semaphore := make(chan struct{}, concurrency)

	// Progress tracking
	var completed atomic.Int32
	var wg sync.WaitGroup

	for i, entry := range entries {
		wg.Add(1)
		go func(i int, entry input.Entry) {
			defer wg.Done()
			semaphore <- struct{}{}        // Acquire semaphore
			defer func() { <-semaphore }() // Release semaphore

			result := processEntry(ctx, restater, entry)

			current := completed.Add(1)
			if progress {
				logger.Debug("Parsing entries", "completed", int(current), "total", len(entries))
			}

			results <- indexedResult{index: i, result: result}
		}(i, entry)
	}

	// Close results channel when all goroutines finish
	go func() {
		wg.Wait()
		close(results)
	}()

	ordered := make([]indexedResult, 0, len(entries))
	for r := range results {
		ordered = append(ordered, r)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].index < ordered[j].index
	})

	out := make([]report.Result, len(ordered))
	for i, r := range ordered {
		out[i] = r.result
	}
	return out
}

// processEntry parses one entry, restating it when parsing fails and a
// restater is configured
func processEntry(ctx context.Context, restater ai.Restater, entry input.Entry) report.Result {
	logger := logctx.From(ctx)

	outcome := historic.Parse(entry.Expression)
	result := report.Result{Entry: entry, Outcome: outcome}
	if outcome.OK() || restater == nil {
		return result
	}

	logger.Debug("Restating expression", "entry", entry.String(), "reason", outcome.Reason().String())
	restated, err := restater.Restate(ctx, entry.Expression)
	if err != nil {
		logger.Debug("Restating failed, keeping original outcome", "entry", entry.String(), "error", err)
		return result
	}

	again := historic.Parse(restated)
	if !again.OK() {
		logger.Debug("Restated expression does not parse", "entry", entry.String(), "restated", restated)
		return result
	}

	result.Outcome = again
	result.Restated = restated
	return result
}

// restateBatch sends every failed expression to the restater in one request
// and re-parses the accepted rewrites. Results are returned unchanged when
// the batch fails.
func restateBatch(ctx context.Context, restater ai.Restater, results []report.Result) []report.Result {
	logger := logctx.From(ctx)

	var failed []string
	for _, r := range results {
		if !r.Outcome.OK() {
			failed = append(failed, r.Entry.Expression)
		}
	}
	if len(failed) == 0 {
		return results
	}

	logger.Info("Restating unparseable expressions", "count", len(failed))
	rewrites, err := restater.RestateBatch(ctx, failed)
	if err != nil {
		logger.Warn("Batch restating failed, keeping original outcomes", "error", err)
		return results
	}

	for i, r := range results {
		if r.Outcome.OK() {
			continue
		}
		restated, ok := rewrites[r.Entry.Expression]
		if !ok {
			continue
		}
		if again := historic.Parse(restated); again.OK() {
			results[i].Outcome = again
			results[i].Restated = restated
		}
	}
	return results
}
