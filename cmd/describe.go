package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Attamusc/history-dates-cli/internal/ai"
	"github.com/Attamusc/history-dates-cli/internal/config"
	"github.com/Attamusc/history-dates-cli/internal/derive"
	"github.com/Attamusc/history-dates-cli/internal/format"
	"github.com/Attamusc/history-dates-cli/internal/report"
)

var (
	describeSources sourceFlags
	describeFormat  string
	describeLocale  string
	describeSort    bool
	describeRestate bool
)

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Describe each entry's date in detail",
	Long: `Describe reads entries from the same sources as timeline and prints every
derived view of each date: ISO and canonical forms, weekday, month and day of
the year.

Output Formats:
  - table (default): Markdown table with Label, Input, Date, Weekday, Day of Year
  - detailed: Full markdown sections for each entry

Examples:
  history-dates-cli describe --input independence.txt --format detailed
  echo "Brasil: September 7, 1822" | history-dates-cli describe --locale pt-BR`,
	RunE: runDescribe,
}

func init() {
	rootCmd.AddCommand(describeCmd)

	describeSources.bind(describeCmd)
	describeCmd.Flags().StringVar(&describeFormat, "format", "table", "Output format: 'table' or 'detailed'")
	describeCmd.Flags().StringVar(&describeLocale, "locale", "en", "Language of weekday and month names: 'en' or 'pt-BR'")
	describeCmd.Flags().BoolVar(&describeSort, "sort", false, "Sort entries by label")
	describeCmd.Flags().BoolVar(&describeRestate, "restate", false, "Restate unparseable expressions with GitHub Models (requires GITHUB_TOKEN)")
}

func runDescribe(cmd *cobra.Command, args []string) error {
	// Validate format flag
	if describeFormat != "table" && describeFormat != "detailed" {
		return fmt.Errorf("invalid format '%s': must be 'table' or 'detailed'", describeFormat)
	}

	locale, err := derive.ParseLocale(describeLocale)
	if err != nil {
		return err
	}

	cfg, ctx, logger, err := loadConfig(cmd.Context(), config.Flags{
		Concurrency: 4,
		Restate:     describeRestate,
		Locale:      string(locale),
	})
	if err != nil {
		return err
	}

	entries, _, err := describeSources.resolve(ctx, cmd, cfg)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		noRows("No date entries found")
	}

	var restater ai.Restater
	if cfg.Models.Enabled {
		restater = initRestater(cfg, logger)
	}
	results := parseEntries(ctx, entries, restater, cfg.Concurrency, !cfg.Quiet)

	rows := describeRows(results)
	if describeSort {
		format.SortDescribeRowsByLabel(rows)
	}

	out := cmd.OutOrStdout()
	if describeFormat == "detailed" {
		fmt.Fprint(out, format.RenderDescribeDetailed(rows, locale))
	} else {
		fmt.Fprint(out, format.RenderDescribeTable(rows, locale))
	}

	logger.Info("Description generated successfully", "entries", len(rows))
	return nil
}

// describeRows converts parse results into describe rows
func describeRows(results []report.Result) []format.DescribeRow {
	rows := make([]format.DescribeRow, 0, len(results))
	for _, r := range results {
		row := format.DescribeRow{
			Label: r.Entry.Label,
			Input: r.Entry.Expression,
			Shape: r.Outcome.Shape.String(),
		}
		if r.Outcome.OK() {
			date := r.Outcome.Date
			row.Date = &date
		} else {
			row.Reason = r.Outcome.Reason().String()
		}
		if r.Restated != "" && r.Outcome.OK() {
			row.Shape += " (restated as " + r.Restated + ")"
		}
		rows = append(rows, row)
	}
	return rows
}
