package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Attamusc/history-dates-cli/internal/config"
	"github.com/Attamusc/history-dates-cli/internal/derive"
	"github.com/Attamusc/history-dates-cli/internal/format"
	"github.com/Attamusc/history-dates-cli/internal/report"
)

var (
	statsSources       sourceFlags
	statsLocale        string
	statsLayout        string
	statsFormat        string
	statsFrom          string
	statsTo            string
	statsNoCorrections bool
	statsListGaps      bool
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize parsed dates by weekday, month, year and gaps",
	Long: `Stats reads the same sources as timeline and prints how the parsed dates
are distributed across weekdays, months and years, followed by the shortest,
longest and mean gap between consecutive dates.

Examples:
  history-dates-cli stats --input independence.txt
  history-dates-cli stats --input independence.txt --locale pt-BR --format terminal`,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)

	statsSources.bind(statsCmd)
	statsCmd.Flags().StringVar(&statsLocale, "locale", "en", "Language of weekday and month names: 'en' or 'pt-BR'")
	statsCmd.Flags().StringVar(&statsLayout, "layout", derive.LayoutISO, "Date layout: canonical, dmy, iso or month-year")
	statsCmd.Flags().StringVar(&statsFormat, "format", "markdown", "Output format: 'markdown' or 'terminal'")
	statsCmd.Flags().StringVar(&statsFrom, "from", "", "Earliest date to include")
	statsCmd.Flags().StringVar(&statsTo, "to", "", "Latest date to include")
	statsCmd.Flags().BoolVar(&statsNoCorrections, "no-corrections", false, "Keep entries that have a default BCE correction")
	statsCmd.Flags().BoolVar(&statsListGaps, "list-gaps", false, "List every gap after the summary")
}

func runStats(cmd *cobra.Command, args []string) error {
	if statsFormat != "markdown" && statsFormat != "terminal" {
		return fmt.Errorf("invalid format '%s': must be 'markdown' or 'terminal'", statsFormat)
	}

	locale, err := derive.ParseLocale(statsLocale)
	if err != nil {
		return err
	}
	from, to, err := parseWindow(statsFrom, statsTo)
	if err != nil {
		return err
	}
	corrections, err := parseCorrections(nil, !statsNoCorrections)
	if err != nil {
		return err
	}

	cfg, ctx, logger, err := loadConfig(cmd.Context(), config.Flags{
		Concurrency: 4,
		DateLayout:  statsLayout,
		Locale:      string(locale),
	})
	if err != nil {
		return err
	}

	entries, skipped, err := statsSources.resolve(ctx, cmd, cfg)
	if err != nil {
		return err
	}

	results := parseEntries(ctx, entries, nil, cfg.Concurrency, false)
	timeline := report.Build(results, report.Options{
		Corrections: corrections,
		From:        from,
		To:          to,
		Skipped:     skipped,
	})

	if len(timeline.Dates) == 0 {
		noRows("No parseable dates found")
	}
	logger.Info("Computing statistics", "dates", len(timeline.Dates))

	weekdays := derive.CountWeekdays(timeline.Dates, locale)
	months := derive.CountMonths(timeline.Dates, locale)
	years := derive.CountYears(timeline.Dates)
	gaps := derive.Gaps(timeline.Dates)
	gapStats, _ := derive.Stats(gaps)

	out := cmd.OutOrStdout()
	if statsFormat == "terminal" {
		fmt.Fprintln(out, format.RenderCountsTerminal(columnTitle(locale, "Weekday"), weekdays))
		fmt.Fprintln(out, format.RenderCountsTerminal(columnTitle(locale, "Month"), months))
		fmt.Fprintln(out, format.RenderCountsTerminal(columnTitle(locale, "Year"), years))
	} else {
		fmt.Fprintln(out, format.RenderCounts(columnTitle(locale, "Weekday"), weekdays))
		fmt.Fprintln(out, format.RenderCounts(columnTitle(locale, "Month"), months))
		fmt.Fprintln(out, format.RenderCounts(columnTitle(locale, "Year"), years))
	}

	if top, ok := derive.MostCommon(weekdays); ok {
		fmt.Fprintf(out, "Most common weekday: %s (%d)\n\n", top.Name, top.N)
	}

	fmt.Fprint(out, format.RenderGapStats(gapStats, cfg.DateLayout))
	if statsListGaps && len(gaps) > 0 {
		fmt.Fprint(out, "\n")
		fmt.Fprint(out, format.RenderGapList(gaps, cfg.DateLayout))
	}

	if n := timeline.Summary.Unparseable; n > 0 {
		logger.Info("Some entries were not counted", "unparseable", n)
	}
	return nil
}

// columnTitle translates the count table titles
func columnTitle(loc derive.Locale, title string) string {
	if loc != derive.LocalePTBR {
		return title
	}
	switch title {
	case "Weekday":
		return "Dia da semana"
	case "Month":
		return "Mês"
	case "Year":
		return "Ano"
	}
	return title
}
