package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Attamusc/history-dates-cli/internal/config"
	"github.com/Attamusc/history-dates-cli/internal/derive"
	"github.com/Attamusc/history-dates-cli/internal/format"
	"github.com/Attamusc/history-dates-cli/internal/historic"
	"github.com/Attamusc/history-dates-cli/internal/input"
)

var (
	parseFormat string
	parseLayout string
	parseSort   bool
)

var parseCmd = &cobra.Command{
	Use:   "parse [expression...]",
	Short: "Parse date expressions given as arguments or on stdin",
	Long: `Parse converts each expression into a calendar date and prints a table of
results. Expressions are taken from the arguments, or one per line from stdin
when no arguments are given.

Accepted shapes:
  1821                 a bare year
  1903 CE              a year with the CE suffix
  5th century          the first year of a century
  March 4, 1899        a full English month name, day and year
  November 17, 1902

Examples:
  history-dates-cli parse "March 4, 1899" "5th century"
  cat dates.txt | history-dates-cli parse --format markdown --layout dmy`,
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVar(&parseFormat, "format", "terminal", "Output format: 'terminal' or 'markdown'")
	parseCmd.Flags().StringVar(&parseLayout, "layout", derive.LayoutISO, "Date layout: canonical, dmy, iso or month-year")
	parseCmd.Flags().BoolVar(&parseSort, "sort", false, "Sort rows by date instead of input order")
}

func runParse(cmd *cobra.Command, args []string) error {
	if parseFormat != "terminal" && parseFormat != "markdown" {
		return fmt.Errorf("invalid format '%s': must be 'terminal' or 'markdown'", parseFormat)
	}

	cfg, _, logger, err := loadConfig(cmd.Context(), config.Flags{DateLayout: parseLayout})
	if err != nil {
		return err
	}

	expressions := args
	if len(expressions) == 0 {
		entries, err := input.ParseLines(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		for _, e := range entries {
			expressions = append(expressions, e.Expression)
		}
	}

	if len(expressions) == 0 {
		noRows("No expressions given")
	}

	outcomes := historic.ParseAll(expressions)
	summary := historic.Tally(outcomes)
	logger.Info("Parsed expressions", "total", summary.Total, "parsed", summary.Parsed, "unparseable", summary.Unparseable)

	rows := outcomeRows(outcomes)
	if parseSort {
		format.SortRowsByDate(rows)
	}

	out := cmd.OutOrStdout()
	switch parseFormat {
	case "markdown":
		fmt.Fprint(out, format.RenderTable(rows, cfg.DateLayout))
	default:
		fmt.Fprintln(out, format.RenderTerminal(rows, cfg.DateLayout))
	}

	if summary.Parsed == 0 {
		fmt.Fprintln(os.Stderr, "No expression could be parsed")
		os.Exit(exitNoRows)
	}
	return nil
}

// outcomeRows converts bare parse outcomes into table rows
func outcomeRows(outcomes []historic.Outcome) []format.Row {
	rows := make([]format.Row, 0, len(outcomes))
	for _, o := range outcomes {
		status := derive.StatusFor(o, false)
		if !o.OK() {
			rows = append(rows, format.NewRow(status, "", o.Input, nil, o.Reason().String()))
			continue
		}
		date := o.Date
		rows = append(rows, format.NewRow(status, "", o.Input, &date, o.Shape.String()))
	}
	return rows
}
