package cmd

import (
	"errors"
	"fmt"
	"sort"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/Attamusc/history-dates-cli/internal/config"
	"github.com/Attamusc/history-dates-cli/internal/events"
	"github.com/Attamusc/history-dates-cli/internal/format"
	"github.com/Attamusc/history-dates-cli/internal/zones"
)

var (
	eventsComma      string
	eventsUTF8       bool
	eventsDateColumn string
	eventsTimeColumn string
	eventsZone       string
	eventsShowZone   string
	eventsKeep       []string
	eventsSum        []string
	eventsList       bool
)

var eventsCmd = &cobra.Command{
	Use:   "events <file.csv>",
	Short: "Load a CSV of timestamped events and summarize it",
	Long: `Events loads a delimited file whose rows carry a date column and an
optional time column, parses the timestamps day first, sorts the rows and
reports the span, the longest gap between consecutive events and column sums.

The defaults match semicolon separated ISO-8859-1 exports with "data" and
"horario" columns.

Examples:
  history-dates-cli events atendimentos.csv --sum pacientes
  history-dates-cli events export.csv --utf8 --comma , --date-column date \
    --zone America/Sao_Paulo --list --keep place`,
	Args: cobra.ExactArgs(1),
	RunE: runEvents,
}

func init() {
	rootCmd.AddCommand(eventsCmd)

	defaults := events.DefaultLoadConfig()
	eventsCmd.Flags().StringVar(&eventsComma, "comma", string(defaults.Comma), "Field delimiter")
	eventsCmd.Flags().BoolVar(&eventsUTF8, "utf8", false, "Read the file as UTF-8 instead of ISO-8859-1")
	eventsCmd.Flags().StringVar(&eventsDateColumn, "date-column", defaults.DateColumn, "Column holding the date")
	eventsCmd.Flags().StringVar(&eventsTimeColumn, "time-column", defaults.TimeColumn, "Column holding the time of day, ignored when absent")
	eventsCmd.Flags().StringVar(&eventsZone, "zone", "UTC", "Zone of the wall clock values (IANA name, offset or abbreviation)")
	eventsCmd.Flags().StringVar(&eventsShowZone, "show-zone", "", "Zone to display timestamps in (default: --zone)")
	eventsCmd.Flags().StringSliceVar(&eventsKeep, "keep", nil, "Columns to keep and list (default: all)")
	eventsCmd.Flags().StringSliceVar(&eventsSum, "sum", nil, "Integer columns to total")
	eventsCmd.Flags().BoolVar(&eventsList, "list", false, "List every event")
}

func runEvents(cmd *cobra.Command, args []string) error {
	_, _, logger, err := loadConfig(cmd.Context(), config.Flags{})
	if err != nil {
		return err
	}

	comma, size := utf8.DecodeRuneInString(eventsComma)
	if comma == utf8.RuneError || size != len(eventsComma) {
		return fmt.Errorf("--comma must be a single character, got %q", eventsComma)
	}

	loc, err := zones.Resolve(eventsZone)
	if err != nil {
		return fmt.Errorf("--zone: %w", err)
	}
	showLoc := loc
	if eventsShowZone != "" {
		if showLoc, err = zones.Resolve(eventsShowZone); err != nil {
			return fmt.Errorf("--show-zone: %w", err)
		}
	}

	keep := append([]string{}, eventsKeep...)
	if len(keep) > 0 {
		keep = append(keep, eventsSum...)
	}

	loadCfg := events.LoadConfig{
		Comma:       comma,
		Latin1:      !eventsUTF8,
		DateColumn:  eventsDateColumn,
		TimeColumn:  eventsTimeColumn,
		Location:    loc,
		KeepColumns: keep,
	}

	logger.Info("Loading events", "path", args[0], "zone", loc.String())
	evs, rowErrs, err := events.LoadFile(args[0], loadCfg)
	if err != nil {
		if errors.Is(err, events.ErrMissingColumn) {
			return fmt.Errorf("%w (use --date-column)", err)
		}
		return err
	}
	for _, rowErr := range rowErrs {
		logger.Warn("Skipped row", "line", rowErr.Line, "error", rowErr.Err)
	}

	if len(evs) == 0 {
		noRows("No events loaded")
	}

	events.SortByTime(evs)

	sums, err := events.Sum(evs, eventsSum)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprint(out, format.RenderEventSummary(evs, sums, showLoc))
	if len(rowErrs) > 0 {
		fmt.Fprintf(out, "Skipped rows: %d\n", len(rowErrs))
	}

	if eventsList {
		columns := eventsKeep
		if len(columns) == 0 {
			columns = eventColumns(evs)
		}
		fmt.Fprint(out, "\n")
		fmt.Fprintln(out, format.RenderEventsTerminal(evs, columns, showLoc))
	}

	logger.Info("Events summarized", "events", len(evs), "skipped", len(rowErrs))
	return nil
}

// eventColumns lists the field names present on any event, sorted
func eventColumns(evs []events.Event) []string {
	seen := make(map[string]bool)
	var columns []string
	for _, e := range evs {
		for name := range e.Fields {
			if !seen[name] {
				seen[name] = true
				columns = append(columns, name)
			}
		}
	}
	sort.Strings(columns)
	return columns
}
