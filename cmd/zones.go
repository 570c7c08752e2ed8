package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Attamusc/history-dates-cli/internal/config"
	"github.com/Attamusc/history-dates-cli/internal/format"
	"github.com/Attamusc/history-dates-cli/internal/zones"
)

var (
	zonesAt       string
	zonesFrom     string
	zonesTo       string
	zonesZone     string
	zonesFromYear int
	zonesToYear   int
)

var zonesCmd = &cobra.Command{
	Use:   "zones",
	Short: "Convert wall clock times between zones and inspect DST shifts",
	Long: `Zones accepts IANA names (America/Sao_Paulo), fixed offsets (UTC-3,
UTC+05:30, -0300) and unambiguous abbreviations (BRT, JST).

Examples:
  history-dates-cli zones convert --at "2021-11-09 19:30" --from America/Sao_Paulo --to Asia/Tokyo
  history-dates-cli zones ambiguous --at "2017-02-18 23:30" --zone America/Sao_Paulo
  history-dates-cli zones transitions --zone America/Sao_Paulo --from-year 2016 --to-year 2018`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var zonesConvertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a wall clock time from one zone to another",
	RunE:  runZonesConvert,
}

var zonesAmbiguousCmd = &cobra.Command{
	Use:   "ambiguous",
	Short: "Report whether a wall clock time is repeated or skipped in a zone",
	RunE:  runZonesAmbiguous,
}

var zonesTransitionsCmd = &cobra.Command{
	Use:   "transitions",
	Short: "List the offset changes of a zone over a range of years",
	RunE:  runZonesTransitions,
}

func init() {
	rootCmd.AddCommand(zonesCmd)
	zonesCmd.AddCommand(zonesConvertCmd, zonesAmbiguousCmd, zonesTransitionsCmd)

	zonesConvertCmd.Flags().StringVar(&zonesAt, "at", "", "Wall clock time, e.g. '2021-11-09 19:30' (day first for slashes)")
	zonesConvertCmd.Flags().StringVar(&zonesFrom, "from", "UTC", "Zone of --at")
	zonesConvertCmd.Flags().StringVar(&zonesTo, "to", "UTC", "Zone to convert into")
	zonesConvertCmd.MarkFlagRequired("at")

	zonesAmbiguousCmd.Flags().StringVar(&zonesAt, "at", "", "Wall clock time to check")
	zonesAmbiguousCmd.Flags().StringVar(&zonesZone, "zone", "", "Zone to check in")
	zonesAmbiguousCmd.MarkFlagRequired("at")
	zonesAmbiguousCmd.MarkFlagRequired("zone")

	zonesTransitionsCmd.Flags().StringVar(&zonesZone, "zone", "", "Zone to inspect")
	zonesTransitionsCmd.Flags().IntVar(&zonesFromYear, "from-year", time.Now().Year(), "First year to inspect")
	zonesTransitionsCmd.Flags().IntVar(&zonesToYear, "to-year", 0, "Last year to inspect (default: --from-year)")
	zonesTransitionsCmd.MarkFlagRequired("zone")
}

func runZonesConvert(cmd *cobra.Command, args []string) error {
	_, _, logger, err := loadConfig(cmd.Context(), config.Flags{})
	if err != nil {
		return err
	}

	from, err := zones.Resolve(zonesFrom)
	if err != nil {
		return fmt.Errorf("--from: %w", err)
	}
	to, err := zones.Resolve(zonesTo)
	if err != nil {
		return fmt.Errorf("--to: %w", err)
	}
	wall, err := zones.ParseWall(zonesAt)
	if err != nil {
		return err
	}

	switch occurrences := zones.Occurrences(wall, from); len(occurrences) {
	case 0:
		logger.Warn("Time does not exist in zone, shifted forward", "at", zonesAt, "zone", from.String())
	case 2:
		logger.Warn("Time occurs twice in zone, using the first occurrence", "at", zonesAt, "zone", from.String())
	}

	instant := zones.At(wall, from)
	converted := zones.Convert(instant, to)
	fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n",
		instant.Format(format.EventTimeLayout), converted.Format(format.EventTimeLayout))
	return nil
}

func runZonesAmbiguous(cmd *cobra.Command, args []string) error {
	loc, err := zones.Resolve(zonesZone)
	if err != nil {
		return fmt.Errorf("--zone: %w", err)
	}
	wall, err := zones.ParseWall(zonesAt)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	clock := wall.Format("2006-01-02 15:04:05")
	occurrences := zones.Occurrences(wall, loc)
	switch len(occurrences) {
	case 0:
		fmt.Fprintf(out, "%s does not exist in %s (clocks skip it)\n", clock, loc)
	case 1:
		fmt.Fprintf(out, "%s occurs once in %s: %s\n", clock, loc, occurrences[0].Format(format.EventTimeLayout))
	default:
		fmt.Fprintf(out, "%s is ambiguous in %s:\n", clock, loc)
		for _, o := range occurrences {
			_, offset := o.Zone()
			fmt.Fprintf(out, "- %s (%s)\n", o.Format(format.EventTimeLayout), zones.FormatOffset(offset))
		}
	}
	return nil
}

func runZonesTransitions(cmd *cobra.Command, args []string) error {
	loc, err := zones.Resolve(zonesZone)
	if err != nil {
		return fmt.Errorf("--zone: %w", err)
	}

	last := zonesToYear
	if last == 0 {
		last = zonesFromYear
	}
	if last < zonesFromYear {
		return fmt.Errorf("--to-year %d is before --from-year %d", last, zonesFromYear)
	}

	transitions := zones.TransitionsBetween(loc, zonesFromYear, last)
	if len(transitions) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No transitions in %s between %d and %d\n", loc, zonesFromYear, last)
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), format.RenderTransitionsTerminal(transitions))
	return nil
}
