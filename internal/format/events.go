package format

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/scylladb/termtables"

	"github.com/Attamusc/history-dates-cli/internal/events"
)

// EventTimeLayout renders event timestamps with their zone abbreviation
const EventTimeLayout = "2006-01-02 15:04:05 MST"

// RenderEventsTerminal lists events with the given columns, converting
// timestamps into loc (left untouched when loc is nil)
func RenderEventsTerminal(evs []events.Event, columns []string, loc *time.Location) string {
	if len(evs) == 0 {
		return ""
	}

	table := termtables.CreateTable()
	headers := []interface{}{"Line", "At"}
	for _, c := range columns {
		headers = append(headers, c)
	}
	table.AddHeaders(headers...)

	for _, e := range evs {
		cells := []interface{}{e.Line, eventTime(e.At, loc)}
		for _, c := range columns {
			cells = append(cells, orDash(collapseNewlines(e.Fields[c])))
		}
		table.AddRow(cells...)
	}
	return table.Render()
}

// RenderEventSummary describes the span of a sorted event list, its longest
// interval and any column sums
func RenderEventSummary(evs []events.Event, sums map[string]int, loc *time.Location) string {
	if len(evs) == 0 {
		return "No events loaded.\n"
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Events: %d\n", len(evs)))
	builder.WriteString(fmt.Sprintf("First: %s\n", eventTime(evs[0].At, loc)))
	builder.WriteString(fmt.Sprintf("Last: %s\n", eventTime(evs[len(evs)-1].At, loc)))

	if longest, ok := events.Longest(evs); ok {
		builder.WriteString(fmt.Sprintf("Longest gap: %s (line %d to line %d)\n",
			longest.Duration, longest.From.Line, longest.To.Line))
	}

	if len(sums) > 0 {
		names := make([]string, 0, len(sums))
		for name := range sums {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			builder.WriteString(fmt.Sprintf("Sum of %s: %d\n", name, sums[name]))
		}
	}

	return builder.String()
}

func eventTime(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format(EventTimeLayout)
}
