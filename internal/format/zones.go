package format

import (
	"github.com/scylladb/termtables"

	"github.com/Attamusc/history-dates-cli/internal/zones"
)

// RenderTransitionsTerminal lists zone transitions with their offsets
func RenderTransitionsTerminal(transitions []zones.Transition) string {
	if len(transitions) == 0 {
		return ""
	}

	table := termtables.CreateTable()
	table.AddHeaders("At", "Before", "After", "Shift")
	for _, tr := range transitions {
		table.AddRow(
			tr.At.Format(EventTimeLayout),
			tr.NameBefore+" "+zones.FormatOffset(tr.OffsetBefore),
			tr.NameAfter+" "+zones.FormatOffset(tr.OffsetAfter),
			tr.Shift().String(),
		)
	}
	return table.Render()
}
