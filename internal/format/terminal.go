package format

import (
	"fmt"

	"github.com/scylladb/termtables"

	"github.com/Attamusc/history-dates-cli/internal/derive"
)

// RenderTerminal renders rows as a boxed table for interactive use
func RenderTerminal(rows []Row, layout string) string {
	if len(rows) == 0 {
		return ""
	}

	table := termtables.CreateTable()
	table.AddHeaders("Status", "Label", "Input", "Date", "Note")
	for _, row := range rows {
		table.AddRow(
			row.StatusCaption,
			orDash(collapseNewlines(row.Label)),
			orDash(collapseNewlines(row.Input)),
			derive.RenderDate(row.Date, layout),
			orDash(collapseNewlines(row.Note)),
		)
	}
	return table.Render()
}

// RenderCountsTerminal renders a frequency table with a share column
func RenderCountsTerminal(title string, counts []derive.Count) string {
	if len(counts) == 0 {
		return ""
	}

	total := 0
	for _, c := range counts {
		total += c.N
	}

	table := termtables.CreateTable()
	table.AddHeaders(title, "Count", "Share")
	for _, c := range counts {
		table.AddRow(c.Name, c.N, fmt.Sprintf("%.1f%%", share(c.N, total)))
	}
	return table.Render()
}

func share(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) * 100 / float64(total)
}
