package report

import (
	"github.com/Attamusc/history-dates-cli/internal/format"
	"github.com/Attamusc/history-dates-cli/internal/historic"
)

// SelectWindow keeps rows whose date falls within [from, to]
// A nil bound is open. Undated rows are always kept so failures stay visible.
func SelectWindow(rows []format.Row, from, to *historic.Date) []format.Row {
	if from == nil && to == nil {
		return rows
	}

	var selected []format.Row
	for _, row := range rows {
		if row.Date != nil && !InWindow(*row.Date, from, to) {
			continue
		}
		selected = append(selected, row)
	}
	return selected
}

// InWindow reports whether d falls within the inclusive window [from, to]
func InWindow(d historic.Date, from, to *historic.Date) bool {
	if from != nil && d.Before(*from) {
		return false
	}
	if to != nil && to.Before(d) {
		return false
	}
	return true
}
