package format

import (
	"sort"

	"github.com/Attamusc/history-dates-cli/internal/derive"
)

// SortRowsByDate orders dated rows ascending, followed by undated rows in
// their original order
func SortRowsByDate(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].Date, rows[j].Date
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Before(*b)
		}
	})
}

// statusPriority orders statuses for SortRowsByStatus
var statusPriority = map[derive.Status]int{
	derive.Corrected:   0,
	derive.Parsed:      1,
	derive.Restated:    2,
	derive.Unparseable: 3,
}

// SortRowsByStatus groups rows by status, keeping date order within a group
func SortRowsByStatus(rows []Row) {
	SortRowsByDate(rows)
	sort.SliceStable(rows, func(i, j int) bool {
		return getSortPriority(rows[i]) < getSortPriority(rows[j])
	})
}

func getSortPriority(row Row) int {
	if p, ok := statusPriority[row.Status()]; ok {
		return p
	}
	return len(statusPriority)
}

// FilterRowsByStatus keeps rows whose status is in statuses
// An empty filter keeps every row
func FilterRowsByStatus(rows []Row, statuses []derive.Status) []Row {
	if len(statuses) == 0 {
		return rows
	}

	allowed := make(map[derive.Status]bool, len(statuses))
	for _, s := range statuses {
		allowed[s] = true
	}

	var filtered []Row
	for _, row := range rows {
		if allowed[row.Status()] {
			filtered = append(filtered, row)
		}
	}
	return filtered
}
