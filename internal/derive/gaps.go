package derive

import (
	"sort"

	"github.com/Attamusc/history-dates-cli/internal/historic"
)

// Gap is the distance between two consecutive dates of a timeline
type Gap struct {
	From historic.Date
	To   historic.Date
	Days int
}

// GapStats summarizes the gaps of a timeline
type GapStats struct {
	Count    int
	Shortest Gap
	Longest  Gap
	MeanDays int // Truncated toward zero
}

// SortDates returns an ascending copy of dates
func SortDates(dates []historic.Date) []historic.Date {
	sorted := make([]historic.Date, len(dates))
	copy(sorted, dates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Before(sorted[j])
	})
	return sorted
}

// Gaps returns the gaps between consecutive dates after sorting them
// Repeated dates produce zero day gaps
func Gaps(dates []historic.Date) []Gap {
	sorted := SortDates(dates)
	if len(sorted) < 2 {
		return nil
	}

	gaps := make([]Gap, 0, len(sorted)-1)
	for i := 0; i+1 < len(sorted); i++ {
		gaps = append(gaps, Gap{
			From: sorted[i],
			To:   sorted[i+1],
			Days: sorted[i].DaysUntil(sorted[i+1]),
		})
	}
	return gaps
}

// Stats computes shortest, longest and mean gap
// Returns false when there are no gaps; ties keep the earliest gap
func Stats(gaps []Gap) (GapStats, bool) {
	if len(gaps) == 0 {
		return GapStats{}, false
	}

	stats := GapStats{Count: len(gaps), Shortest: gaps[0], Longest: gaps[0]}
	total := 0
	for _, g := range gaps {
		total += g.Days
		if g.Days < stats.Shortest.Days {
			stats.Shortest = g
		}
		if g.Days > stats.Longest.Days {
			stats.Longest = g
		}
	}
	stats.MeanDays = total / len(gaps)
	return stats, true
}
