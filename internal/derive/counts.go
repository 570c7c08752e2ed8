package derive

import (
	"fmt"
	"sort"
	"time"

	"github.com/Attamusc/history-dates-cli/internal/historic"
)

// Count is one bucket of a frequency table
type Count struct {
	Name string
	N    int
}

// weekdayOrder starts the week on Monday
var weekdayOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// CountWeekdays counts dates per day of the week, Monday first
// Days without dates are omitted
func CountWeekdays(dates []historic.Date, loc Locale) []Count {
	var perDay [7]int
	for _, d := range dates {
		perDay[d.Weekday()]++
	}

	var counts []Count
	for _, wd := range weekdayOrder {
		if perDay[wd] > 0 {
			counts = append(counts, Count{Name: WeekdayName(loc, wd), N: perDay[wd]})
		}
	}
	return counts
}

// CountMonths counts dates per calendar month, January first
// Months without dates are omitted
func CountMonths(dates []historic.Date, loc Locale) []Count {
	var perMonth [13]int
	for _, d := range dates {
		perMonth[d.Month]++
	}

	var counts []Count
	for m := time.January; m <= time.December; m++ {
		if perMonth[m] > 0 {
			counts = append(counts, Count{Name: MonthName(loc, m), N: perMonth[m]})
		}
	}
	return counts
}

// CountYears counts dates per year in ascending year order
func CountYears(dates []historic.Date) []Count {
	perYear := make(map[int]int)
	for _, d := range dates {
		perYear[d.Year]++
	}

	years := make([]int, 0, len(perYear))
	for y := range perYear {
		years = append(years, y)
	}
	sort.Ints(years)

	counts := make([]Count, 0, len(years))
	for _, y := range years {
		counts = append(counts, Count{Name: fmt.Sprintf("%04d", y), N: perYear[y]})
	}
	return counts
}

// MostCommon returns the largest bucket; ties keep the earliest one
func MostCommon(counts []Count) (Count, bool) {
	if len(counts) == 0 {
		return Count{}, false
	}
	best := counts[0]
	for _, c := range counts[1:] {
		if c.N > best.N {
			best = c
		}
	}
	return best, true
}
