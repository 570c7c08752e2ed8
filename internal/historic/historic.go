// Package historic parses free-text historical date expressions into
// calendar dates.
//
// The parser understands the handful of shapes that show up when dates are
// scraped from prose about history:
//
//	1821             bare year
//	1903 CE          year with a Common Era suffix
//	5th century      ordinal century, resolved to its first year
//	March 4, 1899    month name, single digit day, year
//	March 04, 1899   month name, two digit day, year
//
// Anything else yields an Outcome carrying a ParseError with a Reason. The
// parser never panics and never returns a placeholder date.
//
// Dates are proleptic Gregorian. Years run from 0 to 9999 and are always
// rendered with four digits. There is no era handling: BCE dates are the
// caller's business.
//
// All functions are pure and safe for concurrent use.
package historic

import (
	"fmt"
	"time"
)

const (
	// MinYear is the smallest year a Date can hold. Year 0 is reachable
	// through "1th century".
	MinYear = 0
	// MaxYear is the largest year that still fits the four digit year field.
	MaxYear = 9999
)

// Date is a calendar date at day granularity.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate returns the date for year, month and day, or false when the
// combination does not exist (February 30) or the year is out of range.
func NewDate(year int, month time.Month, day int) (Date, bool) {
	if year < MinYear || year > MaxYear {
		return Date{}, false
	}
	// time.Date normalizes overflow, so a mismatch means the date does not exist.
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return Date{}, false
	}
	return Date{Year: year, Month: month, Day: day}, true
}

// FromTime returns the calendar date of t in its own location.
func FromTime(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// IsZero reports whether d is the zero Date, which is never produced by a
// successful parse.
func (d Date) IsZero() bool {
	return d == Date{}
}

// Time returns midnight UTC on d.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// Weekday returns the day of the week of d.
func (d Date) Weekday() time.Weekday {
	return d.Time().Weekday()
}

// YearDay returns the day of the year of d, in the range [1,366].
func (d Date) YearDay() int {
	return d.Time().YearDay()
}

// Compare returns -1, 0 or +1 depending on whether d is before, equal to or
// after o.
func (d Date) Compare(o Date) int {
	switch {
	case d.Year != o.Year:
		return cmpInt(d.Year, o.Year)
	case d.Month != o.Month:
		return cmpInt(int(d.Month), int(o.Month))
	default:
		return cmpInt(d.Day, o.Day)
	}
}

// Before reports whether d is strictly before o.
func (d Date) Before(o Date) bool {
	return d.Compare(o) < 0
}

// DaysUntil returns the number of days from d to o, negative when o is
// earlier. time.Duration cannot span centuries, so the difference is taken
// on Unix seconds.
func (d Date) DaysUntil(o Date) int {
	const secondsPerDay = 24 * 60 * 60
	return int((o.Time().Unix() - d.Time().Unix()) / secondsPerDay)
}

// Format formats d with a time package layout.
func (d Date) Format(layout string) string {
	return d.Time().Format(layout)
}

// ISO returns d as YYYY-MM-DD.
func (d Date) ISO() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Canonical returns d in the "Month DD, YYYY" form. Parsing the result
// yields d again.
func (d Date) Canonical() string {
	return fmt.Sprintf("%s %02d, %04d", d.Month, d.Day, d.Year)
}

// String returns the ISO form of d.
func (d Date) String() string {
	return d.ISO()
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Shape identifies which input form produced a date.
type Shape int

const (
	ShapeNone               Shape = iota // No shape matched
	ShapeYear                            // "1821"
	ShapeYearCE                          // "1903 CE"
	ShapeCentury                         // "5th century"
	ShapeMonthPaddedDayYear              // "March 4, 1899", day padded before parsing
	ShapeMonthDayYear                    // "March 04, 1899"
)

var shapeNames = [...]string{
	ShapeNone:               "none",
	ShapeYear:               "year",
	ShapeYearCE:             "year_ce",
	ShapeCentury:            "century",
	ShapeMonthPaddedDayYear: "month_padded_day_year",
	ShapeMonthDayYear:       "month_day_year",
}

// String returns the snake_case name of the shape.
func (s Shape) String() string {
	if int(s) >= 0 && int(s) < len(shapeNames) {
		return shapeNames[s]
	}
	return fmt.Sprintf("Shape(%d)", int(s))
}

// Outcome is the result of parsing one expression: either a Date or a
// ParseError, never both.
type Outcome struct {
	Input string      // The expression as given
	Date  Date        // Valid only when Err is nil
	Shape Shape       // Matched shape, ShapeNone when nothing matched
	Err   *ParseError // Nil on success
}

// OK reports whether the expression parsed.
func (o Outcome) OK() bool {
	return o.Err == nil
}

// Reason returns the failure reason, or ReasonNone on success.
func (o Outcome) Reason() Reason {
	if o.Err == nil {
		return ReasonNone
	}
	return o.Err.Reason
}

// Parse parses a single date expression. See the package documentation for
// the accepted shapes.
func Parse(expression string) Outcome {
	return parseTokens(expression, tokenize(expression))
}

// ParseE is Parse with a conventional (Date, error) result.
func ParseE(expression string) (Date, error) {
	o := Parse(expression)
	if o.Err != nil {
		return Date{}, o.Err
	}
	return o.Date, nil
}

// ParseAll parses every expression. The result always has the same length
// and order as the input.
func ParseAll(expressions []string) []Outcome {
	out := make([]Outcome, len(expressions))
	for i, e := range expressions {
		out[i] = Parse(e)
	}
	return out
}

// Summary counts the outcomes of a batch.
type Summary struct {
	Total       int
	Parsed      int
	Unparseable int
	ByReason    map[Reason]int
}

// Tally summarizes a batch of outcomes. Parsed+Unparseable always equals Total.
func Tally(outcomes []Outcome) Summary {
	s := Summary{Total: len(outcomes), ByReason: make(map[Reason]int)}
	for _, o := range outcomes {
		if o.OK() {
			s.Parsed++
			continue
		}
		s.Unparseable++
		s.ByReason[o.Err.Reason]++
	}
	return s
}

// CenturyStart returns the first year of the nth century, counting the
// first century as starting in year 0.
func CenturyStart(n int) int {
	return (n - 1) * 100
}
