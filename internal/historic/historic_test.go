package historic

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type parseTest struct {
	in     string
	out    string // ISO date, empty when the input must fail
	shape  Shape
	reason Reason
}

var parseInputs = []parseTest{
	// bare year
	{in: "1821", out: "1821-01-01", shape: ShapeYear},
	{in: "  1776 ", out: "1776-01-01", shape: ShapeYear},
	{in: "0622", out: "0622-01-01", shape: ShapeYear},
	// year CE
	{in: "1903 CE", out: "1903-01-01", shape: ShapeYearCE},
	{in: "476 CE", out: "0476-01-01", shape: ShapeYearCE},
	// century
	{in: "5th century", out: "0400-01-01", shape: ShapeCentury},
	{in: "19th century", out: "1800-01-01", shape: ShapeCentury},
	{in: "10th Century", out: "0900-01-01", shape: ShapeCentury},
	{in: "11th CENTURY", out: "1000-01-01", shape: ShapeCentury},
	{in: "1th century", out: "0000-01-01", shape: ShapeCentury},
	{in: "100th century", out: "9900-01-01", shape: ShapeCentury},
	// month D, YYYY
	{in: "March 4, 1899", out: "1899-03-04", shape: ShapeMonthPaddedDayYear},
	{in: "July 4, 1776", out: "1776-07-04", shape: ShapeMonthPaddedDayYear},
	{in: "September  7,   1822", out: "1822-09-07", shape: ShapeMonthPaddedDayYear},
	// month DD, YYYY
	{in: "November 17, 1902", out: "1902-11-17", shape: ShapeMonthDayYear},
	{in: "March 07, 1935", out: "1935-03-07", shape: ShapeMonthDayYear},
	{in: "February 29, 2000", out: "2000-02-29", shape: ShapeMonthDayYear},
	{in: "January 01, 0400", out: "0400-01-01", shape: ShapeMonthDayYear},

	// failures
	{in: "", reason: ReasonEmpty},
	{in: "   ", reason: ReasonEmpty},
	{in: "garbage text", reason: ReasonUnsupportedShape},
	{in: "1903 ce", reason: ReasonUnsupportedShape},
	{in: "1903 BCE", reason: ReasonUnsupportedShape},
	{in: "660 BCE", reason: ReasonUnsupportedShape},
	{in: "1st century", reason: ReasonUnsupportedShape},
	{in: "2nd century", reason: ReasonUnsupportedShape},
	{in: "21st century", reason: ReasonUnsupportedShape},
	{in: "fifth century", reason: ReasonUnsupportedShape},
	{in: "5th millennium", reason: ReasonUnsupportedShape},
	{in: "March 1899", reason: ReasonUnsupportedShape},
	{in: "March 4 1899", reason: ReasonUnsupportedShape},
	{in: "4 March 1899", reason: ReasonInvalidMonthName},
	{in: "march 4, 1899", reason: ReasonInvalidMonthName, shape: ShapeMonthPaddedDayYear},
	{in: "Mar 04, 1899", reason: ReasonInvalidMonthName, shape: ShapeMonthDayYear},
	{in: "Março 4, 1899", reason: ReasonInvalidMonthName, shape: ShapeMonthPaddedDayYear},
	{in: "March x, 1899", reason: ReasonInvalidNumeric, shape: ShapeMonthPaddedDayYear},
	{in: "March 4, 99", reason: ReasonInvalidNumeric, shape: ShapeMonthPaddedDayYear},
	{in: "March 4, 18990", reason: ReasonInvalidNumeric, shape: ShapeMonthPaddedDayYear},
	{in: "March 123, 1899", reason: ReasonUnsupportedShape},
	{in: "February 30, 1900", reason: ReasonInvalidDate, shape: ShapeMonthDayYear},
	{in: "February 29, 1900", reason: ReasonInvalidDate, shape: ShapeMonthDayYear},
	{in: "April 00, 1900", reason: ReasonInvalidDate, shape: ShapeMonthDayYear},
	{in: "10000", reason: ReasonInvalidNumeric, shape: ShapeYear},
	{in: "99999999999999999999", reason: ReasonInvalidNumeric, shape: ShapeYear},
	{in: "0th century", reason: ReasonInvalidNumeric, shape: ShapeCentury},
	{in: "101th century", reason: ReasonInvalidNumeric, shape: ShapeCentury},
	{in: "1 2 3 4", reason: ReasonUnsupportedShape},
}

func TestParse(t *testing.T) {
	for _, th := range parseInputs {
		t.Run(th.in, func(t *testing.T) {
			o := Parse(th.in)
			assert.Equal(t, th.in, o.Input)
			assert.Equal(t, th.shape, o.Shape, "shape for %q", th.in)
			if th.out == "" {
				require.False(t, o.OK(), "expected %q to fail, got %v", th.in, o.Date)
				assert.Equal(t, th.reason, o.Reason())
				assert.True(t, o.Date.IsZero())
				return
			}
			require.True(t, o.OK(), "unexpected error: %v", o.Err)
			assert.Equal(t, ReasonNone, o.Reason())
			assert.Equal(t, th.out, o.Date.ISO())
		})
	}
}

func TestParseE(t *testing.T) {
	d, err := ParseE("March 4, 1899")
	require.NoError(t, err)
	assert.Equal(t, Date{Year: 1899, Month: time.March, Day: 4}, d)

	_, err = ParseE("march 4, 1899")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidMonthName))

	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "march 4, 1899", pe.Input)
	assert.Equal(t, ReasonInvalidMonthName, pe.Reason)

	_, err = ParseE("")
	assert.True(t, errors.Is(err, ErrEmpty))
	assert.Equal(t, `historic: parse "": empty`, err.Error())
}

func TestCenturyYears(t *testing.T) {
	for n := 1; n <= 20; n++ {
		o := Parse(fmt.Sprintf("%dth century", n))
		require.True(t, o.OK(), "century %d: %v", n, o.Err)
		assert.Equal(t, (n-1)*100, o.Date.Year)
		assert.Equal(t, CenturyStart(n), o.Date.Year)
		assert.Equal(t, time.January, o.Date.Month)
		assert.Equal(t, 1, o.Date.Day)
	}
}

func TestCanonicalRoundTrip(t *testing.T) {
	for _, th := range parseInputs {
		if th.out == "" {
			continue
		}
		first := Parse(th.in)
		require.True(t, first.OK())

		again := Parse(first.Date.Canonical())
		require.True(t, again.OK(), "re-parse of %q: %v", first.Date.Canonical(), again.Err)
		assert.Equal(t, first.Date, again.Date, "round trip of %q", th.in)
	}
}

func TestParseAllAndTally(t *testing.T) {
	inputs := []string{"1821", "garbage text", "5th century", "", "March 4, 1899", "march 4, 1899", "10000"}
	outcomes := ParseAll(inputs)
	require.Len(t, outcomes, len(inputs))
	for i, o := range outcomes {
		assert.Equal(t, inputs[i], o.Input)
	}

	s := Tally(outcomes)
	assert.Equal(t, len(inputs), s.Total)
	assert.Equal(t, s.Total, s.Parsed+s.Unparseable)
	assert.Equal(t, 3, s.Parsed)
	assert.Equal(t, 4, s.Unparseable)
	assert.Equal(t, 1, s.ByReason[ReasonUnsupportedShape])
	assert.Equal(t, 1, s.ByReason[ReasonEmpty])
	assert.Equal(t, 1, s.ByReason[ReasonInvalidMonthName])
	assert.Equal(t, 1, s.ByReason[ReasonInvalidNumeric])
}

func TestDistinctShapesDistinctDates(t *testing.T) {
	// Inputs naming different days must never collapse onto one Date.
	seen := map[Date]string{}
	for _, in := range []string{"1899", "March 4, 1899", "March 14, 1899", "19th century", "1801", "4th century"} {
		d, err := ParseE(in)
		require.NoError(t, err)
		if prev, ok := seen[d]; ok {
			t.Fatalf("%q and %q both parsed to %v", prev, in, d)
		}
		seen[d] = in
	}
}

func TestDate(t *testing.T) {
	d := Date{Year: 1822, Month: time.September, Day: 7}
	assert.Equal(t, "1822-09-07", d.String())
	assert.Equal(t, "September 07, 1822", d.Canonical())
	assert.Equal(t, "07/09/1822", d.Format("02/01/2006"))
	assert.Equal(t, time.Saturday, d.Weekday())
	assert.Equal(t, 250, d.YearDay())

	early := Date{Year: 400, Month: time.January, Day: 1}
	assert.Equal(t, "January 01, 0400", early.Canonical())
	assert.Equal(t, "0400-01-01", early.ISO())
	assert.Equal(t, -1, early.Compare(d))
	assert.Equal(t, 1, d.Compare(early))
	assert.Equal(t, 0, d.Compare(d))
	assert.True(t, early.Before(d))
	assert.False(t, d.Before(d))

	assert.Equal(t, 365, Date{1999, time.January, 1}.DaysUntil(Date{2000, time.January, 1}))
	assert.Equal(t, -366, Date{2001, time.January, 1}.DaysUntil(Date{2000, time.January, 1}))
	assert.Equal(t, 511340, Date{400, time.January, 1}.DaysUntil(Date{1800, time.January, 1}))

	_, ok := NewDate(1900, time.February, 29)
	assert.False(t, ok)
	_, ok = NewDate(10000, time.January, 1)
	assert.False(t, ok)
	_, ok = NewDate(-1, time.January, 1)
	assert.False(t, ok)
	nd, ok := NewDate(2000, time.February, 29)
	assert.True(t, ok)
	assert.Equal(t, "2000-02-29", nd.ISO())
}

func TestShapeAndReasonNames(t *testing.T) {
	assert.Equal(t, "century", ShapeCentury.String())
	assert.Equal(t, "Shape(42)", Shape(42).String())
	assert.Equal(t, "invalid_month_name", ReasonInvalidMonthName.String())
	assert.Equal(t, "Reason(-1)", Reason(-1).String())
}
