package historic

import (
	"strconv"
	"strings"
	"time"
)

// monthDayYearLayout is the fixed pattern both month name shapes are parsed
// against once the day has two digits.
const monthDayYearLayout = "January 02, 2006"

// monthNames is the fixed English month table. Lookups are case-sensitive.
var monthNames = map[string]time.Month{
	"January":   time.January,
	"February":  time.February,
	"March":     time.March,
	"April":     time.April,
	"May":       time.May,
	"June":      time.June,
	"July":      time.July,
	"August":    time.August,
	"September": time.September,
	"October":   time.October,
	"November":  time.November,
	"December":  time.December,
}

// shapeRule pairs a structural predicate with the builder that turns the
// tokens into a date. Builders may still reject the tokens with a reason.
type shapeRule struct {
	shape Shape
	match func(tokens []string) bool
	build func(input string, tokens []string) (Date, *ParseError)
}

// shapeRules is evaluated in order and the first matching rule decides the
// outcome.
var shapeRules = []shapeRule{
	{shape: ShapeYear, match: isBareYear, build: buildYear},
	{shape: ShapeYearCE, match: isYearCE, build: buildYear},
	{shape: ShapeCentury, match: isCentury, build: buildCentury},
	{shape: ShapeMonthPaddedDayYear, match: isMonthShortDayYear, build: buildMonthDayYear},
	{shape: ShapeMonthDayYear, match: isMonthDayYear, build: buildMonthDayYear},
}

func tokenize(s string) []string {
	return strings.Fields(s)
}

func parseTokens(input string, tokens []string) Outcome {
	if len(tokens) == 0 {
		return Outcome{Input: input, Err: &ParseError{Input: input, Reason: ReasonEmpty}}
	}
	for _, rule := range shapeRules {
		if !rule.match(tokens) {
			continue
		}
		d, err := rule.build(input, tokens)
		if err != nil {
			return Outcome{Input: input, Shape: rule.shape, Err: err}
		}
		return Outcome{Input: input, Date: d, Shape: rule.shape}
	}
	return Outcome{Input: input, Err: unmatched(input, tokens)}
}

// unmatched picks the most specific reason for tokens no rule accepted.
func unmatched(input string, tokens []string) *ParseError {
	if len(tokens) == 3 {
		if _, ok := monthNames[tokens[0]]; !ok {
			return failure(input, ReasonInvalidMonthName, "%q is not an English month name", tokens[0])
		}
		return failure(input, ReasonUnsupportedShape, `expected "Month D, YYYY"`)
	}
	return failure(input, ReasonUnsupportedShape, "%d tokens match no known shape", len(tokens))
}

// ---------- predicates ----------

func isBareYear(tokens []string) bool {
	return len(tokens) == 1 && isDigits(tokens[0])
}

func isYearCE(tokens []string) bool {
	return len(tokens) == 2 && isDigits(tokens[0]) && tokens[1] == "CE"
}

func isCentury(tokens []string) bool {
	if len(tokens) != 2 || !strings.EqualFold(tokens[1], "century") {
		return false
	}
	n, ok := strings.CutSuffix(tokens[0], "th")
	return ok && isDigits(n)
}

func isMonthShortDayYear(tokens []string) bool {
	day, ok := dayToken(tokens)
	return ok && len(day) == 1
}

func isMonthDayYear(tokens []string) bool {
	day, ok := dayToken(tokens)
	return ok && len(day) == 2
}

// dayToken returns the day of a three token expression with its trailing
// comma removed.
func dayToken(tokens []string) (string, bool) {
	if len(tokens) != 3 {
		return "", false
	}
	return strings.CutSuffix(tokens[1], ",")
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// ---------- builders ----------

// buildYear handles both the bare year and the "CE" shapes. The suffix
// carries no meaning beyond marking the year as positive.
func buildYear(input string, tokens []string) (Date, *ParseError) {
	y, err := strconv.Atoi(tokens[0])
	if err != nil {
		return Date{}, failure(input, ReasonInvalidNumeric, "year %q is not a number", tokens[0])
	}
	d, ok := NewDate(y, time.January, 1)
	if !ok {
		return Date{}, failure(input, ReasonInvalidNumeric, "year %d outside %d..%d", y, MinYear, MaxYear)
	}
	return d, nil
}

func buildCentury(input string, tokens []string) (Date, *ParseError) {
	digits := strings.TrimSuffix(tokens[0], "th")
	n, err := strconv.Atoi(digits)
	if err != nil || n < 1 || n > MaxYear/100+1 {
		return Date{}, failure(input, ReasonInvalidNumeric, "century %q out of range", digits)
	}
	d, ok := NewDate(CenturyStart(n), time.January, 1)
	if !ok {
		return Date{}, failure(input, ReasonInvalidNumeric, "century %d starts after year %d", n, MaxYear)
	}
	return d, nil
}

func buildMonthDayYear(input string, tokens []string) (Date, *ParseError) {
	month, day, year := tokens[0], strings.TrimSuffix(tokens[1], ","), tokens[2]
	if _, ok := monthNames[month]; !ok {
		return Date{}, failure(input, ReasonInvalidMonthName, "%q is not an English month name", month)
	}
	if !isDigits(day) {
		return Date{}, failure(input, ReasonInvalidNumeric, "day %q is not a number", day)
	}
	if !isDigits(year) || len(year) != 4 {
		return Date{}, failure(input, ReasonInvalidNumeric, "year %q is not four digits", year)
	}
	if len(day) == 1 {
		day = "0" + day
	}

	t, err := time.Parse(monthDayYearLayout, month+" "+day+", "+year)
	if err != nil {
		return Date{}, failure(input, ReasonInvalidDate, "%s %s, %s does not exist", month, day, year)
	}
	return FromTime(t), nil
}
