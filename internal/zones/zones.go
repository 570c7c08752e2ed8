// Package zones resolves time zone names and answers questions about wall
// clock times around daylight saving shifts.
package zones

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	timezone "github.com/tkuchiki/go-timezone"
)

// ErrUnknownZone is returned when a name cannot be resolved
var ErrUnknownZone = errors.New("zones: unknown zone")

// Resolve returns the location for an IANA name ("America/Sao_Paulo"), a
// fixed offset ("UTC-3", "GMT+05:30", "-0300") or an abbreviation ("BRT").
func Resolve(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	switch strings.ToUpper(name) {
	case "", "UTC", "Z", "GMT":
		return time.UTC, nil
	case "LOCAL":
		return time.Local, nil
	}

	if offset, ok := parseOffset(name); ok {
		return time.FixedZone(FormatOffset(offset), offset), nil
	}

	if isAbbreviation(name) {
		return resolveAbbreviation(name)
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrUnknownZone, name, err)
	}
	return loc, nil
}

// parseOffset reads "UTC-3", "UTC+05:30", "GMT-0300", "-03:00" and "+5"
// into seconds east of UTC
func parseOffset(s string) (int, bool) {
	upper := strings.ToUpper(s)
	for _, prefix := range []string{"UTC", "GMT"} {
		if rest, ok := strings.CutPrefix(upper, prefix); ok {
			upper = rest
			break
		}
	}
	if len(upper) < 2 || (upper[0] != '+' && upper[0] != '-') {
		return 0, false
	}

	sign := 1
	if upper[0] == '-' {
		sign = -1
	}
	body := upper[1:]

	var hours, minutes string
	switch {
	case strings.Contains(body, ":"):
		hours, minutes, _ = strings.Cut(body, ":")
	case len(body) == 4:
		hours, minutes = body[:2], body[2:]
	default:
		hours, minutes = body, "0"
	}

	h, err := strconv.Atoi(hours)
	if err != nil || h < 0 || h > 14 {
		return 0, false
	}
	m, err := strconv.Atoi(minutes)
	if err != nil || m < 0 || m > 59 {
		return 0, false
	}
	return sign * (h*3600 + m*60), true
}

// FormatOffset renders seconds east of UTC as "UTC-03:00"
func FormatOffset(seconds int) string {
	sign := '+'
	if seconds < 0 {
		sign = '-'
		seconds = -seconds
	}
	return fmt.Sprintf("UTC%c%02d:%02d", sign, seconds/3600, seconds%3600/60)
}

func isAbbreviation(s string) bool {
	if len(s) < 2 || len(s) > 5 {
		return false
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// resolveAbbreviation maps an abbreviation to a fixed zone. Abbreviations
// shared by zones with different offsets are rejected.
func resolveAbbreviation(abbr string) (*time.Location, error) {
	infos, err := timezone.New().GetTzAbbreviationInfo(abbr)
	if len(infos) == 0 {
		return nil, fmt.Errorf("%w %q: %v", ErrUnknownZone, abbr, err)
	}

	offset := infos[0].Offset()
	for _, info := range infos[1:] {
		if info.Offset() != offset {
			return nil, fmt.Errorf("%w %q: abbreviation is ambiguous, use an IANA name or offset", ErrUnknownZone, abbr)
		}
	}
	return time.FixedZone(abbr, offset), nil
}

// ParseWall reads a wall clock time such as "2017-02-18 23:30" or
// "09/11/2021 19:30:00" (day first). Any zone in the text is ignored; only
// the clock fields are kept, in UTC.
func ParseWall(s string) (time.Time, error) {
	t, err := dateparse.ParseIn(strings.TrimSpace(s), time.UTC, dateparse.PreferMonthFirst(false))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: %w", s, err)
	}
	return wallClock(t), nil
}

// wallClock keeps the clock fields of t and drops its zone
func wallClock(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

// At interprets the clock fields of wall in loc
// Ambiguous times resolve to the first occurrence and nonexistent ones are
// shifted forward, as time.Date does.
func At(wall time.Time, loc *time.Location) time.Time {
	return time.Date(wall.Year(), wall.Month(), wall.Day(), wall.Hour(), wall.Minute(), wall.Second(), wall.Nanosecond(), loc)
}

// Convert returns t in loc
func Convert(t time.Time, loc *time.Location) time.Time {
	return t.In(loc)
}

// Occurrences returns every instant at which the clock in loc shows wall:
// none inside a spring-forward gap, two inside a fall-back overlap and one
// otherwise
func Occurrences(wall time.Time, loc *time.Location) []time.Time {
	naive := wallClock(wall)

	// Shifts are at least a day apart, so the offsets in effect a day either
	// side cover every candidate.
	candidates := []int{
		offsetAt(naive.Add(-24*time.Hour), loc),
		offsetAt(naive, loc),
		offsetAt(naive.Add(24*time.Hour), loc),
	}

	var found []time.Time
	seen := make(map[int]bool)
	for _, offset := range candidates {
		if seen[offset] {
			continue
		}
		seen[offset] = true

		instant := naive.Add(-time.Duration(offset) * time.Second).In(loc)
		if _, actual := instant.Zone(); actual == offset {
			found = append(found, instant)
		}
	}

	// Earliest instant first
	if len(found) == 2 && found[1].Before(found[0]) {
		found[0], found[1] = found[1], found[0]
	}
	return found
}

func offsetAt(t time.Time, loc *time.Location) int {
	_, offset := t.In(loc).Zone()
	return offset
}

// IsAmbiguous reports whether wall occurs twice in loc
func IsAmbiguous(wall time.Time, loc *time.Location) bool {
	return len(Occurrences(wall, loc)) > 1
}

// IsNonexistent reports whether wall is skipped in loc
func IsNonexistent(wall time.Time, loc *time.Location) bool {
	return len(Occurrences(wall, loc)) == 0
}
