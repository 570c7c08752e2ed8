package derive

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Attamusc/history-dates-cli/internal/historic"
)

// Date layout names accepted by --layout
const (
	LayoutISO       = "iso"
	LayoutDMY       = "dmy"
	LayoutCanonical = "canonical"
	LayoutMonthYear = "month-year"
)

// Placeholder rendered for rows without a date
const Undated = "undated"

// time package patterns for each layout. Canonical is rendered by the
// historic package itself so that it always re-parses.
var layoutPatterns = map[string]string{
	LayoutISO:       "2006-01-02",
	LayoutDMY:       "02/01/2006",
	LayoutMonthYear: "January (2006)",
}

// Layouts returns the supported layout names in sorted order
func Layouts() []string {
	names := []string{LayoutCanonical}
	for name := range layoutPatterns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ValidateLayout returns an error when name is not a supported layout
func ValidateLayout(name string) error {
	if name == LayoutCanonical {
		return nil
	}
	if _, ok := layoutPatterns[name]; ok {
		return nil
	}
	return fmt.Errorf("unknown date layout %q (valid layouts: %s)", name, strings.Join(Layouts(), ", "))
}

// RenderDate formats a date pointer with the named layout
// Returns "undated" if the pointer is nil
// Unknown layouts fall back to ISO
func RenderDate(d *historic.Date, layout string) string {
	if d == nil {
		return Undated
	}
	if layout == LayoutCanonical {
		return d.Canonical()
	}
	pattern, ok := layoutPatterns[layout]
	if !ok {
		return d.ISO()
	}
	return d.Format(pattern)
}

// ParseBound parses a --from/--to window bound
// Empty, "tbd" and "n/a" mean an open bound and return nil
// Accepts ISO dates (YYYY-MM-DD) and every historic expression
func ParseBound(raw string) (*historic.Date, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "tbd") || strings.EqualFold(raw, "n/a") {
		return nil, nil
	}

	if t, err := time.Parse(layoutPatterns[LayoutISO], raw); err == nil {
		d := historic.FromTime(t)
		return &d, nil
	}

	d, err := historic.ParseE(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid date bound %q: %w", raw, err)
	}
	return &d, nil
}
