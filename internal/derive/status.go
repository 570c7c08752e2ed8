package derive

import (
	"strings"

	"github.com/Attamusc/history-dates-cli/internal/historic"
)

// Status represents the outcome of one entry with emoji and caption
type Status struct {
	Emoji   string
	Caption string
}

// Predefined statuses
var (
	Parsed      = Status{Emoji: ":white_check_mark:", Caption: "Parsed"}
	Restated    = Status{Emoji: ":robot:", Caption: "Restated"}
	Corrected   = Status{Emoji: ":pencil2:", Caption: "Corrected"}
	Unparseable = Status{Emoji: ":x:", Caption: "Unparseable"}
)

// Status mapping patterns for free-form --only values (case-insensitive)
var statusMappings = []struct {
	patterns []string
	status   Status
}{
	{
		patterns: []string{"parsed", "ok", "success"},
		status:   Parsed,
	},
	{
		patterns: []string{"restated", "rewritten", "ai"},
		status:   Restated,
	},
	{
		patterns: []string{"corrected", "correction", "bce"},
		status:   Corrected,
	},
	{
		patterns: []string{"unparseable", "failed", "error", "invalid"},
		status:   Unparseable,
	},
}

// StatusFor returns the status of a parse outcome. restated marks outcomes
// that only parsed after an expression was rewritten.
func StatusFor(o historic.Outcome, restated bool) Status {
	switch {
	case !o.OK():
		return Unparseable
	case restated:
		return Restated
	default:
		return Parsed
	}
}

// MapStatus maps a free-form status string to a Status
// Returns (Status, false) when nothing matches
func MapStatus(raw string) (Status, bool) {
	normalized := strings.TrimSpace(strings.ToLower(raw))
	if normalized == "" {
		return Status{}, false
	}

	if s, ok := ParseStatusKey(normalized); ok {
		return s, true
	}

	for _, mapping := range statusMappings {
		for _, pattern := range mapping.patterns {
			if strings.Contains(normalized, pattern) {
				return mapping.status, true
			}
		}
	}

	return Status{}, false
}

// String returns a formatted status string for display
func (s Status) String() string {
	return s.Emoji + " " + s.Caption
}

// Key returns the canonical snake_case key for the status.
func (s Status) Key() string {
	switch s {
	case Parsed:
		return "parsed"
	case Restated:
		return "restated"
	case Corrected:
		return "corrected"
	default:
		return "unparseable"
	}
}

// ParseStatusKey converts a canonical snake_case status key to a Status value.
// Returns (Status, false) if the key is not recognized.
func ParseStatusKey(key string) (Status, bool) {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "parsed":
		return Parsed, true
	case "restated":
		return Restated, true
	case "corrected":
		return Corrected, true
	case "unparseable":
		return Unparseable, true
	default:
		return Status{}, false
	}
}
