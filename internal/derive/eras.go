package derive

import (
	"strings"
)

// Correction supplies the date text for an entry the parser cannot
// represent, such as a BCE year
type Correction struct {
	Label string
	Text  string
}

// DefaultCorrections covers the BCE founding dates that show up in lists of
// national independence days
var DefaultCorrections = []Correction{
	{Label: "Japan", Text: "660 BCE"},
	{Label: "China", Text: "221 BCE"},
}

// String renders the correction as "Label: Text"
func (c Correction) String() string {
	return c.Label + ": " + c.Text
}

// ParseCorrection parses a "Label: Text" pair as given to --correct
func ParseCorrection(raw string) (Correction, bool) {
	label, text, ok := strings.Cut(raw, ":")
	label, text = strings.TrimSpace(label), strings.TrimSpace(text)
	if !ok || label == "" || text == "" {
		return Correction{}, false
	}
	return Correction{Label: label, Text: text}, true
}

// ApplyCorrections matches corrections against entry labels. It returns the
// corrections that apply, in correction order, and the set of labels they
// supersede. Label matching ignores case and surrounding whitespace.
func ApplyCorrections(labels []string, corrections []Correction) ([]Correction, map[string]bool) {
	present := make(map[string]string, len(labels))
	for _, label := range labels {
		key := correctionKey(label)
		if _, ok := present[key]; !ok {
			present[key] = label
		}
	}

	var applied []Correction
	superseded := make(map[string]bool)
	for _, c := range corrections {
		label, ok := present[correctionKey(c.Label)]
		if !ok || superseded[label] {
			continue
		}
		applied = append(applied, c)
		superseded[label] = true
	}
	return applied, superseded
}

func correctionKey(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}
