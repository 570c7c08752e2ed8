package input

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// DefaultSep separates label and expression on an entry line
const DefaultSep = ":"

// Entry is one date expression to parse, optionally labelled
type Entry struct {
	Label      string // e.g. a country name, empty for bare expressions
	Expression string // Free-text date, e.g. "March 4, 1899"
	Source     string // Where the entry came from: a path, URL or repo file
	Line       int    // 1-based line or match number within Source
}

// String returns "Label: Expression", or just the expression when unlabelled
func (e Entry) String() string {
	if e.Label == "" {
		return e.Expression
	}
	return e.Label + ": " + e.Expression
}

// key identifies an entry for deduplication
func (e Entry) key() string {
	return e.Label + "\x00" + e.Expression
}

// Skipped records an input line that could not become an entry
type Skipped struct {
	Source string
	Line   int
	Text   string
	Reason string
}

// Format describes how an entry line is laid out
type Format struct {
	Sep string // Label separator, DefaultSep when empty
	// ExpressionFirst reads lines as "Expression: Label", the layout of
	// scraped independence day lists
	ExpressionFirst bool
}

func (f Format) sep() string {
	if f.Sep == "" {
		return DefaultSep
	}
	return f.Sep
}

// SplitEntry splits one line into an Entry
// A line without the separator is an unlabelled expression
// A line with more than one separator is rejected
func SplitEntry(text string, f Format) (Entry, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Entry{}, false
	}

	parts := strings.Split(text, f.sep())
	switch len(parts) {
	case 1:
		return Entry{Expression: text}, true
	case 2:
		first, second := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
		if f.ExpressionFirst {
			first, second = second, first
		}
		if second == "" {
			return Entry{}, false
		}
		return Entry{Label: first, Expression: second}, true
	default:
		return Entry{}, false
	}
}

// ParseEntries parses labelled entries from a reader
// Skips empty lines and # comments. Deduplicates (label, expression) pairs
// while maintaining stable order. Lines that cannot be split are returned
// as Skipped rather than failing the whole input.
func ParseEntries(r io.Reader, f Format) ([]Entry, []Skipped, error) {
	var entries []Entry
	var skipped []Skipped
	seen := make(map[string]bool)
	scanner := bufio.NewScanner(r)
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		entry, ok := SplitEntry(line, f)
		if !ok {
			skipped = append(skipped, Skipped{
				Line:   lineNo,
				Text:   line,
				Reason: fmt.Sprintf("expected one %q between label and date", f.sep()),
			})
			continue
		}

		if seen[entry.key()] {
			continue
		}
		seen[entry.key()] = true

		entry.Line = lineNo
		entries = append(entries, entry)
	}

	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("error reading input: %w", err)
	}

	return entries, skipped, nil
}

// ParseLines reads one bare expression per line
// Skips empty lines and # comments but keeps duplicates, so that results
// line up with the input
func ParseLines(r io.Reader) ([]Entry, error) {
	var entries []Entry
	scanner := bufio.NewScanner(r)
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		entries = append(entries, Entry{Expression: line, Line: lineNo})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading input: %w", err)
	}

	return entries, nil
}
