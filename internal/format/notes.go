package format

import (
	"fmt"
	"strings"
)

// NoteKind represents the type of note to be generated
type NoteKind int

const (
	// NoteUnparseable indicates an expression matched no supported shape
	NoteUnparseable NoteKind = iota
	// NoteRestated indicates an expression only parsed after being rewritten
	NoteRestated
	// NoteCorrection indicates an entry was replaced by a caller supplied
	// correction, such as a BCE year
	NoteCorrection
	// NoteSkippedLine indicates an input line that could not become an entry
	NoteSkippedLine
	// NoteFetchFailed indicates a source could not be read at all
	NoteFetchFailed
)

// Note represents a note entry about one input
type Note struct {
	Kind     NoteKind // Type of note
	Label    string   // Entry label, if any
	Input    string   // Expression or line as written
	Reason   string   // Failure reason (unparseable, skipped, fetch failed)
	Restated string   // Rewritten expression (restated)
	Source   string   // Where the input came from (skipped, fetch failed)
	Line     int      // Line within Source (skipped)
}

// RenderNotes generates a markdown notes section from a slice of notes
// Returns empty string if no notes are provided
// Format: "## Notes" header followed by bullet points
func RenderNotes(notes []Note) string {
	if len(notes) == 0 {
		return ""
	}

	var builder strings.Builder

	// Write section header
	builder.WriteString("## Notes\n\n")

	// Write each note as a bullet point
	for _, note := range notes {
		bullet := renderNoteBullet(note)
		if bullet != "" {
			builder.WriteString(fmt.Sprintf("- %s\n", bullet))
		}
	}

	return builder.String()
}

// renderNoteBullet generates the bullet point text for a single note
func renderNoteBullet(note Note) string {
	switch note.Kind {
	case NoteUnparseable:
		return fmt.Sprintf("%s: could not parse %q (%s)",
			subject(note), note.Input, note.Reason)

	case NoteRestated:
		return fmt.Sprintf("%s: %q was restated as %q before parsing",
			subject(note), note.Input, note.Restated)

	case NoteCorrection:
		return fmt.Sprintf("%s: corrected to %s, which the parser cannot represent",
			subject(note), note.Input)

	case NoteSkippedLine:
		return fmt.Sprintf("%s: skipped %q (%s)",
			location(note), note.Input, note.Reason)

	case NoteFetchFailed:
		return fmt.Sprintf("%s: could not be read (%s)", note.Source, note.Reason)

	default:
		// Unknown note kind, return empty string
		return ""
	}
}

// subject names the entry a note is about
func subject(note Note) string {
	if note.Label != "" {
		return note.Label
	}
	if note.Line > 0 {
		return fmt.Sprintf("line %d", note.Line)
	}
	return "entry"
}

// location renders source:line
func location(note Note) string {
	switch {
	case note.Source != "" && note.Line > 0:
		return fmt.Sprintf("%s:%d", note.Source, note.Line)
	case note.Source != "":
		return note.Source
	default:
		return fmt.Sprintf("line %d", note.Line)
	}
}

// HasNotesOfKind checks if any notes of the specified kind exist
func HasNotesOfKind(notes []Note, kind NoteKind) bool {
	for _, note := range notes {
		if note.Kind == kind {
			return true
		}
	}
	return false
}

// FilterNotesByKind returns only notes of the specified kind
func FilterNotesByKind(notes []Note, kind NoteKind) []Note {
	var filtered []Note
	for _, note := range notes {
		if note.Kind == kind {
			filtered = append(filtered, note)
		}
	}
	return filtered
}

// CountNotesByKind returns the count of notes of the specified kind
func CountNotesByKind(notes []Note, kind NoteKind) int {
	count := 0
	for _, note := range notes {
		if note.Kind == kind {
			count++
		}
	}
	return count
}
