package report

import (
	"strings"

	"github.com/Attamusc/history-dates-cli/internal/derive"
	"github.com/Attamusc/history-dates-cli/internal/format"
	"github.com/Attamusc/history-dates-cli/internal/historic"
	"github.com/Attamusc/history-dates-cli/internal/input"
)

// Result is the parse outcome for one entry
// When Restated is set, Outcome.Input is the rewritten text and
// Entry.Expression still holds what the source said.
type Result struct {
	Entry    input.Entry
	Outcome  historic.Outcome // Outcome of the expression that was finally parsed
	Restated string           // Rewritten expression, empty when the original parsed or restating failed
}

// Options controls how a timeline is assembled
type Options struct {
	Corrections []derive.Correction // Applied by label before sorting
	From        *historic.Date      // Inclusive lower bound, nil for none
	To          *historic.Date      // Inclusive upper bound, nil for none
	Only        []derive.Status     // Keep only these statuses, all when empty
	Skipped     []input.Skipped     // Input lines to report as notes
	GroupBy     bool                // Group rows by status instead of one date order
}

// Timeline is an assembled, render-ready report
type Timeline struct {
	Rows    []format.Row
	Notes   []format.Note
	Dates   []historic.Date  // Dates of the parsed and restated rows, ascending
	Summary historic.Summary // Tally of the outcomes that were not superseded
}

// Build assembles a timeline from parse results
// Corrected rows come first in correction order, followed by the remaining
// rows sorted by date with undated rows last. Corrections stand for dates
// before year 0, so a From bound drops them.
func Build(results []Result, opts Options) Timeline {
	labels := make([]string, 0, len(results))
	for _, r := range results {
		if r.Entry.Label != "" {
			labels = append(labels, r.Entry.Label)
		}
	}
	applied, superseded := derive.ApplyCorrections(labels, opts.Corrections)
	dropped := make(map[string]bool, len(superseded))
	for label := range superseded {
		dropped[labelKey(label)] = true
	}

	var timeline Timeline
	var corrected []format.Row
	for _, c := range applied {
		if opts.From != nil {
			continue
		}
		corrected = append(corrected, format.NewRow(derive.Corrected, c.Label, c.Text, nil, c.String()))
		timeline.Notes = append(timeline.Notes, format.Note{
			Kind:  format.NoteCorrection,
			Label: c.Label,
			Input: c.Text,
		})
	}

	var rows []format.Row
	var outcomes []historic.Outcome
	for _, r := range results {
		if r.Entry.Label != "" && dropped[labelKey(r.Entry.Label)] {
			continue
		}
		outcomes = append(outcomes, r.Outcome)

		row, note, hasNote := resultRow(r)
		rows = append(rows, row)
		if hasNote {
			timeline.Notes = append(timeline.Notes, note)
		}
	}

	rows = SelectWindow(rows, opts.From, opts.To)
	format.SortRowsByDate(rows)

	timeline.Rows = format.FilterRowsByStatus(append(corrected, rows...), opts.Only)
	if opts.GroupBy {
		format.SortRowsByStatus(timeline.Rows)
	}
	timeline.Notes = append(timeline.Notes, SkippedNotes(opts.Skipped)...)
	timeline.Summary = historic.Tally(outcomes)
	for _, row := range timeline.Rows {
		if row.Date != nil {
			timeline.Dates = append(timeline.Dates, *row.Date)
		}
	}

	return timeline
}

func labelKey(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}

// resultRow converts one result into a table row and, for failures and
// restatements, a note
func resultRow(r Result) (format.Row, format.Note, bool) {
	restated := r.Restated != "" && r.Outcome.OK()
	status := derive.StatusFor(r.Outcome, restated)

	if !r.Outcome.OK() {
		reason := r.Outcome.Reason().String()
		row := format.NewRow(status, r.Entry.Label, r.Entry.Expression, nil, reason)
		return row, format.Note{
			Kind:   format.NoteUnparseable,
			Label:  r.Entry.Label,
			Input:  r.Entry.Expression,
			Reason: reason,
			Source: r.Entry.Source,
			Line:   r.Entry.Line,
		}, true
	}

	date := r.Outcome.Date
	if restated {
		row := format.NewRow(status, r.Entry.Label, r.Entry.Expression, &date, "restated as "+r.Restated)
		return row, format.Note{
			Kind:     format.NoteRestated,
			Label:    r.Entry.Label,
			Input:    r.Entry.Expression,
			Restated: r.Restated,
			Source:   r.Entry.Source,
			Line:     r.Entry.Line,
		}, true
	}

	return format.NewRow(status, r.Entry.Label, r.Entry.Expression, &date, r.Outcome.Shape.String()), format.Note{}, false
}

// SkippedNotes converts skipped input lines into notes
func SkippedNotes(skipped []input.Skipped) []format.Note {
	var notes []format.Note
	for _, s := range skipped {
		notes = append(notes, format.Note{
			Kind:   format.NoteSkippedLine,
			Input:  s.Text,
			Reason: s.Reason,
			Source: s.Source,
			Line:   s.Line,
		})
	}
	return notes
}
