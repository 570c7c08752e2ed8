package report

import (
	"testing"
	"time"

	"github.com/Attamusc/history-dates-cli/internal/derive"
	"github.com/Attamusc/history-dates-cli/internal/format"
	"github.com/Attamusc/history-dates-cli/internal/historic"
	"github.com/Attamusc/history-dates-cli/internal/input"
)

func result(label, expr string) Result {
	return Result{
		Entry:   input.Entry{Label: label, Expression: expr, Source: "dates.txt"},
		Outcome: historic.Parse(expr),
	}
}

func labels(rows []format.Row) []string {
	var out []string
	for _, r := range rows {
		out = append(out, r.Label)
	}
	return out
}

func TestBuild_SortsAndCorrects(t *testing.T) {
	results := []Result{
		result("Mexico", "September 16, 1810"),
		result("Japan", "February 11, 1890"),
		result("Brasil", "September 7, 1822"),
		result("Atlantis", "long ago"),
		result("USA", "July 4, 1776"),
	}

	tl := Build(results, Options{Corrections: derive.DefaultCorrections})

	want := []string{"Japan", "USA", "Mexico", "Brasil", "Atlantis"}
	got := labels(tl.Rows)
	if len(got) != len(want) {
		t.Fatalf("expected rows %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("row %d: expected %q, got %q", i, want[i], got[i])
		}
	}

	japan := tl.Rows[0]
	if japan.StatusCaption != derive.Corrected.Caption || japan.Input != "660 BCE" || japan.Date != nil {
		t.Errorf("unexpected correction row: %+v", japan)
	}
	if tl.Rows[4].StatusCaption != derive.Unparseable.Caption || tl.Rows[4].Note != "unsupported_shape" {
		t.Errorf("unexpected unparseable row: %+v", tl.Rows[4])
	}

	// Superseded entries do not count
	if tl.Summary.Total != 4 || tl.Summary.Parsed != 3 || tl.Summary.Unparseable != 1 {
		t.Errorf("unexpected summary: %+v", tl.Summary)
	}
	if len(tl.Dates) != 3 || tl.Dates[0].Year != 1776 || tl.Dates[2].Year != 1822 {
		t.Errorf("unexpected dates: %v", tl.Dates)
	}

	if format.CountNotesByKind(tl.Notes, format.NoteCorrection) != 1 {
		t.Errorf("expected one correction note, got %+v", tl.Notes)
	}
	if format.CountNotesByKind(tl.Notes, format.NoteUnparseable) != 1 {
		t.Errorf("expected one unparseable note, got %+v", tl.Notes)
	}
}

func TestBuild_CorrectionMatchesIgnoringCase(t *testing.T) {
	results := []Result{
		result("china ", "October 1, 1949"),
		result("CHINA", "1949"),
	}

	tl := Build(results, Options{Corrections: derive.DefaultCorrections})

	if len(tl.Rows) != 1 {
		t.Fatalf("expected only the correction row, got %v", labels(tl.Rows))
	}
	if tl.Rows[0].Input != "221 BCE" {
		t.Errorf("expected China correction, got %+v", tl.Rows[0])
	}
	if len(tl.Dates) != 0 {
		t.Errorf("expected no dates, got %v", tl.Dates)
	}
}

func TestBuild_Restated(t *testing.T) {
	restated := Result{
		Entry:    input.Entry{Label: "Greece", Expression: "25th of March 1821", Line: 2},
		Outcome:  historic.Parse("March 25, 1821"),
		Restated: "March 25, 1821",
	}
	failedRestate := Result{
		Entry:    input.Entry{Label: "Nowhere", Expression: "someday"},
		Outcome:  historic.Parse("someday"),
		Restated: "someday",
	}

	tl := Build([]Result{failedRestate, restated}, Options{})

	if len(tl.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(tl.Rows))
	}
	row := tl.Rows[0]
	if row.StatusCaption != derive.Restated.Caption {
		t.Errorf("expected restated status, got %q", row.StatusCaption)
	}
	if row.Input != "25th of March 1821" || row.Note != "restated as March 25, 1821" {
		t.Errorf("unexpected restated row: %+v", row)
	}
	if tl.Rows[1].StatusCaption != derive.Unparseable.Caption {
		t.Errorf("expected failed restatement to stay unparseable, got %q", tl.Rows[1].StatusCaption)
	}

	notes := format.FilterNotesByKind(tl.Notes, format.NoteRestated)
	if len(notes) != 1 || notes[0].Restated != "March 25, 1821" || notes[0].Line != 2 {
		t.Errorf("unexpected restated notes: %+v", notes)
	}
}

func TestBuild_WindowAndOnly(t *testing.T) {
	results := []Result{
		result("A", "1700"),
		result("B", "1800"),
		result("C", "1900"),
		result("D", "nope"),
	}
	from := &historic.Date{Year: 1750, Month: time.January, Day: 1}
	to := &historic.Date{Year: 1900, Month: time.January, Day: 1}

	tl := Build(results, Options{From: from, To: to})
	got := labels(tl.Rows)
	want := []string{"B", "C", "D"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("row %d: expected %q, got %q", i, want[i], got[i])
		}
	}

	tl = Build(results, Options{From: from, Only: []derive.Status{derive.Parsed}})
	if got := labels(tl.Rows); len(got) != 2 || got[0] != "B" || got[1] != "C" {
		t.Errorf("expected parsed rows B and C, got %v", got)
	}
}

func TestBuild_SkippedNotes(t *testing.T) {
	skipped := []input.Skipped{{Source: "dates.txt", Line: 4, Text: "a:b:c", Reason: "too many separators"}}

	tl := Build(nil, Options{Skipped: skipped})

	if len(tl.Rows) != 0 {
		t.Errorf("expected no rows, got %d", len(tl.Rows))
	}
	if len(tl.Notes) != 1 || tl.Notes[0].Kind != format.NoteSkippedLine || tl.Notes[0].Line != 4 {
		t.Errorf("unexpected notes: %+v", tl.Notes)
	}
}

func TestInWindow(t *testing.T) {
	d := historic.Date{Year: 1822, Month: time.September, Day: 7}
	same := d
	before := historic.Date{Year: 1822, Month: time.September, Day: 6}
	after := historic.Date{Year: 1822, Month: time.September, Day: 8}

	tests := []struct {
		name     string
		from, to *historic.Date
		want     bool
	}{
		{"open window", nil, nil, true},
		{"inclusive bounds", &same, &same, true},
		{"after upper bound", nil, &before, false},
		{"before lower bound", &after, nil, false},
		{"inside", &before, &after, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InWindow(d, tt.from, tt.to); got != tt.want {
				t.Errorf("InWindow() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuild_FromDropsCorrections(t *testing.T) {
	results := []Result{
		result("Japan", "February 11, 1890"),
		result("Brasil", "September 7, 1822"),
	}
	from := &historic.Date{Year: 1801, Month: time.January, Day: 1}

	tl := Build(results, Options{Corrections: derive.DefaultCorrections, From: from})

	got := labels(tl.Rows)
	if len(got) != 1 || got[0] != "Brasil" {
		t.Errorf("expected only Brasil, got %v", got)
	}
	if format.HasNotesOfKind(tl.Notes, format.NoteCorrection) {
		t.Errorf("expected no correction notes, got %+v", tl.Notes)
	}
}

func TestBuild_GroupByStatus(t *testing.T) {
	restated := Result{
		Entry:    input.Entry{Label: "Greece", Expression: "25th of March 1821"},
		Outcome:  historic.Parse("March 25, 1821"),
		Restated: "March 25, 1821",
	}
	results := []Result{
		result("Atlantis", "long ago"),
		restated,
		result("Brasil", "September 7, 1822"),
		result("USA", "July 4, 1776"),
		result("Japan", "1890"),
	}

	tl := Build(results, Options{Corrections: derive.DefaultCorrections, GroupBy: true})

	want := []string{"Japan", "USA", "Brasil", "Greece", "Atlantis"}
	got := labels(tl.Rows)
	if len(got) != len(want) {
		t.Fatalf("expected rows %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("row %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}
