package input

import (
	"strings"
	"testing"
)

func TestParseEntries_Labelled(t *testing.T) {
	input := `Brasil: September 7, 1822
EUA: July 4, 1776
Haiti:1804
`
	entries, skipped, err := ParseEntries(strings.NewReader(input), Format{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(skipped) != 0 {
		t.Errorf("expected no skipped lines, got %v", skipped)
	}

	expected := []Entry{
		{Label: "Brasil", Expression: "September 7, 1822", Line: 1},
		{Label: "EUA", Expression: "July 4, 1776", Line: 2},
		{Label: "Haiti", Expression: "1804", Line: 3},
	}
	if len(entries) != len(expected) {
		t.Fatalf("expected %d entries, got %d", len(expected), len(entries))
	}
	for i, exp := range expected {
		if entries[i] != exp {
			t.Errorf("entry %d: expected %+v, got %+v", i, exp, entries[i])
		}
	}
}

func TestParseEntries_ExpressionFirst(t *testing.T) {
	input := "5th century: Ethiopia\n1903 CE: Panama\n"
	entries, _, err := ParseEntries(strings.NewReader(input), Format{ExpressionFirst: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Label != "Ethiopia" || entries[0].Expression != "5th century" {
		t.Errorf("unexpected first entry: %+v", entries[0])
	}
}

func TestParseEntries_Deduplication(t *testing.T) {
	input := `Guatemala: September 15, 1838
Honduras: September 15, 1838
Guatemala: September 15, 1838
`
	entries, _, err := ParseEntries(strings.NewReader(input), Format{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 unique entries, got %d", len(entries))
	}
	if entries[1].Label != "Honduras" {
		t.Errorf("expected stable order, got %+v", entries)
	}
}

func TestParseEntries_EmptyLinesAndComments(t *testing.T) {
	input := `
# independence days
Peru: July 28, 1824

   # indented comment
Chile: February 12, 1818
`
	entries, _, err := ParseEntries(strings.NewReader(input), Format{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Line != 3 || entries[1].Line != 6 {
		t.Errorf("expected line numbers 3 and 6, got %d and %d", entries[0].Line, entries[1].Line)
	}
}

func TestParseEntries_SkipsAmbiguousLines(t *testing.T) {
	input := "Cuba: May 20, 1898\nNote: see: appendix\nGuiana:\n"
	entries, skipped, err := ParseEntries(strings.NewReader(input), Format{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected 1 entry, got %d", len(entries))
	}
	if len(skipped) != 2 {
		t.Fatalf("expected 2 skipped lines, got %d", len(skipped))
	}
	if skipped[0].Line != 2 || skipped[0].Text != "Note: see: appendix" {
		t.Errorf("unexpected skipped line: %+v", skipped[0])
	}
}

func TestParseEntries_CustomSeparator(t *testing.T) {
	entries, _, err := ParseEntries(strings.NewReader("Jamaica | August 6, 1962\n"), Format{Sep: "|"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 || entries[0].Label != "Jamaica" || entries[0].Expression != "August 6, 1962" {
		t.Errorf("unexpected entries: %+v", entries)
	}
}

func TestParseEntries_EmptyInput(t *testing.T) {
	entries, skipped, err := ParseEntries(strings.NewReader(""), Format{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 0 || len(skipped) != 0 {
		t.Errorf("expected nothing, got %v and %v", entries, skipped)
	}
}

func TestSplitEntry(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Entry
		ok    bool
	}{
		{name: "labelled", input: "Belize: September 21, 1981", want: Entry{Label: "Belize", Expression: "September 21, 1981"}, ok: true},
		{name: "unlabelled", input: "  1821 ", want: Entry{Expression: "1821"}, ok: true},
		{name: "empty", input: "   ", ok: false},
		{name: "missing expression", input: "Belize:", ok: false},
		{name: "two separators", input: "a: b: c", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SplitEntry(tt.input, Format{})
			if ok != tt.ok {
				t.Fatalf("SplitEntry(%q) ok = %v, expected %v", tt.input, ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("SplitEntry(%q) = %+v, expected %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseLines(t *testing.T) {
	input := "January 17, 1899\n\n# comment\nJanuary 17, 1899\nMarch 4, 1899\n"
	entries, err := ParseLines(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected duplicates to be kept, got %d entries", len(entries))
	}
	if entries[2].Expression != "March 4, 1899" || entries[2].Line != 5 {
		t.Errorf("unexpected last entry: %+v", entries[2])
	}
}

func TestEntry_String(t *testing.T) {
	if got := (Entry{Label: "Cuba", Expression: "1898"}).String(); got != "Cuba: 1898" {
		t.Errorf("expected labelled form, got %q", got)
	}
	if got := (Entry{Expression: "1898"}).String(); got != "1898" {
		t.Errorf("expected bare form, got %q", got)
	}
}
