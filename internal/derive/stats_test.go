package derive

import (
	"testing"
	"time"

	"github.com/Attamusc/history-dates-cli/internal/historic"
)

func dates(ds ...*historic.Date) []historic.Date {
	out := make([]historic.Date, len(ds))
	for i, d := range ds {
		out[i] = *d
	}
	return out
}

func TestGaps(t *testing.T) {
	input := dates(
		date(2000, time.March, 1),
		date(2000, time.January, 1),
		date(2000, time.January, 11),
	)

	gaps := Gaps(input)
	if len(gaps) != 2 {
		t.Fatalf("expected 2 gaps, got %d", len(gaps))
	}
	if gaps[0].Days != 10 || gaps[0].From != *date(2000, time.January, 1) {
		t.Errorf("unexpected first gap: %+v", gaps[0])
	}
	if gaps[1].Days != 50 || gaps[1].To != *date(2000, time.March, 1) {
		t.Errorf("unexpected second gap: %+v", gaps[1])
	}

	// Input must not be reordered
	if input[0] != *date(2000, time.March, 1) {
		t.Error("Gaps modified its input")
	}

	stats, ok := Stats(gaps)
	if !ok {
		t.Fatal("expected stats")
	}
	if stats.Count != 2 || stats.Shortest.Days != 10 || stats.Longest.Days != 50 || stats.MeanDays != 30 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestGapsEdgeCases(t *testing.T) {
	if gaps := Gaps(nil); gaps != nil {
		t.Errorf("expected no gaps for nil input, got %v", gaps)
	}
	if gaps := Gaps(dates(date(1821, time.January, 1))); gaps != nil {
		t.Errorf("expected no gaps for one date, got %v", gaps)
	}
	if _, ok := Stats(nil); ok {
		t.Error("expected no stats without gaps")
	}

	repeated := dates(
		date(1838, time.September, 15),
		date(1838, time.September, 15),
		date(1838, time.September, 16),
	)
	stats, _ := Stats(Gaps(repeated))
	if stats.Shortest.Days != 0 || stats.Longest.Days != 1 || stats.MeanDays != 0 {
		t.Errorf("unexpected stats for repeated dates: %+v", stats)
	}
}

func TestCountWeekdays(t *testing.T) {
	input := dates(
		date(1776, time.July, 4),      // Thursday
		date(1822, time.September, 7), // Saturday
		date(2000, time.January, 1),   // Saturday
	)

	en := CountWeekdays(input, LocaleEN)
	expected := []Count{{Name: "Thursday", N: 1}, {Name: "Saturday", N: 2}}
	if len(en) != len(expected) {
		t.Fatalf("expected %d buckets, got %v", len(expected), en)
	}
	for i := range expected {
		if en[i] != expected[i] {
			t.Errorf("bucket %d = %+v, expected %+v", i, en[i], expected[i])
		}
	}

	pt := CountWeekdays(input, LocalePTBR)
	if pt[0].Name != "Quinta" || pt[1].Name != "Sábado" {
		t.Errorf("unexpected pt-BR names: %v", pt)
	}

	top, ok := MostCommon(en)
	if !ok || top.Name != "Saturday" {
		t.Errorf("MostCommon = %+v, expected Saturday", top)
	}
}

func TestCountMonthsAndYears(t *testing.T) {
	input := dates(
		date(1966, time.November, 30),
		date(1966, time.May, 26),
		date(1966, time.August, 31),
		date(1838, time.September, 15),
		date(1838, time.September, 15),
	)

	months := CountMonths(input, LocalePTBR)
	names := []string{"Maio", "Agosto", "Setembro", "Novembro"}
	if len(months) != len(names) {
		t.Fatalf("expected %d months, got %v", len(names), months)
	}
	for i, name := range names {
		if months[i].Name != name {
			t.Errorf("month %d = %q, expected %q", i, months[i].Name, name)
		}
	}
	if months[2].N != 2 {
		t.Errorf("expected 2 dates in Setembro, got %d", months[2].N)
	}

	years := CountYears(input)
	if len(years) != 2 || years[0] != (Count{Name: "1838", N: 2}) || years[1] != (Count{Name: "1966", N: 3}) {
		t.Errorf("unexpected year counts: %v", years)
	}

	if _, ok := MostCommon(nil); ok {
		t.Error("expected no most common bucket for empty counts")
	}
}

func TestParseLocale(t *testing.T) {
	tests := []struct {
		input    string
		expected Locale
		wantErr  bool
	}{
		{input: "", expected: LocaleEN},
		{input: "en", expected: LocaleEN},
		{input: "pt-BR", expected: LocalePTBR},
		{input: "pt_br", expected: LocalePTBR},
		{input: "fr", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result, err := ParseLocale(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error for %q", tt.input)
				}
				return
			}
			if err != nil || result != tt.expected {
				t.Errorf("ParseLocale(%q) = %q, %v", tt.input, result, err)
			}
		})
	}

	if MonthName(Locale("xx"), time.March) != "March" {
		t.Error("expected English fallback for unknown locale")
	}
}

func TestApplyCorrections(t *testing.T) {
	labels := []string{"Brazil", "japan ", "Peru", "China"}

	applied, superseded := ApplyCorrections(labels, DefaultCorrections)
	if len(applied) != 2 {
		t.Fatalf("expected 2 corrections, got %v", applied)
	}
	if applied[0].String() != "Japan: 660 BCE" || applied[1].String() != "China: 221 BCE" {
		t.Errorf("unexpected corrections: %v", applied)
	}
	if !superseded["japan "] || !superseded["China"] || superseded["Brazil"] {
		t.Errorf("unexpected superseded set: %v", superseded)
	}

	applied, _ = ApplyCorrections([]string{"Peru"}, DefaultCorrections)
	if len(applied) != 0 {
		t.Errorf("expected no corrections, got %v", applied)
	}
}

func TestParseCorrection(t *testing.T) {
	c, ok := ParseCorrection(" Egypt : 3100 BCE")
	if !ok || c.Label != "Egypt" || c.Text != "3100 BCE" {
		t.Errorf("ParseCorrection = %+v, %v", c, ok)
	}
	for _, bad := range []string{"Egypt", ": 3100 BCE", "Egypt:"} {
		if _, ok := ParseCorrection(bad); ok {
			t.Errorf("expected %q to be rejected", bad)
		}
	}
}
