package derive

import (
	"testing"

	"github.com/Attamusc/history-dates-cli/internal/historic"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		restated bool
		expected Status
	}{
		{name: "parsed", input: "1821", expected: Parsed},
		{name: "restated", input: "March 4, 1899", restated: true, expected: Restated},
		{name: "unparseable", input: "660 BCE", expected: Unparseable},
		{name: "unparseable even when restated", input: "garbage", restated: true, expected: Unparseable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := StatusFor(historic.Parse(tt.input), tt.restated)
			if result != tt.expected {
				t.Errorf("StatusFor(%q, %v) = %v, expected %v", tt.input, tt.restated, result, tt.expected)
			}
		})
	}
}

func TestMapStatus(t *testing.T) {
	tests := []struct {
		input    string
		expected Status
		ok       bool
	}{
		{input: "parsed", expected: Parsed, ok: true},
		{input: "OK", expected: Parsed, ok: true},
		{input: "AI", expected: Restated, ok: true},
		{input: "restated", expected: Restated, ok: true},
		{input: "BCE", expected: Corrected, ok: true},
		{input: "unparseable", expected: Unparseable, ok: true},
		{input: "  Failed ", expected: Unparseable, ok: true},
		{input: "", ok: false},
		{input: "maybe", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result, ok := MapStatus(tt.input)
			if ok != tt.ok {
				t.Fatalf("MapStatus(%q) ok = %v, expected %v", tt.input, ok, tt.ok)
			}
			if ok && result != tt.expected {
				t.Errorf("MapStatus(%q) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestStatusKeyRoundTrip(t *testing.T) {
	for _, s := range []Status{Parsed, Restated, Corrected, Unparseable} {
		parsed, ok := ParseStatusKey(s.Key())
		if !ok {
			t.Errorf("ParseStatusKey(%q) not recognized", s.Key())
			continue
		}
		if parsed != s {
			t.Errorf("ParseStatusKey(%q) = %v, expected %v", s.Key(), parsed, s)
		}
	}

	if _, ok := ParseStatusKey("on_track"); ok {
		t.Error("expected unknown key to be rejected")
	}
}

func TestStatusString(t *testing.T) {
	if got := Unparseable.String(); got != ":x: Unparseable" {
		t.Errorf("Unparseable.String() = %q", got)
	}
}
