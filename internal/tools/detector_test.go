package tools

import "testing"

func TestParseKey(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   string
		ok     bool
	}{
		{"exact key only", "Bb", "Bb", true},
		{"exact key with whitespace", "  F#m\n", "F#m", true},
		{"labeled key", "Analyzing...\nKey: Eb\nDone.", "Eb", true},
		{"labeled minor key", "Key: Am", "Am", true},
		{"mode word major", "Detected E major with high confidence", "E", true},
		{"mode word minor adds suffix", "Detected D minor with high confidence", "Dm", true},
		{"mode word min abbreviation", "result: G min", "Gm", true},
		{"samples loaded line", "Samples loaded: 4410000 Db", "Db", true},
		{"standalone token fallback", "some noise then A# and more text", "A#", true},
		{"labeled wins over loose", "G something\nKey: C", "C", true},
		{"no key at all", "could not analyze file", "", false},
		{"empty output", "", "", false},
		{"lowercase letter rejected", "detected c major", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseKey(tt.output)
			if ok != tt.ok {
				t.Fatalf("ParseKey(%q) ok = %v, want %v", tt.output, ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("ParseKey(%q) = %q, want %q", tt.output, got, tt.want)
			}
		})
	}
}

func TestFormatPitch(t *testing.T) {
	tests := []struct {
		semitones int
		want      string
	}{
		{3, "+3"},
		{-2, "-2"},
		{0, "+0"},
		{6, "+6"},
		{-6, "-6"},
	}

	for _, tt := range tests {
		if got := FormatPitch(tt.semitones); got != tt.want {
			t.Errorf("FormatPitch(%d) = %q, want %q", tt.semitones, got, tt.want)
		}
	}
}
