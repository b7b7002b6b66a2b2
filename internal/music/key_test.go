package music

import (
	"errors"
	"testing"
)

var allKeys = []string{
	"C", "C#", "Db", "D", "D#", "Eb", "E", "F",
	"F#", "Gb", "G", "G#", "Ab", "A", "A#", "Bb", "B",
}

func TestSemitoneDistance(t *testing.T) {
	tests := []struct {
		source string
		target string
		want   int
	}{
		{"Bb", "C", 2},
		{"C", "Bb", -2},
		{"F#", "C", -6},
		{"C", "F#", 6},
		{"C", "C", 0},
		{"C", "B", -1},
		{"B", "C", 1},
		{"A", "C", 3},
		{"C", "A", -3},
		{"G", "D", -5},
		{"D", "G", 5},
		{"C#", "A", -4},
		{"Db", "A", -4},
		{"Am", "C", 3},  // minor suffix ignored
		{"Ebm", "F", 2}, // flat plus minor suffix
		{"Gb", "C", -6}, // tritone keeps the raw difference's sign
	}

	for _, tt := range tests {
		t.Run(tt.source+"_to_"+tt.target, func(t *testing.T) {
			got, err := SemitoneDistance(tt.source, tt.target)
			if err != nil {
				t.Fatalf("SemitoneDistance(%q, %q) error: %v", tt.source, tt.target, err)
			}
			if got != tt.want {
				t.Errorf("SemitoneDistance(%q, %q) = %d, want %d", tt.source, tt.target, got, tt.want)
			}
		})
	}
}

func TestSemitoneDistance_Range(t *testing.T) {
	for _, a := range allKeys {
		for _, b := range allKeys {
			got, err := SemitoneDistance(a, b)
			if err != nil {
				t.Fatalf("SemitoneDistance(%q, %q) error: %v", a, b, err)
			}
			if got < -6 || got > 6 {
				t.Errorf("SemitoneDistance(%q, %q) = %d, out of [-6, 6]", a, b, got)
			}
		}
	}
}

func TestSemitoneDistance_Identity(t *testing.T) {
	for _, k := range allKeys {
		got, err := SemitoneDistance(k, k)
		if err != nil {
			t.Fatalf("SemitoneDistance(%q, %q) error: %v", k, k, err)
		}
		if got != 0 {
			t.Errorf("SemitoneDistance(%q, %q) = %d, want 0", k, k, got)
		}
	}
}

// The strict wrap conditions never renormalize a raw difference of
// exactly +-6, so the forward and reverse distances cancel out for
// every pair, tritones included.
func TestSemitoneDistance_AntiSymmetry(t *testing.T) {
	for _, a := range allKeys {
		for _, b := range allKeys {
			forward, _ := SemitoneDistance(a, b)
			back, _ := SemitoneDistance(b, a)
			if forward+back != 0 {
				t.Errorf("SemitoneDistance(%q, %q) = %d, reverse = %d, want them to cancel",
					a, b, forward, back)
			}
		}
	}
}

func TestSemitoneDistance_EnharmonicEquivalence(t *testing.T) {
	pairs := [][2]string{
		{"C#", "Db"}, {"D#", "Eb"}, {"F#", "Gb"}, {"G#", "Ab"}, {"A#", "Bb"},
	}

	for _, pair := range pairs {
		for _, k := range allKeys {
			asTarget1, _ := SemitoneDistance(k, pair[0])
			asTarget2, _ := SemitoneDistance(k, pair[1])
			if asTarget1 != asTarget2 {
				t.Errorf("SemitoneDistance(%q, %q) = %d, SemitoneDistance(%q, %q) = %d",
					k, pair[0], asTarget1, k, pair[1], asTarget2)
			}

			asSource1, _ := SemitoneDistance(pair[0], k)
			asSource2, _ := SemitoneDistance(pair[1], k)
			if asSource1 != asSource2 {
				t.Errorf("SemitoneDistance(%q, %q) = %d, SemitoneDistance(%q, %q) = %d",
					pair[0], k, asSource1, pair[1], k, asSource2)
			}
		}
	}
}

func TestSemitoneDistance_InvalidKey(t *testing.T) {
	for _, name := range []string{"H", "c", "Cb", "B#", "", "X#", "Cmm"} {
		_, err := SemitoneDistance(name, "C")
		if !errors.Is(err, ErrInvalidKey) {
			t.Errorf("SemitoneDistance(%q, \"C\") error = %v, want ErrInvalidKey", name, err)
		}
		_, err = SemitoneDistance("C", name)
		if !errors.Is(err, ErrInvalidKey) {
			t.Errorf("SemitoneDistance(\"C\", %q) error = %v, want ErrInvalidKey", name, err)
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"C", "C"},
		{"Am", "A"},
		{"Bb", "Bb"},
		{"Bbm", "Bb"},
		{"F#m", "F#"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Normalize(tt.input)
			if err != nil {
				t.Fatalf("Normalize(%q) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTranspose(t *testing.T) {
	tests := []struct {
		key       string
		semitones int
		want      string
	}{
		{"C", 2, "D"},
		{"C", -1, "B"},
		{"Bb", 2, "C"},
		{"B", 1, "C"},
		{"Gb", 6, "C"},
		{"Am", 3, "Cm"},
		{"C", 0, "C"},
		{"C", -12, "C"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, err := Transpose(tt.key, tt.semitones)
			if err != nil {
				t.Fatalf("Transpose(%q, %d) error: %v", tt.key, tt.semitones, err)
			}
			if got != tt.want {
				t.Errorf("Transpose(%q, %d) = %q, want %q", tt.key, tt.semitones, got, tt.want)
			}
		})
	}
}

// Transposing by the measured distance must land on the target's
// chromatic position.
func TestTranspose_AgreesWithDistance(t *testing.T) {
	for _, a := range allKeys {
		for _, b := range allKeys {
			dist, _ := SemitoneDistance(a, b)
			moved, err := Transpose(a, dist)
			if err != nil {
				t.Fatalf("Transpose(%q, %d) error: %v", a, dist, err)
			}

			wantPos, _ := Position(b)
			gotPos, _ := Position(moved)
			if gotPos != wantPos {
				t.Errorf("Transpose(%q, %d) = %q (position %d), want position %d (%q)",
					a, dist, moved, gotPos, wantPos, b)
			}
		}
	}
}
