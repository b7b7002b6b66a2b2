package music

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidKey is returned when a key name is not one of the
// recognized spellings.
var ErrInvalidKey = errors.New("invalid key name")

// positions maps the 17 recognized key spellings to chromatic
// positions 0-11. Enharmonic spellings share a position.
var positions = map[string]int{
	"C":  0,
	"C#": 1, "Db": 1,
	"D":  2,
	"D#": 3, "Eb": 3,
	"E":  4,
	"F":  5,
	"F#": 6, "Gb": 6,
	"G":  7,
	"G#": 8, "Ab": 8,
	"A":  9,
	"A#": 10, "Bb": 10,
	"B": 11,
}

// sharpNames gives the canonical (sharp) spelling for each chromatic
// position, used when converting a position back to a name.
var sharpNames = [12]string{
	"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B",
}

// Normalize strips an optional minor suffix ("m") from a key label and
// returns the bare key spelling. The letter is case-sensitive: "Am" is
// A minor, but "am" is not a key.
func Normalize(name string) (string, error) {
	if _, ok := positions[name]; ok {
		return name, nil
	}
	if trimmed, found := strings.CutSuffix(name, "m"); found {
		if _, ok := positions[trimmed]; ok {
			return trimmed, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidKey, name)
}

// IsValid reports whether name is a recognized key label, with or
// without a minor suffix.
func IsValid(name string) bool {
	_, err := Normalize(name)
	return err == nil
}

// Position returns the chromatic position (0=C .. 11=B) of a key label.
func Position(name string) (int, error) {
	key, err := Normalize(name)
	if err != nil {
		return 0, err
	}
	return positions[key], nil
}

// SemitoneDistance returns the shortest signed chromatic distance from
// source to target, in semitones, always within [-6, 6].
//
// The raw difference target-source is wrapped into range by a single
// +-12 adjustment. The wrap conditions are strict, so a raw difference
// of exactly +-6 is kept as is: the tritone keeps the sign of the raw
// difference, and SemitoneDistance(a, b) == -SemitoneDistance(b, a)
// for every pair of keys.
func SemitoneDistance(source, target string) (int, error) {
	from, err := Position(source)
	if err != nil {
		return 0, err
	}
	to, err := Position(target)
	if err != nil {
		return 0, err
	}

	raw := to - from
	if raw > 6 {
		raw -= 12
	}
	if raw < -6 {
		raw += 12
	}
	return raw, nil
}

// Transpose returns the key name semitones above (or below, when
// negative) the given key. The result uses sharp spellings and keeps a
// minor suffix if the input carried one.
func Transpose(name string, semitones int) (string, error) {
	pos, err := Position(name)
	if err != nil {
		return "", err
	}

	pos = (pos + semitones) % 12
	if pos < 0 {
		pos += 12
	}

	result := sharpNames[pos]
	if strings.HasSuffix(name, "m") && IsValid(name) {
		result += "m"
	}
	return result, nil
}
