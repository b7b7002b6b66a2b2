package tools

import (
	"context"
	"os"
	"regexp"
	"strings"

	"github.com/handiism/keyshift/internal/music"
)

// Detector invokes the key detection binary on a WAV file.
//
// The binary's output is free text; ParseKey extracts a key name from
// it with an ordered chain of pattern attempts.
type Detector struct {
	// Path is the detector executable path.
	Path string
}

// NewDetector creates a Detector for the given executable path.
func NewDetector(path string) *Detector {
	return &Detector{Path: path}
}

// Available reports whether the detector executable exists as a file.
func (d *Detector) Available() bool {
	info, err := os.Stat(d.Path)
	if err != nil {
		// A bare name may still resolve via PATH.
		return lookPath(d.Path)
	}
	return !info.IsDir()
}

// Detect runs the detector on wavPath and returns its combined output.
// A non-zero exit is not an error here: some detectors report partial
// results on stderr and exit non-zero, and the caller decides key
// presence by parsing, not by exit status.
func (d *Detector) Detect(ctx context.Context, wavPath string) string {
	out, _ := run(ctx, d.Path, wavPath)
	return out
}

// keyToken matches a key-name-shaped token: letter, optional
// accidental, optional minor suffix.
const keyToken = `[A-G][#b]?m?`

var (
	exactKeyPattern   = regexp.MustCompile(`^` + keyToken + `$`)
	labeledKeyPattern = regexp.MustCompile(`Key:\s*(` + keyToken + `)`)
	modeKeyPattern    = regexp.MustCompile(`(` + keyToken + `)\s+(major|minor|maj|min)\b`)
	samplesKeyPattern = regexp.MustCompile(`Samples loaded:\s*\d+\s+(` + keyToken + `)`)
	looseKeyPattern   = regexp.MustCompile(`(?:^|\s)(` + keyToken + `)(?:\s|$)`)
)

// ParseKey extracts a musical key name from detector output.
//
// Patterns are tried in order, most specific first:
//  1. the entire trimmed output is exactly a key name
//  2. a "Key: <name>" label
//  3. a key name immediately followed by a mode word (major/minor/maj/min)
//  4. a "Samples loaded: <count> <name>" line
//  5. any standalone key-shaped token
//
// The first pattern yielding a recognized key wins. ok is false when
// nothing matches; callers treat that as "detection failed", which is
// recoverable, not fatal.
func ParseKey(output string) (key string, ok bool) {
	trimmed := strings.TrimSpace(output)

	if exactKeyPattern.MatchString(trimmed) && music.IsValid(trimmed) {
		return trimmed, true
	}

	if key, ok := firstValidMatch(labeledKeyPattern, output); ok {
		return key, true
	}

	for _, m := range modeKeyPattern.FindAllStringSubmatch(output, -1) {
		name, mode := m[1], m[2]
		if !music.IsValid(name) {
			continue
		}
		if (mode == "minor" || mode == "min") && !strings.HasSuffix(name, "m") {
			name += "m"
		}
		return name, true
	}

	if key, ok := firstValidMatch(samplesKeyPattern, output); ok {
		return key, true
	}

	if key, ok := firstValidMatch(looseKeyPattern, output); ok {
		return key, true
	}

	return "", false
}

func firstValidMatch(pattern *regexp.Regexp, output string) (string, bool) {
	for _, m := range pattern.FindAllStringSubmatch(output, -1) {
		if music.IsValid(m[1]) {
			return m[1], true
		}
	}
	return "", false
}
