package tools

import (
	"context"
	"fmt"
	"os"
	"os/exec"
)

// Stretcher invokes the pitch shifting binary.
type Stretcher struct {
	// Path is the stretcher executable path.
	Path string
}

// NewStretcher creates a Stretcher for the given executable path.
func NewStretcher(path string) *Stretcher {
	return &Stretcher{Path: path}
}

// Available reports whether the stretcher executable exists as a file.
func (s *Stretcher) Available() bool {
	info, err := os.Stat(s.Path)
	if err != nil {
		return lookPath(s.Path)
	}
	return !info.IsDir()
}

// Shift runs the stretcher on input, writing the pitch-shifted result
// to outputPath. Returns the combined tool output for diagnostics.
//
// The caller must still verify the output file exists and is
// non-empty; a zero exit with no output counts as failure.
func (s *Stretcher) Shift(ctx context.Context, input, outputPath string, semitones int) (string, error) {
	return run(ctx, s.Path, input, outputPath, "-pitch="+FormatPitch(semitones))
}

// FormatPitch renders a semitone offset in the stretcher's parameter
// grammar: positive values carry an explicit "+", negative values keep
// their minus sign, zero is "+0".
func FormatPitch(semitones int) string {
	if semitones >= 0 {
		return fmt.Sprintf("+%d", semitones)
	}
	return fmt.Sprintf("%d", semitones)
}

func lookPath(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
