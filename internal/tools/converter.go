package tools

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Converter invokes the format converter (ffmpeg) for decoding,
// re-encoding with metadata passthrough, and metadata extraction.
//
// The command may be a bare name resolved via PATH or an absolute
// path. Use Probe to verify it is invocable before starting work.
type Converter struct {
	// Command is the converter executable name or path.
	Command string
}

// NewConverter creates a Converter for the given command.
func NewConverter(command string) *Converter {
	return &Converter{Command: command}
}

// Probe checks that the converter is invocable by running a version
// query. Returns the captured output on failure so the caller can show
// what went wrong.
func (c *Converter) Probe(ctx context.Context) error {
	out, err := run(ctx, c.Command, "-version")
	if err != nil {
		return fmt.Errorf("converter %q not invocable: %v: %s", c.Command, err, firstLine(out))
	}
	return nil
}

// Decode transcodes input into an uncompressed stereo 44100 Hz WAV at
// outputPath. Returns the combined tool output for diagnostics.
func (c *Converter) Decode(ctx context.Context, input, outputPath string) (string, error) {
	return run(ctx, c.Command,
		"-i", input,
		"-acodec", "pcm_s16le",
		"-ar", "44100",
		"-ac", "2",
		outputPath,
		"-y")
}

// Encode transcodes the shifted intermediate back into the original
// format at outputPath, mapping the audio stream from shifted and all
// metadata from original, with the title tag overridden.
func (c *Converter) Encode(ctx context.Context, shifted, original, outputPath, title string) (string, error) {
	return run(ctx, c.Command,
		"-i", shifted,
		"-i", original,
		"-map", "0:a",
		"-map_metadata", "1",
		"-metadata", "title="+title,
		outputPath,
		"-y")
}

// ReadTitle extracts the title tag from input's metadata block using
// the converter's ffmetadata output. Returns ok=false when the file
// carries no title tag.
func (c *Converter) ReadTitle(ctx context.Context, input string) (title string, ok bool, err error) {
	out, err := run(ctx, c.Command, "-i", input, "-f", "ffmetadata", "-")
	if err != nil {
		return "", false, fmt.Errorf("reading metadata from %s: %v: %s", input, err, firstLine(out))
	}
	title, ok = parseFFMetadataTitle(out)
	return title, ok, nil
}

// parseFFMetadataTitle finds the title= line in an ffmetadata block.
//
// The block looks like:
//
//	;FFMETADATA1
//	title=Some Song
//	artist=Someone
func parseFFMetadataTitle(output string) (string, bool) {
	for _, line := range strings.Split(output, "\n") {
		if value, found := strings.CutPrefix(line, "title="); found {
			return strings.TrimRight(value, "\r"), true
		}
	}
	return "", false
}

// run executes a tool and returns its combined stdout/stderr.
func run(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

// firstLine trims tool output down to its first non-empty line for
// error messages.
func firstLine(output string) string {
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			return line
		}
	}
	return ""
}
