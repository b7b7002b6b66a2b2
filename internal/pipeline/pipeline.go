package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/handiism/keyshift/internal/config"
	"github.com/handiism/keyshift/internal/fsutil"
	"github.com/handiism/keyshift/internal/music"
	"github.com/handiism/keyshift/internal/tags"
	"github.com/handiism/keyshift/internal/tools"
)

// Status describes how a conversion job concluded.
type Status string

const (
	// StatusConverted means the full five-stage pipeline ran.
	StatusConverted Status = "converted"

	// StatusAlreadyInKey means source and target keys coincide; the
	// input was copied verbatim.
	StatusAlreadyInKey Status = "already in target key"

	// StatusSkipped means key detection found nothing; the job was
	// abandoned gracefully without producing an output file.
	StatusSkipped Status = "skipped"
)

// UnknownKey is the source key reported when detection fails.
const UnknownKey = "Unknown"

// Job describes one conversion of one input file.
type Job struct {
	// InputPath is the audio file to transpose.
	InputPath string

	// OutputDir is the folder the result is written to. Created if
	// absent.
	OutputDir string

	// TargetKey is the key to transpose into. Required; one of the 17
	// recognized spellings.
	TargetKey string

	// SourceKey, when non-empty, is used verbatim and detection is
	// skipped. Accepts a minor-suffixed label.
	SourceKey string

	// Overwrite allows replacing an existing output file.
	Overwrite bool
}

// Result is the structured outcome of one conversion job.
type Result struct {
	InputPath  string
	OutputPath string // empty when the job was skipped
	SourceKey  string // resolved key, or UnknownKey
	TargetKey  string
	Semitones  int
	Status     Status
}

// supported maps the recognized input extensions.
var supported = map[string]bool{
	".mp3": true,
	".wav": true,
}

// Pipeline runs conversion jobs against a fixed set of settings.
// Jobs share no mutable state, so a single Pipeline may run
// independent jobs from multiple goroutines.
type Pipeline struct {
	settings   *config.Settings
	converter  *tools.Converter
	detector   *tools.Detector
	stretcher  *tools.Stretcher
	tagger     *tags.Tagger
	onProgress func(ProgressEvent)
}

// New creates a Pipeline. onProgress may be nil.
func New(settings *config.Settings, onProgress func(ProgressEvent)) *Pipeline {
	return &Pipeline{
		settings:   settings,
		converter:  tools.NewConverter(settings.ConverterCommand),
		detector:   tools.NewDetector(settings.DetectorPath),
		stretcher:  tools.NewStretcher(settings.StretcherPath),
		tagger:     tags.NewTagger(settings.CoverArtResize, settings.CoverArtMaxSize),
		onProgress: onProgress,
	}
}

func (p *Pipeline) progress(level ProgressLevel, format string, args ...any) {
	if p.onProgress != nil {
		p.onProgress(ProgressEvent{Message: fmt.Sprintf(format, args...), Level: level})
	}
}

// CheckTools verifies the three external tools are resolvable: the
// detector and stretcher must exist, and the converter must respond to
// a version query. Called by ConvertKey before any input file is
// touched; batch callers may also call it once up front.
func (p *Pipeline) CheckTools(ctx context.Context) error {
	if !p.detector.Available() {
		return fmt.Errorf("%w: detector %q", ErrToolNotFound, p.settings.DetectorPath)
	}
	if !p.stretcher.Available() {
		return fmt.Errorf("%w: stretcher %q", ErrToolNotFound, p.settings.StretcherPath)
	}
	if err := p.converter.Probe(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrToolNotFound, err)
	}
	return nil
}

// ConvertKey transposes one audio file into the target key.
//
// On success the result's OutputPath names a file
// <stem>_in_<targetKey><ext> inside the job's output folder. When the
// resolved source key already matches the target, the input is copied
// verbatim instead of being re-processed. When key detection fails the
// job returns a StatusSkipped result and a nil error.
//
// Both scratch files are removed before ConvertKey returns, on every
// path.
func (p *Pipeline) ConvertKey(ctx context.Context, job Job) (*Result, error) {
	if err := p.CheckTools(ctx); err != nil {
		return nil, err
	}

	if _, err := music.Normalize(job.TargetKey); err != nil {
		return nil, fmt.Errorf("target key: %w", err)
	}
	if job.SourceKey != "" {
		if _, err := music.Normalize(job.SourceKey); err != nil {
			return nil, fmt.Errorf("source key: %w", err)
		}
	}

	ext := strings.ToLower(filepath.Ext(job.InputPath))
	if !supported[ext] {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	if err := fsutil.EnsureDir(job.OutputDir); err != nil {
		return nil, fmt.Errorf("creating output folder: %w", err)
	}

	stem := fsutil.Stem(job.InputPath)
	outputPath := filepath.Join(job.OutputDir, fmt.Sprintf("%s_in_%s%s", stem, job.TargetKey, ext))

	decoded := fsutil.TempFilePath(p.settings.TempDir, stem+"-decoded", ".wav")
	shifted := fsutil.TempFilePath(p.settings.TempDir, stem+"-shifted", ".wav")
	defer func() {
		os.Remove(decoded)
		os.Remove(shifted)
	}()

	// Stage 1: decode to the fixed-format intermediate.
	p.progress(LevelVerbose, "Decoding %s", job.InputPath)
	out, err := p.converter.Decode(ctx, job.InputPath, decoded)
	if err != nil || !fsutil.IsNonEmptyFile(decoded) {
		return nil, fmt.Errorf("%w: %s: %s", ErrDecodeFailed, job.InputPath, tailOf(out))
	}

	// Stage 2: resolve the source key.
	sourceKey := job.SourceKey
	if sourceKey == "" {
		p.progress(LevelVerbose, "Detecting key of %s", job.InputPath)
		detected, ok := tools.ParseKey(p.detector.Detect(ctx, decoded))
		if !ok {
			p.progress(LevelWarning, "Could not detect key of %s, skipping", job.InputPath)
			return &Result{
				InputPath: job.InputPath,
				SourceKey: UnknownKey,
				TargetKey: job.TargetKey,
				Semitones: 0,
				Status:    StatusSkipped,
			}, nil
		}
		sourceKey = detected
		p.progress(LevelInfo, "Detected key: %s", sourceKey)
	}

	// Stage 3: compute the semitone offset.
	semitones, err := music.SemitoneDistance(sourceKey, job.TargetKey)
	if err != nil {
		return nil, err
	}
	p.progress(LevelInfo, "Transposing %s -> %s (%s semitones)",
		sourceKey, job.TargetKey, tools.FormatPitch(semitones))

	if semitones == 0 {
		if err := p.checkOutput(outputPath, job.Overwrite); err != nil {
			return nil, err
		}
		if err := fsutil.CopyFile(job.InputPath, outputPath); err != nil {
			return nil, fmt.Errorf("copying %s: %w", job.InputPath, err)
		}
		p.progress(LevelSuccess, "%s is already in %s, copied to %s", job.InputPath, job.TargetKey, outputPath)
		return &Result{
			InputPath:  job.InputPath,
			OutputPath: outputPath,
			SourceKey:  sourceKey,
			TargetKey:  job.TargetKey,
			Semitones:  0,
			Status:     StatusAlreadyInKey,
		}, nil
	}

	// Stage 4: pitch shift.
	p.progress(LevelVerbose, "Shifting pitch by %s semitones", tools.FormatPitch(semitones))
	out, err = p.stretcher.Shift(ctx, decoded, shifted, semitones)
	if err != nil || !fsutil.IsNonEmptyFile(shifted) {
		return nil, fmt.Errorf("%w: %s: %s", ErrShiftFailed, job.InputPath, tailOf(out))
	}

	// Stage 5: re-encode with metadata carried over.
	if err := p.checkOutput(outputPath, job.Overwrite); err != nil {
		return nil, err
	}

	title := p.resolveTitle(ctx, job.InputPath, ext, stem)
	newTitle := fmt.Sprintf("%s_in_%s", title, job.TargetKey)

	var artwork []byte
	if ext == ".mp3" && p.settings.KeepCoverArt {
		artwork, _ = p.tagger.ReadArtwork(job.InputPath)
	}

	p.progress(LevelVerbose, "Re-encoding to %s", outputPath)
	out, err = p.converter.Encode(ctx, shifted, job.InputPath, outputPath, newTitle)
	if err != nil || !fsutil.IsNonEmptyFile(outputPath) {
		return nil, fmt.Errorf("%w: %s: %s", ErrReencodeFailed, job.InputPath, tailOf(out))
	}

	if ext == ".mp3" {
		if err := p.tagger.Finalize(outputPath, newTitle, artwork); err != nil {
			p.progress(LevelWarning, "Could not rewrite tags on %s: %v", outputPath, err)
		}
	}

	p.progress(LevelSuccess, "Converted %s -> %s", job.InputPath, outputPath)
	return &Result{
		InputPath:  job.InputPath,
		OutputPath: outputPath,
		SourceKey:  sourceKey,
		TargetKey:  job.TargetKey,
		Semitones:  semitones,
		Status:     StatusConverted,
	}, nil
}

// DetectKey decodes one input file and runs the key detector on the
// intermediate. ok is false when the detector's output matched no
// pattern. The scratch file is removed before returning.
func (p *Pipeline) DetectKey(ctx context.Context, inputPath string) (key string, ok bool, err error) {
	if err := p.CheckTools(ctx); err != nil {
		return "", false, err
	}

	ext := strings.ToLower(filepath.Ext(inputPath))
	if !supported[ext] {
		return "", false, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	decoded := fsutil.TempFilePath(p.settings.TempDir, fsutil.Stem(inputPath)+"-decoded", ".wav")
	defer os.Remove(decoded)

	out, err := p.converter.Decode(ctx, inputPath, decoded)
	if err != nil || !fsutil.IsNonEmptyFile(decoded) {
		return "", false, fmt.Errorf("%w: %s: %s", ErrDecodeFailed, inputPath, tailOf(out))
	}

	key, ok = tools.ParseKey(p.detector.Detect(ctx, decoded))
	return key, ok, nil
}

// checkOutput enforces the overwrite rule at the two points a final
// file may be written.
func (p *Pipeline) checkOutput(outputPath string, overwrite bool) error {
	if overwrite {
		return nil
	}
	if _, err := os.Stat(outputPath); err == nil {
		return fmt.Errorf("%w: %s", ErrOutputExists, outputPath)
	}
	return nil
}

// resolveTitle finds the original title tag, preferring ID3 for MP3
// inputs and falling back to the converter's metadata dump, then to
// the filename stem.
func (p *Pipeline) resolveTitle(ctx context.Context, inputPath, ext, stem string) string {
	if ext == ".mp3" {
		if title, ok, err := p.tagger.ReadTitle(inputPath); err == nil && ok {
			return title
		}
	}
	if title, ok, err := p.converter.ReadTitle(ctx, inputPath); err == nil && ok {
		return title
	}
	return stem
}

// tailOf trims captured tool output for error messages, keeping the
// last few lines where ffmpeg and friends put the actual reason.
func tailOf(output string) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) > 4 {
		lines = lines[len(lines)-4:]
	}
	return strings.TrimSpace(strings.Join(lines, " | "))
}
