package batch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/handiism/keyshift/internal/config"
	"github.com/handiism/keyshift/internal/pipeline"
)

const fakeConverter = `#!/bin/sh
if [ "$1" = "-version" ]; then echo "ffmpeg version 6.0-fake"; exit 0; fi
in=""
prev=""
meta=0
for a in "$@"; do
  if [ "$prev" = "-i" ] && [ -z "$in" ]; then in="$a"; fi
  if [ "$a" = "ffmetadata" ]; then meta=1; fi
  prev="$a"
done
if [ "$meta" = "1" ]; then printf ';FFMETADATA1\ntitle=Fake Song\n'; exit 0; fi
i=0
out=""
for a in "$@"; do
  i=$((i+1))
  if [ $i -eq $(($# - 1)) ]; then out="$a"; fi
done
cp "$in" "$out"
`

// The fake detector keys off the decoded file's contents, which the
// fake converter copies verbatim from the input, so each input file
// can carry its own detector behavior.
const fakeDetector = `#!/bin/sh
cat "$1"
`

func testSettings(t *testing.T) (*config.Settings, string) {
	t.Helper()

	root := t.TempDir()
	binDir := filepath.Join(root, "bin")
	tempDir := filepath.Join(root, "scratch")
	for _, dir := range []string{binDir, tempDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatal(err)
		}
	}

	write := func(name, body string) string {
		path := filepath.Join(binDir, name)
		if err := os.WriteFile(path, []byte(body), 0755); err != nil {
			t.Fatal(err)
		}
		return path
	}

	settings := config.DefaultSettings()
	settings.TempDir = tempDir
	settings.ConverterCommand = write("ffmpeg", fakeConverter)
	settings.DetectorPath = write("keyfinder", fakeDetector)
	settings.StretcherPath = write("rubberband", "#!/bin/sh\ncp \"$1\" \"$2\"\n")
	return settings, root
}

func writeInput(t *testing.T, dir, name, detectorOutput string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(detectorOutput), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestConvertAll_IsolatesPerFileFailures(t *testing.T) {
	settings, root := testSettings(t)
	inputDir := filepath.Join(root, "in")
	if err := os.MkdirAll(inputDir, 0755); err != nil {
		t.Fatal(err)
	}

	good := writeInput(t, inputDir, "good.mp3", "Key: D\n")
	undetectable := writeInput(t, inputDir, "mystery.mp3", "no idea\n")
	unsupported := writeInput(t, inputDir, "other.flac", "Key: D\n")

	p := pipeline.New(settings, nil)
	runner := NewRunner(p, 2)

	results, err := runner.ConvertAll(context.Background(), Request{
		Inputs:    []string{good, undetectable, unsupported},
		OutputDir: filepath.Join(root, "out"),
		TargetKey: "E",
	})
	if err != nil {
		t.Fatalf("ConvertAll() error: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}

	if results[0].Err != nil || results[0].Result.Status != pipeline.StatusConverted {
		t.Errorf("good file: err=%v, result=%+v", results[0].Err, results[0].Result)
	}
	if results[1].Err != nil || results[1].Result.Status != pipeline.StatusSkipped {
		t.Errorf("undetectable file: err=%v, result=%+v", results[1].Err, results[1].Result)
	}
	if results[2].Err == nil {
		t.Error("unsupported file: want an error, got none")
	}
}

func TestConvertAll_MissingToolAbortsBatch(t *testing.T) {
	settings, root := testSettings(t)
	settings.DetectorPath = filepath.Join(root, "bin", "gone")

	input := writeInput(t, root, "song.mp3", "Key: D\n")

	p := pipeline.New(settings, nil)
	runner := NewRunner(p, 1)

	_, err := runner.ConvertAll(context.Background(), Request{
		Inputs:    []string{input},
		OutputDir: filepath.Join(root, "out"),
		TargetKey: "E",
	})
	if err == nil {
		t.Fatal("ConvertAll() with missing detector succeeded")
	}
}

func TestDetectAndLog(t *testing.T) {
	settings, root := testSettings(t)
	inputDir := filepath.Join(root, "in")
	if err := os.MkdirAll(inputDir, 0755); err != nil {
		t.Fatal(err)
	}

	detected := writeInput(t, inputDir, "a.mp3", "Key: Gb\n")
	unknown := writeInput(t, inputDir, "b.mp3", "static noise\n")
	failing := filepath.Join(inputDir, "c.flac") // unsupported -> Error
	if err := os.WriteFile(failing, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	logPath := filepath.Join(root, "keys.log")
	// Pre-existing content must be truncated away.
	if err := os.WriteFile(logPath, []byte("stale\n"), 0644); err != nil {
		t.Fatal(err)
	}

	p := pipeline.New(settings, nil)
	runner := NewRunner(p, 1)

	if err := runner.DetectAndLog(context.Background(), []string{detected, unknown, failing}, logPath); err != nil {
		t.Fatalf("DetectAndLog() error: %v", err)
	}

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(string(content), "\n"), "\n")

	want := []string{
		detected + ",Gb",
		unknown + ",Unknown",
		failing + ",Error",
	}
	if len(lines) != len(want) {
		t.Fatalf("log has %d lines, want %d:\n%s", len(lines), len(want), content)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("log line %d = %q, want %q", i, lines[i], want[i])
		}
	}
	if strings.Contains(string(content), "stale") {
		t.Error("log file was not truncated")
	}
}

func TestCollectInputs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.mp3", "a.wav", "notes.txt", "c.MP3"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.MkdirAll(filepath.Join(dir, "sub"), 0755); err != nil {
		t.Fatal(err)
	}

	inputs, err := CollectInputs(dir)
	if err != nil {
		t.Fatalf("CollectInputs() error: %v", err)
	}

	want := []string{
		filepath.Join(dir, "a.wav"),
		filepath.Join(dir, "b.mp3"),
		filepath.Join(dir, "c.MP3"),
	}
	if len(inputs) != len(want) {
		t.Fatalf("CollectInputs() = %v, want %v", inputs, want)
	}
	for i := range want {
		if inputs[i] != want[i] {
			t.Errorf("inputs[%d] = %q, want %q", i, inputs[i], want[i])
		}
	}

	single := filepath.Join(dir, "b.mp3")
	inputs, err = CollectInputs(single)
	if err != nil {
		t.Fatalf("CollectInputs() error: %v", err)
	}
	if len(inputs) != 1 || inputs[0] != single {
		t.Errorf("CollectInputs(file) = %v, want [%s]", inputs, single)
	}
}
