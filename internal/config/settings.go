package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Settings holds all configuration options.
type Settings struct {
	// External tools
	DetectorPath     string `json:"detector_path"`
	StretcherPath    string `json:"stretcher_path"`
	ConverterCommand string `json:"converter_command"`

	// TempDir is the base directory for scratch audio files.
	TempDir string `json:"temp_dir"`

	// Batch settings
	MaxConcurrentJobs int `json:"max_concurrent_jobs"`

	// Cover art settings (MP3 outputs only)
	KeepCoverArt    bool `json:"keep_cover_art"`
	CoverArtResize  bool `json:"cover_art_resize"`
	CoverArtMaxSize int  `json:"cover_art_max_size"`
}

// DefaultSettings returns settings with default values.
//
// The converter defaults to "ffmpeg" resolved via PATH; the detector
// and stretcher default to PATH-resolved binary names as well, but
// unlike the converter they are checked with a stat, so they usually
// need absolute paths in the config file.
func DefaultSettings() *Settings {
	return &Settings{
		DetectorPath:     "keyfinder-cli",
		StretcherPath:    "rubberband",
		ConverterCommand: "ffmpeg",

		TempDir: os.TempDir(),

		MaxConcurrentJobs: 1,

		KeepCoverArt:    true,
		CoverArtResize:  true,
		CoverArtMaxSize: 1000,
	}
}

// Load reads settings from a JSON file.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, err
	}

	return settings, nil
}

// Save writes settings to a JSON file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
