// Package config holds the process-wide keyshift settings.
//
// Settings cover the locations of the three external tools (key
// detector, pitch stretcher, format converter), the scratch directory
// for intermediate files, and batch/artwork options. Settings are
// loaded from a JSON file and fall back to defaults when the file does
// not exist:
//
//	settings, err := config.Load(path)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// A Settings value is read-only for the duration of a conversion job;
// it is passed explicitly into the pipeline rather than read from
// globals.
package config
