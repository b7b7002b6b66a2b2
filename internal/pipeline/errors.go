package pipeline

import "errors"

// Sentinel errors for the conversion stages. Wrapped errors carry the
// failing stage's context and, for tool invocations, the captured
// process output; match with errors.Is.
var (
	// ErrToolNotFound means a configured executable is missing or not
	// invocable. It aborts before any input file is touched.
	ErrToolNotFound = errors.New("external tool not found")

	// ErrUnsupportedFormat means the input extension is not one of the
	// recognized formats.
	ErrUnsupportedFormat = errors.New("unsupported input format")

	// ErrDecodeFailed means the converter failed to produce the
	// intermediate WAV.
	ErrDecodeFailed = errors.New("decode failed")

	// ErrShiftFailed means the stretcher failed to produce the shifted
	// intermediate.
	ErrShiftFailed = errors.New("pitch shift failed")

	// ErrReencodeFailed means the converter failed to produce the
	// final output.
	ErrReencodeFailed = errors.New("re-encode failed")

	// ErrOutputExists means the destination file already exists and
	// overwrite was not requested.
	ErrOutputExists = errors.New("output file already exists")
)
