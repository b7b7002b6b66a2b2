// Package fsutil provides file system utilities for keyshift.
//
// This package contains functions for:
//   - File copying
//   - Directory creation
//   - Filename sanitization
//   - Unique scratch-file path generation
//   - Detecting empty or missing tool output files
package fsutil
