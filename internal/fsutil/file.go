package fsutil

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// CopyFile copies a file from source to destination.
//
// The destination file is created with mode 0644 if it doesn't exist,
// or truncated if it does. The source file must exist and be readable.
func CopyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	_, err = io.Copy(destFile, sourceFile)
	return err
}

// EnsureDir creates a directory and all parent directories if they
// don't exist. Directories are created with mode 0755.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// SanitizeFileName removes or replaces characters that are invalid in
// file/folder names.
//
// The following transformations are applied:
//   - Invalid characters (<>:"/\|?* and control chars 0x00-0x1f) become underscore
//   - Trailing dots are removed (Windows limitation)
//   - Multiple whitespace collapses to a single space
//   - Trailing whitespace is removed
func SanitizeFileName(name string) string {
	invalidChars := regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	name = invalidChars.ReplaceAllString(name, "_")

	name = regexp.MustCompile(`\.+$`).ReplaceAllString(name, "")
	name = regexp.MustCompile(`\s+`).ReplaceAllString(name, " ")
	name = strings.TrimRight(name, " ")

	return name
}

// TempFilePath returns a fresh path inside dir for a scratch file with
// the given prefix and extension. The file itself is not created; the
// external tool writing to the path creates it.
//
// The name embeds the process ID and random bytes, so concurrent jobs
// never collide on scratch paths.
func TempFilePath(dir, prefix, ext string) string {
	var buf [8]byte
	rand.Read(buf[:])
	name := fmt.Sprintf("%s-%d-%s%s", prefix, os.Getpid(), hex.EncodeToString(buf[:]), ext)
	return filepath.Join(dir, SanitizeFileName(name))
}

// IsNonEmptyFile reports whether path exists, is a regular file, and
// has non-zero size. External tools occasionally exit zero while
// producing nothing; callers treat that the same as a failed exit.
func IsNonEmptyFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() && info.Size() > 0
}

// Stem returns the base name of path without its extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
