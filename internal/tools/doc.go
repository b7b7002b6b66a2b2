// Package tools wraps the three external executables keyshift
// orchestrates: the format converter (ffmpeg), the key detector
// (a keyfinder-style CLI), and the pitch stretcher (a rubberband-style
// CLI).
//
// Every invocation is a blocking call with combined stdout/stderr
// capture; the captured text is attached to errors so failures carry
// the tool's own diagnostics. No timeouts are imposed beyond context
// cancellation.
//
// The detector emits free text rather than a structured format.
// ParseKey runs an ordered chain of matchers over that text, most
// specific first, and reports no-match instead of guessing.
package tools
