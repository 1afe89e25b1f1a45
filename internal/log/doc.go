// Package log provides structured logging helpers for the scanner.
//
// The crawler logs the resource references it flags, and those values are
// page content: an inline <script> body can be arbitrarily long. The
// TruncateHandler wraps any slog.Handler and caps string attribute values
// so a single finding cannot flood the log output.
package log
