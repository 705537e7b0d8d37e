// Package log provides secure logging utilities for linkscout.
//
// The SecureHandler wraps any slog.Handler and redacts credentials
// (authorization headers, GitHub tokens, Basic Auth values) before they
// reach the log output. The checker logs request details per attempt, so
// redaction happens centrally here rather than at each call site.
package log
