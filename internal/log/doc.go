// Package log provides slog-based logging with automatic sanitization of
// sensitive values.
//
// Crawl and audit logs routinely carry request and response details; the
// Handler masks session cookies, authorization headers, and token-like
// values before they reach the underlying handler, so verbose logs can be
// shared without leaking credentials for the services being scanned.
//
// Usage:
//
//	logger := log.NewLogger(os.Stderr, verbose)
//	slog.SetDefault(logger)
package log
