package log

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"strings"
)

// Mask replaces sensitive attribute values in log output.
const Mask = "***REDACTED***"

// sensitiveKeys are attribute keys whose values are always masked.
// Lowercased for case-insensitive comparison.
var sensitiveKeys = map[string]bool{
	"authorization":       true,
	"proxy-authorization": true,
	"cookie":              true,
	"set-cookie":          true,
	"x-api-key":           true,
	"password":            true,
	"passwd":              true,
	"secret":              true,
	"token":               true,
	"api_key":             true,
	"apikey":              true,
	"session":             true,
	"session_id":          true,
	"credential":          true,
	"credentials":         true,
}

// sensitivePatterns match values that look like credentials regardless of
// the attribute key they arrived under.
var sensitivePatterns = []*regexp.Regexp{
	// JWT tokens
	regexp.MustCompile(`^eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*$`),

	// Bearer / Basic auth values
	regexp.MustCompile(`(?i)^bearer\s+.+`),
	regexp.MustCompile(`(?i)^basic\s+[A-Za-z0-9+/=]+$`),

	// PEM private key markers
	regexp.MustCompile(`(?i)-----BEGIN.*(PRIVATE|SECRET).*KEY-----`),

	// Tor v3 onion service secret key marker
	regexp.MustCompile(`== ed25519v1-secret:`),
}

// Handler wraps an slog.Handler and sanitizes record attributes before
// delegating. It works with any underlying handler (text, JSON).
type Handler struct {
	inner slog.Handler
}

// NewHandler wraps the given handler. A nil handler falls back to the
// default logger's handler.
func NewHandler(inner slog.Handler) *Handler {
	if inner == nil {
		inner = slog.Default().Handler()
	}
	return &Handler{inner: inner}
}

// Enabled delegates to the underlying handler.
func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle sanitizes the record's attributes and passes it on.
func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	clean := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		clean.AddAttrs(h.sanitize(a))
		return true
	})
	return h.inner.Handle(ctx, clean)
}

// WithAttrs returns a handler with the given (sanitized) attributes added.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clean := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		clean[i] = h.sanitize(a)
	}
	return &Handler{inner: h.inner.WithAttrs(clean)}
}

// WithGroup returns a handler with the given group name.
func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{inner: h.inner.WithGroup(name)}
}

// sanitize masks a single attribute, recursing into groups.
func (h *Handler) sanitize(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		group := a.Value.Group()
		clean := make([]slog.Attr, len(group))
		for i, ga := range group {
			clean[i] = h.sanitize(ga)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(clean...)}
	}

	key := strings.ToLower(a.Key)
	if sensitiveKeys[key] || hasSensitiveKeyword(key) {
		return slog.String(a.Key, Mask)
	}

	if a.Value.Kind() == slog.KindString {
		for _, pattern := range sensitivePatterns {
			if pattern.MatchString(a.Value.String()) {
				return slog.String(a.Key, Mask)
			}
		}
	}

	return a
}

// hasSensitiveKeyword reports whether the key embeds a credential-like word.
// The bare word "key" is intentionally excluded: it causes false positives
// on keys like "primary_key".
func hasSensitiveKeyword(key string) bool {
	for _, word := range []string{"password", "passwd", "secret", "token", "credential"} {
		if strings.Contains(key, word) {
			return true
		}
	}
	return false
}

// NewLogger creates a text-format slog.Logger with sanitization.
// Level is Debug when verbose, Warn otherwise.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	inner := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(NewHandler(inner))
}

// NewJSONLogger creates a JSON-format slog.Logger with sanitization.
func NewJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	inner := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(NewHandler(inner))
}
