package log

import (
	"context"
	"io"
	"log/slog"
	"regexp"
)

// MaskedOctets replaces the last three octets of a hardware address.
const MaskedOctets = "xx:xx:xx"

// macPattern matches hardware addresses as printed by the scanning utility
// (leading zeros may be dropped) and as written in configuration files.
var macPattern = regexp.MustCompile(
	`(?i)\b([0-9a-f]{1,2}[:-][0-9a-f]{1,2}[:-][0-9a-f]{1,2})[:-][0-9a-f]{1,2}[:-][0-9a-f]{1,2}[:-][0-9a-f]{1,2}\b`)

// RedactHandler wraps an slog.Handler and masks the device octets of
// hardware addresses before passing records on.
type RedactHandler struct {
	// handler is the underlying slog handler that receives redacted records.
	handler slog.Handler
}

// NewRedactHandler creates a new RedactHandler wrapping the given handler.
// If handler is nil, the returned RedactHandler will use slog.Default().Handler().
func NewRedactHandler(handler slog.Handler) *RedactHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &RedactHandler{handler: handler}
}

// Enabled reports whether the handler handles records at the given level.
func (h *RedactHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle redacts the record's message and attributes and passes it on.
func (h *RedactHandler) Handle(ctx context.Context, r slog.Record) error {
	redacted := slog.NewRecord(r.Time, r.Level, RedactString(r.Message), r.PC)
	r.Attrs(func(a slog.Attr) bool {
		redacted.AddAttrs(redactAttr(a))
		return true
	})
	return h.handler.Handle(ctx, redacted)
}

// WithAttrs returns a new handler with the given attributes redacted and added.
func (h *RedactHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	redacted := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		redacted[i] = redactAttr(a)
	}
	return &RedactHandler{handler: h.handler.WithAttrs(redacted)}
}

// WithGroup returns a new handler with the given group name.
func (h *RedactHandler) WithGroup(name string) slog.Handler {
	return &RedactHandler{handler: h.handler.WithGroup(name)}
}

// redactAttr redacts a single attribute, recursively handling groups.
func redactAttr(a slog.Attr) slog.Attr {
	v := a.Value.Resolve()

	switch v.Kind() {
	case slog.KindGroup:
		attrs := v.Group()
		redacted := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			redacted[i] = redactAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(redacted...)}
	case slog.KindString:
		return slog.String(a.Key, RedactString(v.String()))
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return slog.String(a.Key, RedactString(err.Error()))
		}
	}
	return slog.Attr{Key: a.Key, Value: v}
}

// RedactString masks the device octets of every hardware address in s.
// "00:1b:63:11:22:33" becomes "00:1b:63:xx:xx:xx".
func RedactString(s string) string {
	return macPattern.ReplaceAllString(s, "${1}:"+MaskedOctets)
}

// NewLogger creates a text logger.
//
// Parameters:
//   - w: The io.Writer to write log output to (typically os.Stderr)
//   - verbose: If true, sets log level to Debug; otherwise Warn
//   - redact: If true, wraps the handler in a RedactHandler
func NewLogger(w io.Writer, verbose, redact bool) *slog.Logger {
	return newLogger(slog.NewTextHandler(w, handlerOptions(verbose)), redact)
}

// NewJSONLogger creates a logger that outputs JSON, for log aggregation.
func NewJSONLogger(w io.Writer, verbose, redact bool) *slog.Logger {
	return newLogger(slog.NewJSONHandler(w, handlerOptions(verbose)), redact)
}

func handlerOptions(verbose bool) *slog.HandlerOptions {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return &slog.HandlerOptions{Level: level}
}

func newLogger(handler slog.Handler, redact bool) *slog.Logger {
	if redact {
		return slog.New(NewRedactHandler(handler))
	}
	return slog.New(handler)
}
