package logger

import (
	"context"
	"log/slog"
)

// ContextExtractor extracts a slog attribute from context. It reports false
// when the context carries nothing to log.
//
// Extractors run synchronously inside every logging call, on whatever
// goroutine logs. That goroutine may be in the middle of the operation the
// extracted value describes (a pageview still resolving its session id), so an
// extractor must only read already published state and never wait on a lock
// the logging code could hold.
type ContextExtractor func(ctx context.Context) (slog.Attr, bool)

// LogHandlerDecorator wraps a slog.Handler and appends attributes pulled from
// the record's context. Extraction runs per record rather than once per
// handler, so values set on the context after the logger was built (a request
// id from middleware, a session id resolved mid-request) still show up.
//
// Extracted attributes follow slog grouping rules: after WithGroup they land
// inside the group, like any other record attribute.
type LogHandlerDecorator struct {
	next       slog.Handler
	extractors []ContextExtractor
}

// NewLogHandlerDecorator decorates next with extractors. Nil extractors are
// dropped here, so Handle never has to check.
func NewLogHandlerDecorator(next slog.Handler, extractors ...ContextExtractor) slog.Handler {
	clean := make([]ContextExtractor, 0, len(extractors))
	for _, ex := range extractors {
		if ex != nil {
			clean = append(clean, ex)
		}
	}
	return &LogHandlerDecorator{next: next, extractors: clean}
}

// Enabled defers to the wrapped handler. Extractors never run for records
// below the configured level.
func (h *LogHandlerDecorator) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

// Handle appends every attribute the extractors report and passes the record on.
func (h *LogHandlerDecorator) Handle(ctx context.Context, rec slog.Record) error {
	for _, ex := range h.extractors {
		if attr, ok := ex(ctx); ok {
			rec.AddAttrs(attr)
		}
	}
	return h.next.Handle(ctx, rec)
}

// WithAttrs returns a decorator over next.WithAttrs(attrs) sharing the same
// extractors.
func (h *LogHandlerDecorator) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h.wrap(h.next.WithAttrs(attrs))
}

// WithGroup returns a decorator over next.WithGroup(name) sharing the same
// extractors.
func (h *LogHandlerDecorator) WithGroup(name string) slog.Handler {
	return h.wrap(h.next.WithGroup(name))
}

func (h *LogHandlerDecorator) wrap(next slog.Handler) *LogHandlerDecorator {
	return &LogHandlerDecorator{next: next, extractors: h.extractors}
}
