package mssession

import (
	"context"
	"log/slog"
)

type pageContextKey struct{}

// WithPage adds a pageview cache to the context
func WithPage(ctx context.Context, page *Page) context.Context {
	return context.WithValue(ctx, pageContextKey{}, page)
}

// FromContext retrieves the pageview cache from the context
func FromContext(ctx context.Context) (*Page, bool) {
	page, ok := ctx.Value(pageContextKey{}).(*Page)
	return page, ok && page != nil
}

// SessionIDFromContext resolves the session id of the pageview in ctx.
// It returns an empty string when no page is attached.
func SessionIDFromContext(ctx context.Context) string {
	page, ok := FromContext(ctx)
	if !ok {
		return ""
	}
	return page.GetOrCompute(ctx)
}

// LoggerExtractor returns a ContextExtractor for the logger. It adds the pageview
// id, and the session id once resolved, without triggering resolution. It reads
// the page without locking, so it is safe on records logged while the page is
// resolving.
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		page, ok := FromContext(ctx)
		if !ok {
			return slog.Attr{}, false
		}
		attrs := []slog.Attr{slog.String("pageview_id", page.ID())}
		if id, ok := page.SessionID(); ok {
			attrs = append(attrs, slog.String("session_id", id))
		}
		return slog.Attr{Key: "mssession", Value: slog.GroupValue(attrs...)}, true
	}
}
