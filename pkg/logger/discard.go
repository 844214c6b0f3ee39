package logger

import "log/slog"

// Discard returns a logger that drops every record. Library packages use it when
// the caller supplies no logger.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
