package testutil

import "log/slog"

// NopLogger returns a logger that drops every record.
// Services log on each write; tests use this to keep output quiet.
func NopLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
