package application

import "log/slog"

// ResolveLogger guarantees a non-nil logger for application/adapter code paths.
func ResolveLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
