package stagehand

import (
	"log/slog"

	"github.com/stagecraft/stagehand/pkg/stagehand/internal"
)

// SetLogPath sets the full path for the log file, including filename.
// Creates all necessary parent directories. Call before the first logger
// use to take effect; without it, logs go to stdout only.
func SetLogPath(path string) {
	internal.SetLogPath(path)
}

// SetLogLevel sets the application logger level.
func SetLogLevel(level slog.Level) {
	internal.SetLogLevel(level)
}

// SetRawLogLevel sets the application logger level from a string such as
// "debug" or "warn". Unrecognized values fall back to info.
func SetRawLogLevel(rawLevel string) {
	internal.SetRawLogLevel(rawLevel)
}

// SetInternalLogLevel controls the library's own lifecycle tracing, which
// defaults to error-only. Set to slog.LevelDebug to trace every milestone
// and resource load.
func SetInternalLogLevel(level slog.Level) {
	internal.SetInternalLogLevel(level)
}

// Logger returns the application-facing logger, sharing the log file
// configured with SetLogPath.
func Logger() *slog.Logger {
	return internal.GetLogger()
}

// CloseLogger closes the log file, if one was opened. Call before program
// exit.
func CloseLogger() {
	internal.CloseLogger()
}
