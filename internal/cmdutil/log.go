// internal/cmdutil/log.go
package cmdutil

import (
	"fmt"
	"io"
	"log/slog"
)

// NewLogger returns a text logger on dst. The level is warn by default,
// info with one -v and debug with two; quiet keeps errors only.
func NewLogger(dst io.Writer, verbose int, quiet bool) *slog.Logger {
	lvl := slog.LevelWarn
	switch {
	case quiet:
		lvl = slog.LevelError
	case verbose >= 2:
		lvl = slog.LevelDebug
	case verbose == 1:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(dst, &slog.HandlerOptions{Level: lvl}))
}

// Warnf logs a formatted warning. A nil logger drops it.
func Warnf(log *slog.Logger, format string, a ...any) {
	if log == nil {
		return
	}
	log.Warn(fmt.Sprintf(format, a...))
}
