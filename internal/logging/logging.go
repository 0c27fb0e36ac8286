// Package logging builds the console logger shared by the binaries.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

var levels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// New returns a colored console logger. Unknown levels mean info.
func New(level string, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stdout
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      levelFromString(level),
		TimeFormat: time.TimeOnly,
		NoColor:    w != os.Stdout && w != os.Stderr,
	}))
}

// Setup installs New(level, os.Stdout) as the default logger.
func Setup(level string) *slog.Logger {
	l := New(level, os.Stdout)
	slog.SetDefault(l)
	return l
}

func levelFromString(level string) slog.Level {
	if lvl, ok := levels[strings.ToLower(strings.TrimSpace(level))]; ok {
		return lvl
	}
	return slog.LevelInfo
}
