// Package logging provides the run's leveled logger: a thin printf-style
// wrapper over zerolog with a console writer, optional file sink, and the
// same color-mode handling the CLI flags expose.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/backmassage/moshmaster/internal/config"
)

// Logger wraps a configured zerolog.Logger. Call Close when done if a
// log file was configured.
type Logger struct {
	zl   zerolog.Logger
	file *os.File
}

// New builds a Logger from cfg: colored console output per ColorMode,
// debug level when verbose, and an optional append-mode file sink that
// receives the plain (uncolored) rendering.
func New(cfg *config.Config) (*Logger, error) {
	level := zerolog.InfoLevel
	if cfg.Verbose {
		level = zerolog.DebugLevel
	}

	console := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: "2006-01-02 15:04:05",
		NoColor:    !colorEnabled(cfg.ColorMode),
	}

	writers := []io.Writer{console}
	l := &Logger{}

	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		l.file = f
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        f,
			TimeFormat: "2006-01-02 15:04:05",
			NoColor:    true,
		})
	}

	l.zl = zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().Timestamp().Logger()
	return l, nil
}

// NewForTest returns a Logger writing plain output to w, for tests.
func NewForTest(w io.Writer) *Logger {
	return &Logger{zl: zerolog.New(w).Level(zerolog.DebugLevel)}
}

// ColorsEnabled reports whether ANSI color should be used for the given
// mode, so callers outside the logger (the banner) agree with it.
func ColorsEnabled(mode config.ColorMode) bool {
	return colorEnabled(mode)
}

func colorEnabled(mode config.ColorMode) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	return isTerminal(os.Stdout) &&
		os.Getenv("NO_COLOR") == "" &&
		strings.ToLower(os.Getenv("TERM")) != "dumb"
}

func isTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

// Close closes the log file if one was opened.
func (l *Logger) Close() error {
	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

// Info logs at INFO level.
func (l *Logger) Info(format string, args ...interface{}) {
	l.zl.Info().Msgf(format, args...)
}

// Success logs a completed step at INFO level with a status marker.
func (l *Logger) Success(format string, args ...interface{}) {
	l.zl.Info().Str("status", "ok").Msgf(format, args...)
}

// Warn logs at WARN level.
func (l *Logger) Warn(format string, args ...interface{}) {
	l.zl.Warn().Msgf(format, args...)
}

// Error logs at ERROR level.
func (l *Logger) Error(format string, args ...interface{}) {
	l.zl.Error().Msgf(format, args...)
}

// Stage logs a pipeline stage transition at INFO level.
func (l *Logger) Stage(format string, args ...interface{}) {
	l.zl.Info().Str("stage", "transition").Msgf(format, args...)
}

// Debug logs at DEBUG level; suppressed unless the run is verbose.
func (l *Logger) Debug(format string, args ...interface{}) {
	l.zl.Debug().Msgf(format, args...)
}
