// Package logger builds the zerolog.Logger shared by every component.
package logger

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aschepis/backscratcher/sparky/config"
	"github.com/rs/zerolog"
)

// New builds a logger from cfg.
//
// Human-readable output always goes to stderr. When cfg.File is set, JSON
// lines are also appended to that file, and error-level entries and above
// to a sibling "<name>-error<ext>" file. The returned Closer closes any
// files that were opened.
func New(cfg config.LoggingConfig) (zerolog.Logger, io.Closer, error) {
	return newWithConsole(cfg, os.Stderr)
}

func newWithConsole(cfg config.LoggingConfig, console io.Writer) (zerolog.Logger, io.Closer, error) {
	level := ParseLevel(cfg.Level)

	writers := []io.Writer{
		zerolog.ConsoleWriter{Out: console, TimeFormat: time.Kitchen, NoColor: !cfg.Pretty},
	}
	files := multiCloser{}

	if cfg.File != "" {
		if dir := filepath.Dir(cfg.File); dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return zerolog.Logger{}, nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
			}
		}

		logFile, err := openLogFile(cfg.File)
		if err != nil {
			return zerolog.Logger{}, nil, err
		}
		files = append(files, logFile)

		errorFile, err := openLogFile(ErrorLogPath(cfg.File))
		if err != nil {
			_ = files.Close()
			return zerolog.Logger{}, nil, err
		}
		files = append(files, errorFile)

		writers = append(writers,
			logFile,
			&zerolog.FilteredLevelWriter{
				Writer: zerolog.LevelWriterAdapter{Writer: errorFile},
				Level:  zerolog.ErrorLevel,
			},
		)
	}

	log := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().
		Timestamp().
		Str("service", "sparky").
		Logger()

	log.Debug().Str("level", level.String()).Str("file", cfg.File).Msg("Logger initialized")
	return log, files, nil
}

// ErrorLogPath returns the error log path derived from a log file path:
// logs/agent.log becomes logs/agent-error.log.
func ErrorLogPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "-error" + ext
}

// ParseLevel maps a level name to a zerolog level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "info", "":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "trace":
		return zerolog.TraceLevel
	default:
		return zerolog.InfoLevel
	}
}

func openLogFile(path string) (*os.File, error) {
	//nolint:gosec // G304: User-specified log file path is intentional
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	return file, nil
}

type multiCloser []io.Closer

func (m multiCloser) Close() error {
	var errs []error
	for _, c := range m {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
