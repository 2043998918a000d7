// Package logging builds the structured logger shared by the client.
//
// The terminal belongs to the TUI, so log output goes to a file. With no
// path configured everything is discarded.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/hejvi/hejvi/internal/config"
)

// Logger is the logger type used across the module.
type Logger = log.Logger

// New opens path for appending and returns a logfmt logger writing to it,
// plus a close function for the file.
func New(cfg config.LogConfig) (*Logger, func() error, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}

	if cfg.Path == "" {
		return Discard(), func() error { return nil }, nil
	}

	if err := config.EnsureDir(cfg.Path); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	return NewWriter(f, level), f.Close, nil
}

// NewWriter returns a logger writing logfmt lines to w.
func NewWriter(w io.Writer, level log.Level) *Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix:          "hejvi",
		Level:           level,
		ReportTimestamp: true,
		Formatter:       log.LogfmtFormatter,
	})
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}

// ParseLevel maps a config level name to a log level. Empty means info.
func ParseLevel(s string) (log.Level, error) {
	if s == "" {
		return log.InfoLevel, nil
	}
	level, err := log.ParseLevel(strings.ToLower(s))
	if err != nil {
		return log.InfoLevel, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}
