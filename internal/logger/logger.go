// Package logger builds the tripctl logger: charmbracelet/log writing to a
// rotating file, and to stderr as well in debug mode.
package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config holds logger configuration.
type Config struct {
	Debug bool
	// Dir is where tripctl.log is written. Created if missing.
	Dir string
}

// New returns a logger for cfg. Without Debug only warnings and errors are
// recorded, and nothing is written to the terminal.
func New(cfg Config) (*log.Logger, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, err
	}

	fileWriter := &lumberjack.Logger{
		Filename:   filepath.Join(cfg.Dir, "tripctl.log"),
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}

	level := log.WarnLevel
	var w io.Writer = fileWriter
	if cfg.Debug {
		level = log.DebugLevel
		w = io.MultiWriter(os.Stderr, fileWriter)
	}

	return log.NewWithOptions(w, log.Options{
		ReportCaller:    cfg.Debug,
		ReportTimestamp: true,
		Level:           level,
		Prefix:          "tripctl",
	}), nil
}

// Discard returns a logger that drops everything. Used by tests and as the
// zero-value default of components that take an optional logger.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}

// DefaultDir returns the per-user log directory, falling back to the working
// directory when the user config dir cannot be determined.
func DefaultDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "logs"
	}
	return filepath.Join(dir, "tripctl", "logs")
}
