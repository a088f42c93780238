// Package logging builds the application logger. The TUI owns stdout and
// stderr, so logs always go to a file.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultFile is the log file name used when none is configured
const DefaultFile = "fractureid.log"

// Options selects the log destination and level
type Options struct {
	File    string // empty selects DefaultPath
	Level   string // debug, info, warn or error
	Verbose bool   // forces debug
}

// DefaultPath returns fractureid.log in the user cache dir, or in the
// working directory when no cache dir is available.
func DefaultPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return DefaultFile
	}
	return filepath.Join(dir, "fractureid", DefaultFile)
}

// New builds a JSON file logger
func New(opts Options) (*zap.Logger, error) {
	path := opts.File
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	level := zapcore.InfoLevel
	if opts.Level != "" {
		if err := level.UnmarshalText([]byte(opts.Level)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
	}
	if opts.Verbose {
		level = zapcore.DebugLevel
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(level)
	config.OutputPaths = []string{path}
	config.ErrorOutputPaths = []string{path}
	config.EncoderConfig.TimeKey = "time"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}
