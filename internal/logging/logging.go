// Package logging builds the developer-facing zap logger. End users never
// see its output; the TUI writes it to a file because the terminal belongs
// to the interface.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options selects level, encoding and destination.
type Options struct {
	// Level is a zap level name; unknown values fall back to info.
	Level string
	// Format is "console" or "json".
	Format string
	// OutputPath is a file path, "stderr" or "stdout". Empty discards.
	OutputPath string
}

// New builds a logger from opts.
func New(opts Options) (*zap.Logger, error) {
	if opts.OutputPath == "" {
		return zap.NewNop(), nil
	}

	level := zap.NewAtomicLevel()
	if err := level.UnmarshalText([]byte(opts.Level)); err != nil {
		level.SetLevel(zap.InfoLevel)
	}

	var cfg zap.Config
	if opts.Format == "console" {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Encoding = "json"
	}
	cfg.Level = level

	switch opts.OutputPath {
	case "stderr", "stdout":
	default:
		if err := os.MkdirAll(filepath.Dir(opts.OutputPath), 0700); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
	}
	cfg.OutputPaths = []string{opts.OutputPath}
	cfg.ErrorOutputPaths = []string{"stderr"}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}
