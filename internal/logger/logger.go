// Package logger wraps zap construction behind a small leveled facade.
package logger

import (
	"fmt"

	"go.uber.org/zap"
)

// Logger carries the configured zap logger.
type Logger struct {
	// Log is the underlying zap logger. Nop until Init is called.
	Log *zap.Logger
}

// New returns a Logger that discards everything until Init succeeds.
func New() *Logger {
	return &Logger{Log: zap.NewNop()}
}

// Init builds a development logger at the given level ("debug", "info",
// "warn", "error"). Unknown levels are rejected.
func (l *Logger) Init(level string) error {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return fmt.Errorf("parse log level %q: %w", level, err)
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = lvl
	log, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	l.Log = log
	return nil
}
