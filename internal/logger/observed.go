package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// NewObservedLogger returns a Logger that records entries in memory, for tests
// that assert on what was logged.
func NewObservedLogger(level string) (Logger, *observer.ObservedLogs) {
	atom := zap.NewAtomicLevelAt(getLoggerLevel(level))
	core, logs := observer.New(atom)
	z := zap.New(core)
	return &AppLogger{
		level:       level,
		encoding:    "console",
		atom:        atom,
		logger:      z,
		sugarLogger: z.Sugar(),
	}, logs
}

// NewNopLogger discards everything.
func NewNopLogger() Logger {
	z := zap.New(zapcore.NewNopCore())
	return &AppLogger{
		level:       "info",
		atom:        zap.NewAtomicLevel(),
		logger:      z,
		sugarLogger: z.Sugar(),
	}
}
