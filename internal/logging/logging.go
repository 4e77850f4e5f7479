// Package logging provides category-scoped zap loggers for the engine.
// Before Initialize is called every category resolves to a nop logger, so
// library callers that never configure logging pay nothing and see nothing.
package logging

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Engine subsystems that log.
const (
	CategoryEngine  = "engine"
	CategorySandbox = "sandbox"
	CategoryRunner  = "runner"
	CategoryStore   = "store"
	CategoryCLI     = "cli"
)

var (
	mu   sync.RWMutex
	root = zap.NewNop()
)

// Initialize installs the process-wide root logger. level is one of
// debug/info/warn/error; anything else falls back to info. When json is
// false, output is the console encoding.
func Initialize(level string, json bool) error {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(level))
	if !json {
		cfg.Encoding = "console"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	l, err := cfg.Build()
	if err != nil {
		return err
	}
	mu.Lock()
	root = l
	mu.Unlock()
	return nil
}

// Get returns the logger for a category.
func Get(category string) *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return root.Named(category)
}

// Sync flushes buffered log entries. Safe to call on the nop logger.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	_ = root.Sync()
}

func parseLevel(s string) zapcore.Level {
	switch s {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
