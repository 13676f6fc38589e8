package logger

import (
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var current atomic.Pointer[zap.SugaredLogger]

func init() {
	current.Store(zap.NewNop().Sugar())
}

// Init initializes the process logger
func Init(level string, development bool) error {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	if development {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	l, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}

	Set(l)
	return nil
}

// Set replaces the process logger
func Set(l *zap.Logger) {
	current.Store(l.Sugar())
}

// L returns the process logger, a no-op logger until Init is called
func L() *zap.SugaredLogger {
	return current.Load()
}

// Sync flushes buffered log entries
func Sync() {
	_ = L().Sync()
}

// LogPanic logs a recovered panic with stack trace
func LogPanic(r any) {
	L().Desugar().Error("panic recovered", zap.Any("panic", r), zap.Stack("stack"))
}
