package logger

import (
	"sync"

	"go.uber.org/zap"
)

var (
	globalMu     sync.RWMutex
	globalLogger *zap.Logger
)

func setGlobal(l *zap.Logger) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalLogger = l
}

// global returns the process-wide logger, lazily building a default one on
// first use so package-level functions always work.
func global() *zap.Logger {
	globalMu.RLock()
	l := globalLogger
	globalMu.RUnlock()
	if l != nil {
		return l
	}

	globalMu.Lock()
	defer globalMu.Unlock()
	if globalLogger == nil {
		globalLogger = mustBuildDefault()
	}
	return globalLogger
}

// mustBuildDefault builds the fallback global logger. CallerSkip(1) skips the
// package-level wrapper frame so callers are reported correctly.
func mustBuildDefault() *zap.Logger {
	cfg := DefaultConfig()
	zapCfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(zap.InfoLevel),
		Encoding:         cfg.Encoding,
		EncoderConfig:    encoderConfig(),
		OutputPaths:      cfg.OutputPaths,
		ErrorOutputPaths: cfg.ErrorOutputPaths,
	}
	l, err := zapCfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return zap.NewNop()
	}
	return l
}

// SetGlobal replaces the process-wide logger used by the package-level
// functions. Build the logger with AddCallerSkip(1) for correct caller
// locations. Safe for concurrent use.
func SetGlobal(l *zap.Logger) {
	setGlobal(l)
}

// Global returns the process-wide zap logger.
func Global() *zap.Logger {
	return global()
}

// Debug logs msg at debug level through the global logger.
func Debug(msg string, fields ...zap.Field) {
	global().Debug(msg, fields...)
}

// Info logs msg at info level through the global logger.
func Info(msg string, fields ...zap.Field) {
	global().Info(msg, fields...)
}

// Warn logs msg at warn level through the global logger.
func Warn(msg string, fields ...zap.Field) {
	global().Warn(msg, fields...)
}

// Error logs msg at error level through the global logger.
func Error(msg string, fields ...zap.Field) {
	global().Error(msg, fields...)
}

// Sync flushes the global logger.
func Sync() error {
	return global().Sync()
}
