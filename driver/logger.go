package driver

import (
	"sync"

	"go.uber.org/zap"
)

var (
	logger     *zap.Logger
	loggerOnce sync.Once
)

// Logger backs compilers whose Options carry no logger. Each synthesized
// stub and bridge is logged at debug level, as is every variance bridge
// folded during erasure. No-op unless SetLogger was called.
func Logger() *zap.Logger {
	loggerOnce.Do(func() {
		if logger == nil {
			logger = zap.NewNop()
		}
	})
	return logger
}

// SetLogger replaces the package logger. Call it before creating a
// Compiler.
func SetLogger(l *zap.Logger) {
	logger = l
}
