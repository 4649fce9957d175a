package runtime

import (
	"sync"

	"go.uber.org/zap"
)

var (
	logger     *zap.Logger
	loggerOnce sync.Once
)

// Logger returns the logger used when Options.Logger is nil. It reports
// class definitions and every unsupported-operation fault raised by a
// stub, with the class and member that faulted. Silent by default.
func Logger() *zap.Logger {
	loggerOnce.Do(func() {
		if logger == nil {
			logger = zap.NewNop()
		}
	})
	return logger
}

// SetLogger sets the logger for runtimes created afterwards.
func SetLogger(l *zap.Logger) {
	logger = l
}
