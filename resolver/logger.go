package resolver

import (
	"sync"

	"go.uber.org/zap"
)

var (
	logger     *zap.Logger
	loggerOnce sync.Once
)

// Logger is the fallback for resolvers built without a logger. Debug
// entries cover contracts that have no capability entry and the
// per-class partition counts. Discards everything until SetLogger.
func Logger() *zap.Logger {
	loggerOnce.Do(func() {
		if logger == nil {
			logger = zap.NewNop()
		}
	})
	return logger
}

// SetLogger routes resolution diagnostics to l. Resolvers capture the
// logger in New, so existing ones keep theirs.
func SetLogger(l *zap.Logger) {
	logger = l
}
