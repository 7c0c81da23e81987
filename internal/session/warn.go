package session

import (
	"sync"

	"go.uber.org/zap"
)

// WarnOnce logs a warning the first time a key is seen and stays silent
// for that key afterwards.
type WarnOnce struct {
	logger *zap.Logger

	mu   sync.Mutex
	seen map[string]struct{}
}

// NewWarnOnce creates a WarnOnce logging to logger.
func NewWarnOnce(logger *zap.Logger) *WarnOnce {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WarnOnce{logger: logger, seen: make(map[string]struct{})}
}

// Warn logs msg unless key was already reported. It reports whether the
// warning was logged.
func (w *WarnOnce) Warn(key, msg string, fields ...zap.Field) bool {
	w.mu.Lock()
	if _, ok := w.seen[key]; ok {
		w.mu.Unlock()
		return false
	}
	w.seen[key] = struct{}{}
	w.mu.Unlock()

	w.logger.Warn(msg, append(fields, zap.String("key", key))...)
	return true
}
