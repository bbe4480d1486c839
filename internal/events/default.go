package events

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

var (
	defaultMu     sync.Mutex
	defaultLogger *Logger
)

// DefaultPath is where Init writes the JSONL stream.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".specmaster", "events.jsonl"), nil
}

// Init opens the default event log under ~/.specmaster. All package-level
// emit helpers are no-ops until it is called, so library code can emit
// unconditionally.
func Init() error {
	path, err := DefaultPath()
	if err != nil {
		return err
	}
	l, err := NewFileLogger(path)
	if err != nil {
		return err
	}
	defaultMu.Lock()
	defaultLogger = l
	defaultMu.Unlock()
	return nil
}

// Close flushes and closes the default logger.
func Close() {
	defaultMu.Lock()
	l := defaultLogger
	defaultLogger = nil
	defaultMu.Unlock()
	l.Close()
}

func active() *Logger {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	return defaultLogger
}

// Emit sends ev to the default logger, if one is open.
func Emit(ev Event) { active().Emit(ev) }

// Info emits an info-level event through the default logger.
func Info(kind Kind, ev Event) { active().Info(kind, ev) }

// Warn emits a warn-level event through the default logger.
func Warn(kind Kind, ev Event) { active().Warn(kind, ev) }

// Error emits an error-level event through the default logger.
func Error(kind Kind, ev Event) { active().Error(kind, ev) }
