// Package logging owns the application log file. The TUI draws on
// stdout, so everything here goes to a dated file under
// ~/.specmaster/logs instead. All helpers are no-ops until Init runs,
// which lets library code log unconditionally.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

var (
	logger  *log.Logger
	logFile *os.File
)

// Init opens today's log file and builds the logger. The level
// defaults to info; set SPECMASTER_LOG=debug to include debug lines.
func Init() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("resolve home directory: %w", err)
	}

	logDir := filepath.Join(homeDir, ".specmaster", "logs")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}

	name := fmt.Sprintf("specmaster-%s.log", time.Now().Format("2006-01-02"))
	logFile, err = os.OpenFile(filepath.Join(logDir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}

	level := log.InfoLevel
	if os.Getenv("SPECMASTER_LOG") == "debug" {
		level = log.DebugLevel
	}

	logger = log.NewWithOptions(logFile, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Level:           level,
	})
	logger.Info("Session started")
	return nil
}

// Close flushes the session footer and closes the file.
func Close() {
	if logger != nil {
		logger.Info("Session ended")
	}
	if logFile != nil {
		logFile.Close()
	}
}

// Debug logs at debug level, if Init has run.
func Debug(msg string, keyvals ...any) {
	if logger != nil {
		logger.Debug(msg, keyvals...)
	}
}

// Info logs at info level, if Init has run.
func Info(msg string, keyvals ...any) {
	if logger != nil {
		logger.Info(msg, keyvals...)
	}
}

// Warn logs at warn level, if Init has run.
func Warn(msg string, keyvals ...any) {
	if logger != nil {
		logger.Warn(msg, keyvals...)
	}
}

// Error logs at error level, if Init has run.
func Error(msg string, keyvals ...any) {
	if logger != nil {
		logger.Error(msg, keyvals...)
	}
}
