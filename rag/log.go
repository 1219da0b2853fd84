// Package rag provides a flexible logging system for the Raggo framework.
// It supports multiple log levels, structured logging with key-value pairs,
// and can be easily extended with custom logger implementations.
package rag

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevel represents the severity level of a log message.
// Higher values indicate more verbose logging.
type LogLevel int

const (
	// LogLevelOff disables all logging
	LogLevelOff LogLevel = iota
	// LogLevelError enables only error messages
	LogLevelError
	// LogLevelWarn enables error and warning messages
	LogLevelWarn
	// LogLevelInfo enables error, warning, and info messages
	LogLevelInfo
	// LogLevelDebug enables all messages including debug
	LogLevelDebug
)

// Logger defines the interface for logging operations.
// Implementations must support multiple severity levels and
// structured logging with key-value pairs.
type Logger interface {
	// Debug logs a message at debug level with optional key-value pairs
	Debug(msg string, keysAndValues ...interface{})
	// Info logs a message at info level with optional key-value pairs
	Info(msg string, keysAndValues ...interface{})
	// Warn logs a message at warning level with optional key-value pairs
	Warn(msg string, keysAndValues ...interface{})
	// Error logs a message at error level with optional key-value pairs
	Error(msg string, keysAndValues ...interface{})
	// SetLevel changes the current logging level
	SetLevel(level LogLevel)
}

// ZapLogger implements the Logger interface on top of a zap.SugaredLogger.
// Level filtering happens here, below zap's own core, so SetLevel can be
// adjusted at runtime without rebuilding the core.
type ZapLogger struct {
	sugared *zap.SugaredLogger
	level   LogLevel
}

// NewLogger creates a new ZapLogger instance with the specified log level.
// The underlying zap logger uses a production JSON encoder writing to
// stderr.
func NewLogger(level LogLevel) Logger {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	base, err := cfg.Build()
	if err != nil {
		base = zap.NewNop()
	}
	return &ZapLogger{
		sugared: base.Sugar(),
		level:   level,
	}
}

// SetLevel updates the logging level of the ZapLogger.
// Messages below this level will not be logged.
func (l *ZapLogger) SetLevel(level LogLevel) {
	l.level = level
}

func (l *ZapLogger) log(level LogLevel, msg string, keysAndValues ...interface{}) {
	if level > l.level {
		return
	}
	switch level {
	case LogLevelDebug:
		l.sugared.Debugw(msg, keysAndValues...)
	case LogLevelInfo:
		l.sugared.Infow(msg, keysAndValues...)
	case LogLevelWarn:
		l.sugared.Warnw(msg, keysAndValues...)
	case LogLevelError:
		l.sugared.Errorw(msg, keysAndValues...)
	}
}

// Debug logs a message at debug level. This level should be used for
// detailed information needed for debugging purposes.
func (l *ZapLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.log(LogLevelDebug, msg, keysAndValues...)
}

// Info logs a message at info level. This level should be used for
// general operational information.
func (l *ZapLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log(LogLevelInfo, msg, keysAndValues...)
}

// Warn logs a message at warning level. This level should be used for
// potentially harmful situations that don't prevent normal operation.
func (l *ZapLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.log(LogLevelWarn, msg, keysAndValues...)
}

// Error logs a message at error level. This level should be used for
// error conditions that affect normal operation.
func (l *ZapLogger) Error(msg string, keysAndValues ...interface{}) {
	l.log(LogLevelError, msg, keysAndValues...)
}

// String returns the string representation of a LogLevel.
func (l LogLevel) String() string {
	return [...]string{"OFF", "ERROR", "WARN", "INFO", "DEBUG"}[l]
}

// UnmarshalText implements the encoding.TextUnmarshaler interface.
// It allows LogLevel to be configured from string values in configuration
// files or environment variables.
func (l *LogLevel) UnmarshalText(text []byte) error {
	switch strings.ToUpper(string(text)) {
	case "OFF":
		*l = LogLevelOff
	case "ERROR":
		*l = LogLevelError
	case "WARN":
		*l = LogLevelWarn
	case "INFO":
		*l = LogLevelInfo
	case "DEBUG":
		*l = LogLevelDebug
	default:
		return fmt.Errorf("invalid log level: %s", string(text))
	}
	return nil
}

// GlobalLogger is the package-level logger instance used by default.
// It can be accessed and modified by other packages using the rag framework.
var GlobalLogger Logger

func init() {
	GlobalLogger = NewLogger(LogLevelInfo)
}

// SetGlobalLogLevel sets the log level for the global logger instance.
func SetGlobalLogLevel(level LogLevel) {
	GlobalLogger.SetLevel(level)
}
