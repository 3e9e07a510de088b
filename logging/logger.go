// Package logging provides structured logging for the generation pipeline.
//
// logger.go implements the Logger organism that wraps zap.Logger and adds
// automatic redaction of API keys in logged fields.
//
// This organism composes:
//   - FileWriter molecule (log file rotation via lumberjack)
//   - MultiCore molecule (tee output to console + file)
//   - SensitiveFilter atom (API key redaction)
package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps zap.Logger with console+file output and field redaction.
type Logger struct {
	zap   *zap.Logger
	sugar *zap.SugaredLogger
}

// NewLogger creates a Logger writing to both the console and a rotating
// log file.
//
// In development mode the console output is colored and human readable at
// debug level; otherwise both outputs are JSON at info level. The file
// rotates at 100MB with 5 compressed backups kept for 30 days.
func NewLogger(isDevelopment bool, logFilePath string) (*Logger, error) {
	level := zapcore.InfoLevel
	if isDevelopment {
		level = zapcore.DebugLevel
	}

	core, err := NewMultiCore(level, logFilePath, isDevelopment)
	if err != nil {
		return nil, fmt.Errorf("failed to create log core: %w", err)
	}

	zapLogger := zap.New(core,
		zap.AddCaller(),
		zap.AddCallerSkip(1), // skip this wrapper layer
	)

	return &Logger{
		zap:   zapLogger,
		sugar: zapLogger.Sugar(),
	}, nil
}

// NewLoggerWithWriters creates a Logger over caller-supplied writers.
// Used by tests to capture log output without touching the filesystem.
func NewLoggerWithWriters(level zapcore.Level, consoleWriter, fileWriter zapcore.WriteSyncer, isDevelopment bool) *Logger {
	core := NewMultiCoreWithWriters(level, consoleWriter, fileWriter, isDevelopment)
	zapLogger := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
	return &Logger{
		zap:   zapLogger,
		sugar: zapLogger.Sugar(),
	}
}

// NewNopLogger returns a Logger that discards everything. Useful as a
// default for components whose callers did not supply a logger.
func NewNopLogger() *Logger {
	nop := zap.NewNop()
	return &Logger{zap: nop, sugar: nop.Sugar()}
}

// Named returns a child logger with the given name segment appended.
func (l *Logger) Named(name string) *Logger {
	named := l.zap.Named(name)
	return &Logger{zap: named, sugar: named.Sugar()}
}

// With returns a child logger with the given fields attached to every entry.
// Fields pass through redaction once here rather than on each log call.
func (l *Logger) With(fields ...zap.Field) *Logger {
	child := l.zap.With(l.redactFields(fields)...)
	return &Logger{zap: child, sugar: child.Sugar()}
}

// Sync flushes buffered entries. Call before exit.
func (l *Logger) Sync() error {
	if l == nil || l.zap == nil {
		return nil
	}
	return l.zap.Sync()
}

// Debug logs at DebugLevel with structured fields.
func (l *Logger) Debug(msg string, fields ...zap.Field) {
	l.zap.Debug(msg, l.redactFields(fields)...)
}

// Info logs at InfoLevel with structured fields.
func (l *Logger) Info(msg string, fields ...zap.Field) {
	l.zap.Info(msg, l.redactFields(fields)...)
}

// Warn logs at WarnLevel with structured fields.
func (l *Logger) Warn(msg string, fields ...zap.Field) {
	l.zap.Warn(msg, l.redactFields(fields)...)
}

// Error logs at ErrorLevel with structured fields.
func (l *Logger) Error(msg string, fields ...zap.Field) {
	l.zap.Error(msg, l.redactFields(fields)...)
}

// Fatal logs at FatalLevel then exits.
func (l *Logger) Fatal(msg string, fields ...zap.Field) {
	l.zap.Fatal(msg, l.redactFields(fields)...)
}

// Infow logs at InfoLevel with loosely-typed key-value pairs.
func (l *Logger) Infow(msg string, keysAndValues ...interface{}) {
	l.sugar.Infow(msg, l.redactKeysAndValues(keysAndValues)...)
}

// Warnw logs at WarnLevel with loosely-typed key-value pairs.
func (l *Logger) Warnw(msg string, keysAndValues ...interface{}) {
	l.sugar.Warnw(msg, l.redactKeysAndValues(keysAndValues)...)
}

// Errorw logs at ErrorLevel with loosely-typed key-value pairs.
func (l *Logger) Errorw(msg string, keysAndValues ...interface{}) {
	l.sugar.Errorw(msg, l.redactKeysAndValues(keysAndValues)...)
}

// redactFields applies sensitive-data redaction to string field values.
func (l *Logger) redactFields(fields []zap.Field) []zap.Field {
	out := make([]zap.Field, len(fields))
	for i, f := range fields {
		if f.Type == zapcore.StringType {
			if RedactField(f.Key, f.String) != f.String {
				f = zap.String(f.Key, RedactedPlaceholder)
			} else {
				f = zap.String(f.Key, RedactSensitiveData(f.String))
			}
		}
		out[i] = f
	}
	return out
}

// redactKeysAndValues applies redaction to string values in a sugared
// key-value list. Keys are left alone.
func (l *Logger) redactKeysAndValues(kv []interface{}) []interface{} {
	out := make([]interface{}, len(kv))
	copy(out, kv)
	for i := 1; i < len(out); i += 2 {
		key, keyOK := out[i-1].(string)
		val, valOK := out[i].(string)
		if !valOK {
			continue
		}
		if keyOK {
			out[i] = RedactField(key, val)
		} else {
			out[i] = RedactSensitiveData(val)
		}
	}
	return out
}

// consoleSyncer wraps os.Stdout as a zapcore.WriteSyncer.
type consoleSyncer struct{}

func (consoleSyncer) Write(p []byte) (int, error) { return os.Stdout.Write(p) }
func (consoleSyncer) Sync() error                 { return nil }
