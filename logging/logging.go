/*
Copyright © 2025 PackForge contributors

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/

// Package logging provides a leveled logger with plain, colored, and JSON
// output. Logging inside orchestration code should go through the
// context-based functions (InfoContext, WarnContext, ...) so the CLI-configured
// logger propagates through the build pipeline.
package logging

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
)

// Level represents the severity of a log message.
type Level int

// Levels ordered from least to most severe for numeric comparison.
const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	default:
		return "INFO"
	}
}

// Format is the output format for log records.
type Format int

// Supported output formats.
const (
	PlainFormat Format = iota
	ColorFormat
	JSONFormat
)

// Logger writes timestamped, leveled messages to a single writer.
// The zero value is not usable; construct with New or NewWithOptions.
type Logger struct {
	mu      sync.Mutex
	level   slog.Level
	format  Format
	quiet   bool
	verbose bool
	writer  io.Writer
}

// New creates a Logger with the given minimum level, writing plain text
// to stderr.
func New(level slog.Level) *Logger {
	return &Logger{
		level:  level,
		format: PlainFormat,
		writer: os.Stderr,
	}
}

// NewWithOptions creates a Logger from CLI-style settings.
// Verbose lowers the level floor to debug; quiet suppresses everything
// below error on the console.
func NewWithOptions(levelStr, format string, quiet, verbose bool) *Logger {
	level := ParseLevel(levelStr)
	if verbose && level > slog.LevelDebug {
		level = slog.LevelDebug
	}

	f := PlainFormat
	switch format {
	case "json":
		f = JSONFormat
	case "color":
		f = ColorFormat
	}

	return &Logger{
		level:   level,
		format:  f,
		quiet:   quiet,
		verbose: verbose,
		writer:  os.Stderr,
	}
}

// SetWriter redirects log output, primarily for tests.
func (l *Logger) SetWriter(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.writer = w
}

// jsonRecord is the wire shape of a JSON-formatted log line.
type jsonRecord struct {
	Time    string `json:"time"`
	Level   string `json:"level"`
	Message string `json:"message"`
}

func (l *Logger) shouldEmit(level Level) bool {
	if l.quiet {
		return level == ErrorLevel
	}
	if l.verbose {
		return true
	}
	return level >= InfoLevel
}

func (l *Logger) log(level Level, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	now := time.Now().Format("2006-01-02 15:04:05")

	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.shouldEmit(level) || l.writer == nil {
		return
	}

	switch l.format {
	case JSONFormat:
		rec := jsonRecord{Time: now, Level: level.String(), Message: msg}
		data, err := json.Marshal(rec)
		if err != nil {
			fmt.Fprintf(os.Stderr, "[%s] %s\n", now, msg)
			return
		}
		fmt.Fprintf(l.writer, "%s\n", data)
	case ColorFormat:
		fmt.Fprintf(l.writer, "[%s] %s\n", now, colorize(level, msg))
	default:
		fmt.Fprintf(l.writer, "[%s] [%s] %s\n", now, level, msg)
	}
}

func colorize(level Level, msg string) string {
	switch level {
	case DebugLevel:
		return color.HiBlackString("[DEBUG] %s", msg)
	case InfoLevel:
		return color.HiGreenString("[INFO] %s", msg)
	case WarnLevel:
		return color.HiYellowString("[WARN] %s", msg)
	case ErrorLevel:
		return color.HiRedString("[ERROR] %s", msg)
	default:
		return msg
	}
}

// Debug logs a debug message.
func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(DebugLevel, format, args...)
}

// Info logs an informational message.
func (l *Logger) Info(format string, args ...interface{}) {
	l.log(InfoLevel, format, args...)
}

// Warn logs a warning message.
func (l *Logger) Warn(format string, args ...interface{}) {
	l.log(WarnLevel, format, args...)
}

// Error logs an error message.
func (l *Logger) Error(format string, args ...interface{}) {
	l.log(ErrorLevel, format, args...)
}

// ErrorErr logs an error value directly without formatting.
func (l *Logger) ErrorErr(err error) {
	if err != nil {
		l.log(ErrorLevel, "%s", err.Error())
	}
}

// ParseLevel converts a string to a slog.Level, defaulting to info.
func ParseLevel(levelStr string) slog.Level {
	switch levelStr {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type loggerKeyType struct{}

var loggerKey = loggerKeyType{}

// WithLogger returns a new context carrying the provided logger.
func WithLogger(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext retrieves the logger from the context, or a default
// info-level logger when none is present.
func FromContext(ctx context.Context) *Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey).(*Logger); ok && l != nil {
			return l
		}
	}
	return New(slog.LevelInfo)
}

// DebugContext logs a debug message using the logger from context.
func DebugContext(ctx context.Context, format string, args ...interface{}) {
	FromContext(ctx).Debug(format, args...)
}

// InfoContext logs an informational message using the logger from context.
func InfoContext(ctx context.Context, format string, args ...interface{}) {
	FromContext(ctx).Info(format, args...)
}

// WarnContext logs a warning message using the logger from context.
func WarnContext(ctx context.Context, format string, args ...interface{}) {
	FromContext(ctx).Warn(format, args...)
}

// ErrorContext logs an error message using the logger from context.
func ErrorContext(ctx context.Context, format string, args ...interface{}) {
	FromContext(ctx).Error(format, args...)
}
