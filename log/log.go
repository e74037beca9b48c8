// Package log writes leveled log entries as JSON lines. The package-level
// functions go through a default logger on stdout at info level.
package log

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"sync"
	"time"
)

type LogLevel int

const (
	LogLevelError LogLevel = iota
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
	LogLevelTrace
)

var levelNames = [...]string{
	LogLevelError: "error",
	LogLevelWarn:  "warn",
	LogLevelInfo:  "info",
	LogLevelDebug: "debug",
	LogLevelTrace: "trace",
}

func (level LogLevel) String() string {
	if level < 0 || int(level) >= len(levelNames) {
		return "unknown"
	}
	return levelNames[level]
}

// ParseLogLevel accepts any level name, case-insensitively.
func ParseLogLevel(name string) (LogLevel, error) {
	i := slices.Index(levelNames[:], strings.ToLower(strings.TrimSpace(name)))
	if i < 0 {
		return LogLevelError, fmt.Errorf("log: unknown level %q", name)
	}
	return LogLevel(i), nil
}

// sink is shared by a logger and everything derived from it with With.
type sink struct {
	mu    sync.Mutex
	out   io.Writer
	level LogLevel
	now   func() time.Time
}

type Logger struct {
	sink   *sink
	fields map[string]any
}

// New returns a logger writing to out. Entries carry no timestamp.
func New(out io.Writer, level LogLevel) *Logger {
	return &Logger{sink: &sink{out: out, level: level}}
}

var std = &Logger{sink: &sink{out: os.Stdout, level: LogLevelInfo, now: time.Now}}

func (l *Logger) SetLevel(level LogLevel) {
	l.sink.mu.Lock()
	l.sink.level = level
	l.sink.mu.Unlock()
}

// With returns a logger that adds key to every entry. It shares the
// output and level of l.
func (l *Logger) With(key string, value any) *Logger {
	fields := make(map[string]any, len(l.fields)+1)
	for k, v := range l.fields {
		fields[k] = v
	}
	fields[key] = value
	return &Logger{sink: l.sink, fields: fields}
}

func (l *Logger) write(level LogLevel, format string, args []any) {
	s := l.sink
	s.mu.Lock()
	defer s.mu.Unlock()
	if level > s.level {
		return
	}
	entry := make(map[string]any, len(l.fields)+3)
	for k, v := range l.fields {
		entry[k] = v
	}
	if s.now != nil {
		entry["time"] = s.now().Format(time.RFC3339)
	}
	entry["level"] = level.String()
	entry["msg"] = fmt.Sprintf(format, args...)
	line, err := json.Marshal(entry)
	if err != nil {
		line, _ = json.Marshal(map[string]string{"level": level.String(), "msg": entry["msg"].(string), "error": err.Error()})
	}
	_, _ = s.out.Write(append(line, '\n'))
}

func (l *Logger) Error(format string, args ...any) { l.write(LogLevelError, format, args) }
func (l *Logger) Warn(format string, args ...any)  { l.write(LogLevelWarn, format, args) }
func (l *Logger) Info(format string, args ...any)  { l.write(LogLevelInfo, format, args) }
func (l *Logger) Debug(format string, args ...any) { l.write(LogLevelDebug, format, args) }
func (l *Logger) Trace(format string, args ...any) { l.write(LogLevelTrace, format, args) }

// SetLevel changes the default logger's level and records the change.
func SetLevel(level LogLevel) {
	std.SetLevel(level)
	std.Info("log level set to %s", level)
}

// SetOutput redirects the default logger and every logger derived from it.
func SetOutput(w io.Writer) {
	std.sink.mu.Lock()
	std.sink.out = w
	std.sink.mu.Unlock()
}

// With derives a logger from the default one.
func With(key string, value any) *Logger { return std.With(key, value) }

func Error(format string, args ...any) { std.write(LogLevelError, format, args) }
func Warn(format string, args ...any)  { std.write(LogLevelWarn, format, args) }
func Info(format string, args ...any)  { std.write(LogLevelInfo, format, args) }
func Debug(format string, args ...any) { std.write(LogLevelDebug, format, args) }
func Trace(format string, args ...any) { std.write(LogLevelTrace, format, args) }

// Fatal logs at error level and exits.
func Fatal(format string, args ...any) {
	std.write(LogLevelError, format, args)
	os.Exit(1)
}
