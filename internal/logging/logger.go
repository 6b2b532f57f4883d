// Package logging writes one JSON object per line: level, ts, msg and the
// caller's fields.
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

type Fields map[string]interface{}

type Level int32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	}
	return "info"
}

// ParseLevel accepts debug, info, warn or error in any case.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

var (
	mu        sync.Mutex
	out       io.Writer = os.Stderr
	threshold atomic.Int32
	now       = time.Now
)

func init() { threshold.Store(int32(LevelInfo)) }

// SetLevel drops entries below l. Fatal is always written.
func SetLevel(l Level) { threshold.Store(int32(l)) }

// SetOutput redirects log lines, mostly for tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	out = w
	mu.Unlock()
}

func output(level string, msg string, fields Fields) {
	entry := make(Fields, len(fields)+3)
	for k, v := range fields {
		entry[k] = v
	}
	entry["level"] = level
	entry["ts"] = now().UTC().Format(time.RFC3339)
	entry["msg"] = msg
	b, err := json.Marshal(entry)
	if err != nil {
		// fallback to plain logging
		b = []byte(fmt.Sprintf(`{"level":%q,"msg":%q,"fields":%q}`, level, msg, fmt.Sprint(fields)))
	}
	mu.Lock()
	defer mu.Unlock()
	_, _ = out.Write(append(b, '\n'))
}

func enabled(l Level) bool { return int32(l) >= threshold.Load() }

func Debug(msg string, fields Fields) {
	if enabled(LevelDebug) {
		output("debug", msg, fields)
	}
}

// Info logs an informational message with optional fields.
func Info(msg string, fields Fields) {
	if enabled(LevelInfo) {
		output("info", msg, fields)
	}
}

// Warn logs a recoverable problem that needs no immediate action.
func Warn(msg string, fields Fields) {
	if enabled(LevelWarn) {
		output("warn", msg, fields)
	}
}

// Error logs an error message and includes the error text in the fields.
func Error(msg string, err error, fields Fields) {
	if enabled(LevelError) {
		output("error", msg, withError(fields, err))
	}
}

// Fatal logs a fatal error and exits the process.
func Fatal(msg string, err error, fields Fields) {
	output("fatal", msg, withError(fields, err))
	os.Exit(1)
}

func withError(fields Fields, err error) Fields {
	if err == nil {
		return fields
	}
	f := make(Fields, len(fields)+1)
	for k, v := range fields {
		f[k] = v
	}
	f["error"] = err.Error()
	return f
}
