package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() {
		SetOutput(nopWriter{})
		SetLevel(LevelInfo)
	})
	return &buf
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }

func TestErrorWritesJSONLine(t *testing.T) {
	buf := capture(t)
	fields := Fields{"battle_id": 3}
	Error("resolve failed", errors.New("boom"), fields)

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("not json: %v (%q)", err, buf.String())
	}
	if got["level"] != "error" || got["msg"] != "resolve failed" || got["error"] != "boom" {
		t.Fatalf("unexpected entry: %v", got)
	}
	if got["battle_id"] != float64(3) {
		t.Fatalf("field lost: %v", got)
	}
	if _, ok := fields["error"]; ok {
		t.Fatalf("caller fields were modified: %v", fields)
	}
}

func TestLevelThreshold(t *testing.T) {
	buf := capture(t)
	SetLevel(LevelWarn)
	Debug("d", nil)
	Info("i", nil)
	Warn("w", nil)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 || !strings.Contains(lines[0], `"msg":"w"`) {
		t.Fatalf("expected only the warning, got %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{"": LevelInfo, "DEBUG": LevelDebug, "warning": LevelWarn, "error": LevelError}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Fatalf("ParseLevel(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}
