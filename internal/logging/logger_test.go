package logging

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func newCapture() (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	l := New()
	l.SetOutput(log.New(&buf, "", 0))
	return l, &buf
}

func TestLevelFiltering(t *testing.T) {
	l, buf := newCapture()

	l.Debug("hidden")
	l.Info("also hidden")
	l.Warn("visible warn")
	l.Error("visible error")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("Expected debug/info to be filtered at default level, got %q", out)
	}
	if !strings.Contains(out, "WARN: visible warn") {
		t.Errorf("Expected warn entry, got %q", out)
	}
	if !strings.Contains(out, "ERROR: visible error") {
		t.Errorf("Expected error entry, got %q", out)
	}
}

func TestSetLevel(t *testing.T) {
	l, buf := newCapture()
	l.SetLevel(LevelDebug)

	l.Debug("now visible")
	if !strings.Contains(buf.String(), "DEBUG: now visible") {
		t.Errorf("Expected debug entry after SetLevel, got %q", buf.String())
	}
}

func TestWithFields(t *testing.T) {
	l, buf := newCapture()

	l.With("tool", "calendar_manager").Warn("dropped")

	out := buf.String()
	if !strings.Contains(out, "tool=calendar_manager") {
		t.Errorf("Expected context field in output, got %q", out)
	}
}

func TestInlineKeyVals(t *testing.T) {
	l, buf := newCapture()

	l.Warn("request failed", "status", 502, "detail", "bad gateway")

	out := buf.String()
	if !strings.Contains(out, "status=502") {
		t.Errorf("Expected status field, got %q", out)
	}
	if !strings.Contains(out, `detail="bad gateway"`) {
		t.Errorf("Expected quoted detail field, got %q", out)
	}
}

func TestWithDoesNotMutateParent(t *testing.T) {
	l, buf := newCapture()

	derived := l.With("sid", 42)
	l.Warn("plain")

	if strings.Contains(buf.String(), "sid=42") {
		t.Errorf("Parent logger picked up derived field: %q", buf.String())
	}

	buf.Reset()
	derived.Warn("tagged")
	if !strings.Contains(buf.String(), "sid=42") {
		t.Errorf("Derived logger lost its field: %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"error", LevelError},
		{" Debug ", LevelDebug},
		{"", LevelWarn},
		{"verbose", LevelWarn},
	}
	for _, tc := range tests {
		if got := ParseLevel(tc.in); got != tc.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
