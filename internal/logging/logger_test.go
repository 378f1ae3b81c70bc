package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestNew_JSONCarriesSessionAndLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "info", Format: "json", Output: &buf, SessionID: "abc"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("images discovered", "count", 12)
	logger.Debug("hidden")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one line at info level, got %d: %q", len(lines), buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec[FieldSessionID] != "abc" || rec["level"] != "info" || rec["msg"] != "images discovered" {
		t.Fatalf("unexpected record %v", rec)
	}
	if _, ok := rec["ts"]; !ok {
		t.Fatalf("expected ts key, got %v", rec)
	}
}

func TestNew_AutoFallsBackToJSONForBuffers(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Format: "auto", Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("hello")
	if !strings.HasPrefix(strings.TrimSpace(buf.String()), "{") {
		t.Fatalf("non-terminal output should be JSON, got %q", buf.String())
	}
}

func TestNew_GeneratesSessionID(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Format: "console", Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Warn("audio disabled")
	out := buf.String()
	if !strings.Contains(out, FieldSessionID+"=") || !strings.Contains(out, "level=WARN") {
		t.Fatalf("unexpected console line %q", out)
	}
}

func TestNew_DebugAddsSource(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "debug", Format: "console", Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Debug("probe stopped")
	if !strings.Contains(buf.String(), "logger_test.go:") {
		t.Fatalf("expected caller in debug output, got %q", buf.String())
	}
}

func TestNew_RejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

type captureHandler struct {
	level   slog.Level
	records []slog.Record
}

func (h *captureHandler) Enabled(_ context.Context, l slog.Level) bool { return l >= h.level }

func (h *captureHandler) Handle(_ context.Context, r slog.Record) error {
	h.records = append(h.records, r)
	return nil
}

func (h *captureHandler) WithAttrs([]slog.Attr) slog.Handler { return h }

func (h *captureHandler) WithGroup(string) slog.Handler { return h }

func TestTeeLogger_RespectsEachLevel(t *testing.T) {
	var buf bytes.Buffer
	base, err := New(Options{Level: "warn", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	panel := &captureHandler{level: slog.LevelInfo}
	logger := TeeLogger(base, panel)

	logger.Info("tile opened")
	logger.Warn("texture load failed")

	if len(panel.records) != 2 {
		t.Fatalf("panel should see both records, got %d", len(panel.records))
	}
	if n := strings.Count(buf.String(), "\n"); n != 1 {
		t.Fatalf("base should only see the warning, got %d lines", n)
	}
}

func TestNewComponentLogger_NilIsNop(t *testing.T) {
	logger := NewComponentLogger(nil, "grid")
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Fatal("nil base should produce a discarding logger")
	}
}

func TestSessionIDHandler_NilBase(t *testing.T) {
	if _, ok := newSessionIDHandler(nil, "x").(NoopHandler); !ok {
		t.Fatal("nil base should become a NoopHandler")
	}
}
