package logging

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
		ok   bool
	}{
		{in: "", want: zapcore.InfoLevel, ok: true},
		{in: "DEBUG", want: zapcore.DebugLevel, ok: true},
		{in: " warn ", want: zapcore.WarnLevel, ok: true},
		{in: "error", want: zapcore.ErrorLevel, ok: true},
		{in: "chatty", ok: false},
	}
	for _, tc := range tests {
		got, err := ParseLevel(tc.in)
		if (err == nil) != tc.ok {
			t.Fatalf("ParseLevel(%q) error = %v, want ok=%v", tc.in, err, tc.ok)
		}
		if tc.ok && got != tc.want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestNew_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "clockctl.log")

	logger, err := New(Options{Level: "debug", Path: path})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Named("stream").Debug("frame dropped", zap.String("session", "abc"))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(string(data))), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, data)
	}
	if entry["message"] != "frame dropped" || entry["severity"] != "debug" {
		t.Fatalf("entry = %v, want message/severity keys", entry)
	}
	if entry["logger"] != "stream" || entry["session"] != "abc" {
		t.Fatalf("entry = %v, want logger=stream session=abc", entry)
	}
}

func TestNew_RejectsUnknownLevel(t *testing.T) {
	if _, err := New(Options{Level: "loud"}); err == nil {
		t.Fatalf("New returned nil error for unknown level")
	}
}

func TestContext(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fallback := FromContext(ctx)
	if fallback == nil {
		t.Fatal("logger cannot be nil")
	}

	logger := zap.NewExample()
	ctx = WithLogger(ctx, logger)
	if got := FromContext(ctx); got != logger {
		t.Errorf("expected %#v got %#v", logger, got)
	}
}
