package debug

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestWithDebug(t *testing.T) {
	ctx := WithDebug(context.Background(), true)
	if !IsEnabled(ctx) {
		t.Error("IsEnabled should return true when debug is enabled")
	}
	if IsEnabled(WithDebug(ctx, false)) {
		t.Error("IsEnabled should return false when debug is disabled")
	}
}

func TestIsEnabled_DefaultFalse(t *testing.T) {
	if IsEnabled(context.Background()) {
		t.Error("IsEnabled should return false by default")
	}
}

func TestSetupLogger(t *testing.T) {
	SetupLogger(true)
	if !slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		t.Error("SetupLogger(true) should enable debug level logging")
	}

	SetupLogger(false)
	if slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		t.Error("SetupLogger(false) should disable debug level logging")
	}
	if !slog.Default().Enabled(context.Background(), slog.LevelWarn) {
		t.Error("SetupLogger(false) should enable warn level logging")
	}
}

func TestNewLogger_JSONRedactsToken(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, true, FormatJSON)
	logger.Debug("request complete", "token", "abc123", "status", 200)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%s)", err, buf.String())
	}
	if entry["token"] != "[redacted]" {
		t.Errorf("token = %v, want [redacted]", entry["token"])
	}
	if entry["msg"] != "request complete" {
		t.Errorf("msg = %v", entry["msg"])
	}
}

func TestNewLogger_TextDefault(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(&buf, false, "").Warn("careful", "token", "abc123")
	out := buf.String()
	if !strings.Contains(out, "msg=careful") || strings.Contains(out, "abc123") {
		t.Errorf("unexpected output: %s", out)
	}
}
