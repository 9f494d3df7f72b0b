package dpd

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestLoggerWithWriterEmitsJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf)

	logger.Info("request complete", "endpoint", "drugproduct", "status", 200)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not JSON: %v (%s)", err, buf.String())
	}
	if entry["message"] != "request complete" {
		t.Errorf("message = %v", entry["message"])
	}
	if entry["endpoint"] != "drugproduct" {
		t.Errorf("endpoint field = %v", entry["endpoint"])
	}
	if entry["component"] != "dpd" {
		t.Errorf("component field = %v", entry["component"])
	}
	if entry["level"] != "info" {
		t.Errorf("level = %v", entry["level"])
	}
}

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf)

	logger.Debug("d")
	logger.Warn("w")
	logger.Error("e")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	if len(lines) != 3 {
		t.Fatalf("expected 3 log lines, got %d", len(lines))
	}
	for i, want := range []string{"debug", "warn", "error"} {
		var entry map[string]any
		if err := json.Unmarshal(lines[i], &entry); err != nil {
			t.Fatalf("line %d not JSON: %v", i, err)
		}
		if entry["level"] != want {
			t.Errorf("line %d level = %v, want %s", i, entry["level"], want)
		}
	}
}

func TestLoggerSkipsMalformedPairs(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf)

	// Odd trailing value and a non-string key must not panic or leak.
	logger.Info("msg", "ok", 1, 42, "ignored", "dangling")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not JSON: %v", err)
	}
	if entry["ok"] != float64(1) {
		t.Errorf("ok field = %v, want 1", entry["ok"])
	}
	if _, present := entry["dangling"]; present {
		t.Error("dangling value must be dropped")
	}
}
