package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
)

func decodeEntry(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	entry := make(map[string]interface{})
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to unmarshal log entry: %v", err)
	}
	return entry
}

func TestLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(InfoLevel, &buf)

	t.Run("debug not logged at info level", func(t *testing.T) {
		buf.Reset()
		logger.Debug("debug message")
		if buf.Len() > 0 {
			t.Error("Debug message should not be logged at Info level")
		}
	})

	t.Run("info logged at info level", func(t *testing.T) {
		buf.Reset()
		logger.Info("info message")
		if buf.Len() == 0 {
			t.Fatal("Info message should be logged at Info level")
		}

		entry := decodeEntry(t, &buf)
		if entry["level"] != "INFO" {
			t.Errorf("Expected level INFO, got %v", entry["level"])
		}
		if entry["msg"] != "info message" {
			t.Errorf("Expected message 'info message', got %v", entry["msg"])
		}
	})

	t.Run("error logged at info level", func(t *testing.T) {
		buf.Reset()
		logger.Error("error message")
		if buf.Len() == 0 {
			t.Error("Error message should be logged at Info level")
		}
	})
}

func TestLogger_WithField(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(InfoLevel, &buf)

	logger.WithField("subject", "user-value").Info("registered")

	entry := decodeEntry(t, &buf)
	if entry["subject"] != "user-value" {
		t.Errorf("Expected field 'subject' to be 'user-value', got %v", entry["subject"])
	}
}

func TestLogger_WithFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(InfoLevel, &buf)

	logger.WithFields(map[string]interface{}{
		"subject": "user-value",
		"version": 3,
	}).Info("registered")

	entry := decodeEntry(t, &buf)
	if entry["subject"] != "user-value" {
		t.Errorf("Expected field 'subject' to be 'user-value', got %v", entry["subject"])
	}
	if entry["version"] != float64(3) {
		t.Errorf("Expected field 'version' to be 3, got %v", entry["version"])
	}
}

func TestParseLogLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"debug":   DebugLevel,
		"info":    InfoLevel,
		"warn":    WarnLevel,
		"warning": WarnLevel,
		"error":   ErrorLevel,
		"bogus":   InfoLevel,
	}

	for input, expected := range cases {
		if got := ParseLogLevel(input); got != expected {
			t.Errorf("ParseLogLevel(%q) = %v, expected %v", input, got, expected)
		}
	}
}

func TestContext_RunID(t *testing.T) {
	ctx := context.Background()

	if GetRunID(ctx) != "" {
		t.Error("Expected empty run ID on fresh context")
	}

	ctx = WithRunID(ctx, "run-123")
	if GetRunID(ctx) != "run-123" {
		t.Errorf("Expected run ID 'run-123', got %q", GetRunID(ctx))
	}
}

func TestFromContext_CarriesRunID(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(InfoLevel, &buf)

	ctx := WithLogger(context.Background(), logger)
	ctx = WithRunID(ctx, "run-456")

	FromContext(ctx).Info("step")

	entry := decodeEntry(t, &buf)
	if entry["run_id"] != "run-456" {
		t.Errorf("Expected run_id 'run-456', got %v", entry["run_id"])
	}
}
