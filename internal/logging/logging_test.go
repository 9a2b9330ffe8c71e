package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew_TextFormat(t *testing.T) {
	logger := New("info", "text")
	if logger == nil {
		t.Fatal("New() returned nil")
	}

	// Logger should be functional
	logger.Info("test message")
}

func TestNew_JSONFormat(t *testing.T) {
	logger := New("info", "json")
	if logger == nil {
		t.Fatal("New() returned nil")
	}

	logger.Info("test message")
}

func TestNew_LogLevels(t *testing.T) {
	levels := []string{"debug", "info", "warn", "error", "invalid"}
	for _, level := range levels {
		logger := New(level, "text")
		if logger == nil {
			t.Errorf("New(%s, text) returned nil", level)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"WARN", slog.LevelWarn},
		{"invalid", slog.LevelInfo}, // default
		{"", slog.LevelInfo},        // default
	}

	for _, tt := range tests {
		got := ParseLevel(tt.input)
		if got != tt.expected {
			t.Errorf("ParseLevel(%s) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestZapLevel(t *testing.T) {
	tests := []struct {
		input    slog.Level
		expected zapcore.Level
	}{
		{slog.LevelDebug, zapcore.DebugLevel},
		{slog.LevelInfo, zapcore.InfoLevel},
		{slog.LevelWarn, zapcore.WarnLevel},
		{slog.LevelError, zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		if got := zapLevel(tt.input); got != tt.expected {
			t.Errorf("zapLevel(%v) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestNewWithWriter_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "warn", "text")

	// Info should be filtered out
	logger.Info("should not appear")
	if strings.Contains(buf.String(), "should not appear") {
		t.Error("Info message should be filtered at warn level")
	}

	// Warn should appear
	logger.Warn("should appear")
	if !strings.Contains(buf.String(), "should appear") {
		t.Error("Warn message should appear at warn level")
	}
}

func TestNewWithWriter_JSONFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "info", "json")

	logger.Info("request handled", "status", 200, "path", "/api/tts")

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("output is not JSON: %v: %s", err, buf.String())
	}
	if entry["msg"] != "request handled" {
		t.Errorf("msg = %v, want 'request handled'", entry["msg"])
	}
	if entry["path"] != "/api/tts" {
		t.Errorf("path = %v, want /api/tts", entry["path"])
	}
	if entry["status"] != float64(200) {
		t.Errorf("status = %v, want 200", entry["status"])
	}
}
