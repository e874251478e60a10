package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestNewWithWriter(t *testing.T) {
	t.Run("emits JSON with service attr", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewWithWriter(&buf, "inventory", "info")

		logger.Info("order received", "task_id", "fetch-1")

		var entry map[string]any
		if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
			t.Fatalf("Log line is not JSON: %v", err)
		}
		if entry["service"] != "inventory" {
			t.Errorf("service = %v, want inventory", entry["service"])
		}
		if entry["task_id"] != "fetch-1" {
			t.Errorf("task_id = %v, want fetch-1", entry["task_id"])
		}
	})

	t.Run("respects level filtering", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewWithWriter(&buf, "robot", "warn")

		logger.Info("suppressed")
		if buf.Len() != 0 {
			t.Errorf("Info logged at warn level: %s", buf.String())
		}

		logger.Warn("kept")
		if buf.Len() == 0 {
			t.Error("Warn suppressed at warn level")
		}
	})
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
