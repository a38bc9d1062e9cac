// internal/logging/logging_test.go
package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/tamzrod/modbus-gauge/internal/config"
)

func TestNew_JSONAndLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(config.LogConfig{Level: "warn", Format: "json"}, &buf)

	log.Info().Msg("hidden")
	log.Warn().Str("target", "cost").Msg("poll failed")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d: %q", len(lines), buf.String())
	}

	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("not json: %v", err)
	}
	if rec["level"] != "warn" || rec["target"] != "cost" || rec["message"] != "poll failed" {
		t.Fatalf("unexpected record: %v", rec)
	}
}

func TestNew_BadLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(config.LogConfig{Level: "chatty", Format: "json"}, &buf)

	log.Debug().Msg("hidden")
	log.Info().Msg("shown")

	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}

func TestNew_ConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(config.LogConfig{Level: "info", Format: "console"}, &buf)
	log.Info().Msg("started")

	if strings.HasPrefix(buf.String(), "{") || !strings.Contains(buf.String(), "started") {
		t.Fatalf("expected console output, got %q", buf.String())
	}
}
