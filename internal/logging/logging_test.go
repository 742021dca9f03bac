package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "warn", "json")
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	logger.Info().Msg("dropped")
	logger.Warn().Str("path", "/a.txt").Msg("kept")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %q", buf.String())
	}

	var event map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &event); err != nil {
		t.Fatalf("not json: %v", err)
	}
	if event["message"] != "kept" || event["path"] != "/a.txt" || event["level"] != "warn" {
		t.Fatalf("unexpected event %v", event)
	}
}

func TestNew_Console(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "", "console")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	logger.Info().Msg("hello")
	if !strings.Contains(buf.String(), "hello") {
		t.Fatalf("got %q", buf.String())
	}
}

func TestNew_Errors(t *testing.T) {
	if _, err := New(nil, "loud", "json"); err == nil {
		t.Fatalf("expected level error")
	}
	if _, err := New(nil, "info", "xml"); err == nil {
		t.Fatalf("expected format error")
	}
}
