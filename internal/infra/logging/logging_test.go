//go:build !integration

package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"activation-admin/internal/config"
)

func TestNewWithWriter_JSONCarriesContextFields(t *testing.T) {
	var buf bytes.Buffer
	base := NewWithWriter(config.LogConfig{Level: "debug", Format: "json"}, false, &buf)

	ctx := WithOperator(WithTraceID(context.Background(), "trace-1"), "admin@ramadan.app")
	With(ctx, base).Info().Msg("hello")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("log line is not json: %v (%s)", err, buf.String())
	}
	if line["trace_id"] != "trace-1" || line["operator"] != "admin@ramadan.app" {
		t.Errorf("context fields missing: %v", line)
	}
	if line["message"] != "hello" {
		t.Errorf("unexpected message field: %v", line)
	}
}

func TestNewWithWriter_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(config.LogConfig{Level: "warn"}, false, &buf)
	l.Info().Msg("dropped")
	if buf.Len() != 0 {
		t.Errorf("info should be filtered at warn level, got %s", buf.String())
	}
	l.Warn().Msg("kept")
	if buf.Len() == 0 {
		t.Error("warn should be written")
	}
}

func TestRedact(t *testing.T) {
	if got := Redact("+221771234567", false); got != "+221...67" {
		t.Errorf("unexpected redaction %q", got)
	}
	if got := Redact("short", false); got != "***" {
		t.Errorf("unexpected redaction %q", got)
	}
	if got := Redact("+221771234567", true); got != "+221771234567" {
		t.Errorf("dev mode should not redact, got %q", got)
	}
}
