package logging_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"karigari/internal/logging"
)

func TestNewJSONFormatEmitsFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "debug", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	logger.Info("ready", logging.FieldComponent, "backend", logging.FieldSlot, "chat-send")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if record[logging.FieldComponent] != "backend" {
		t.Fatalf("missing component field: %v", record)
	}
	if record[logging.FieldSlot] != "chat-send" {
		t.Fatalf("missing slot field: %v", record)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "error", Format: "console", Output: &buf})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	logger.Info("hidden")
	logger.Error("visible")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatal("info line should have been filtered")
	}
	if !strings.Contains(out, "visible") {
		t.Fatal("error line missing")
	}
}

func TestNopDiscards(t *testing.T) {
	logger := logging.Nop()
	logger.Error("nothing happens")
}
