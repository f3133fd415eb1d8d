// ABOUTME: Tests for logger construction.
// ABOUTME: Checks level parsing, JSON output and the process-wide default.
package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewDefaultsToWarn(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Output: &buf})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logger.Info("hidden")
	logger.Warn("shown", "source", "Hevy")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message should be filtered at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "Hevy") {
		t.Errorf("expected warn message with key/values, got %q", out)
	}
}

func TestNewParsesLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "DEBUG", Output: &buf})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	logger.Debug("details")
	if !strings.Contains(buf.String(), "details") {
		t.Errorf("expected debug output, got %q", buf.String())
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := New(Options{Level: "loud"}); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "info", JSON: true, Output: &buf})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	logger.Info("loaded", "rows", 3)
	if !strings.Contains(buf.String(), `"rows":3`) {
		t.Errorf("expected JSON key/value, got %q", buf.String())
	}
}

func TestInitSetsGlobal(t *testing.T) {
	var buf bytes.Buffer
	logger, err := Init(Options{Level: "info", Output: &buf})
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if Get() != logger {
		t.Error("Get should return the logger installed by Init")
	}
}
