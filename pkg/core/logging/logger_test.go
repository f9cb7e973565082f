package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	mdwlog "github.com/msto63/mAF/foundation/core/log"
	"github.com/msto63/mAF/pkg/core/config"
)

func TestNew(t *testing.T) {
	logger := New("test-service")

	if logger == nil {
		t.Fatal("New() returned nil")
	}
	if logger.Name() != "test-service" {
		t.Errorf("name = %v, want test-service", logger.Name())
	}
}

func TestLogger_Named(t *testing.T) {
	var buf bytes.Buffer
	root := Wrap("maf", mdwlog.New().WithOutput(&buf).WithFormat(mdwlog.FormatText))
	child := root.Named("frege-http")

	if child.Name() != "frege-http" {
		t.Errorf("Name() = %q, want frege-http", child.Name())
	}

	root.SetLevel(mdwlog.LevelWarn)
	child.Info("dropped")
	child.Warn("kept")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Errorf("child ignored the root level: %q", out)
	}
	if !strings.Contains(out, "{frege-http} kept") {
		t.Errorf("output = %q, want the child name", out)
	}
}

func TestLogger_KeyValues(t *testing.T) {
	var buf bytes.Buffer
	logger := Wrap("kv", NewLogger(LoggerConfig{
		ServiceName:       "kv",
		Level:             "debug",
		Format:            "json",
		Output:            "stdout",
		AdditionalOutputs: []io.Writer{&buf},
	}))

	logger.Info("parsed", "statements", 3, "errors", 0, "orphan")

	var entry map[string]interface{}
	line := strings.TrimSpace(buf.String())
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, line)
	}

	if entry["message"] != "parsed" {
		t.Errorf("message = %v", entry["message"])
	}
	if entry["logger"] != "kv" {
		t.Errorf("logger = %v", entry["logger"])
	}
	if entry["statements"] != float64(3) || entry["errors"] != float64(0) {
		t.Errorf("entry = %v", entry)
	}
	if _, ok := entry["orphan"]; ok {
		t.Error("orphan key should be dropped")
	}
}

func TestDefaultLoggerConfig(t *testing.T) {
	cfg := DefaultLoggerConfig("my-service")

	if cfg.ServiceName != "my-service" {
		t.Errorf("ServiceName = %v, want my-service", cfg.ServiceName)
	}
	if cfg.Level != "info" {
		t.Errorf("Level = %v, want info", cfg.Level)
	}
	if cfg.Format != "console" || cfg.Output != "stderr" {
		t.Errorf("Format/Output = %v/%v", cfg.Format, cfg.Output)
	}
}

func TestFromConfig(t *testing.T) {
	cfg := FromConfig("maf", config.LoggingConfig{Level: "debug", Format: "text", Output: "stdout"})

	if cfg.ServiceName != "maf" || cfg.Level != "debug" || cfg.Format != "text" || cfg.Output != "stdout" {
		t.Errorf("FromConfig() = %+v", cfg)
	}
}

func TestNewLogger_Levels(t *testing.T) {
	tests := []struct {
		input    string
		expected mdwlog.Level
	}{
		{"trace", mdwlog.LevelTrace},
		{"debug", mdwlog.LevelDebug},
		{"info", mdwlog.LevelInfo},
		{"warning", mdwlog.LevelWarn},
		{"error", mdwlog.LevelError},
		{"invalid", mdwlog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			logger := NewLogger(LoggerConfig{Level: tt.input, Format: "bogus"})
			if logger.GetLevel() != tt.expected {
				t.Errorf("level = %v, want %v", logger.GetLevel(), tt.expected)
			}
		})
	}
}

func TestNewLogger_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "maf.log")
	logger := NewLogger(LoggerConfig{ServiceName: "file", Format: "text", Output: path})

	logger.Warn("written to file")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(data), "[WRN] {file} written to file") {
		t.Errorf("log file = %q", string(data))
	}
}

func TestToFields(t *testing.T) {
	if fields := toFields(); fields != nil {
		t.Error("toFields() with no args should return nil")
	}

	fields := toFields("key1", "value1", "key2", 42)
	if fields["key1"] != "value1" {
		t.Errorf("fields[key1] = %v, want value1", fields["key1"])
	}
	if fields["key2"] != 42 {
		t.Errorf("fields[key2] = %v, want 42", fields["key2"])
	}

	fields = toFields(123, "value")
	if len(fields) != 0 {
		t.Errorf("Non-string key should be skipped, got %v fields", len(fields))
	}

	fields = toFields("error", errors.New("database is locked"))
	if fields["error"] != "database is locked" {
		t.Errorf("fields[error] = %#v, want the error message", fields["error"])
	}
}

func BenchmarkLogger_Info(b *testing.B) {
	logger := Wrap("benchmark", mdwlog.Discard())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Info("benchmark message", "iteration", i)
	}
}
