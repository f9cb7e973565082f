// File: format.go
// Title: Log Output Formats
// Description: JSON, text and colored console formatters. JSON is meant
//              for `maf serve`, console for interactive use.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package log

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Format represents the output format for log messages
type Format int

const (
	FormatJSON    Format = iota // one object per line
	FormatText                  // plain single-line text
	FormatConsole               // text wrapped in the level color
)

var formatNames = map[Format]string{
	FormatJSON:    "json",
	FormatText:    "text",
	FormatConsole: "console",
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return "unknown"
}

// ParseFormat maps a config value to a Format. Empty selects JSON.
func ParseFormat(format string) (Format, error) {
	name := strings.ToLower(strings.TrimSpace(format))
	if name == "" {
		return FormatJSON, nil
	}
	for f, n := range formatNames {
		if n == name {
			return f, nil
		}
	}
	return FormatJSON, &ParseError{Input: format, Type: "format"}
}

// Formatter renders one entry, including the trailing newline
type Formatter interface {
	Format(entry *Entry) ([]byte, error)
}

// GetFormatter returns the formatter for a format
func GetFormatter(format Format) Formatter {
	switch format {
	case FormatText:
		return NewTextFormatter()
	case FormatConsole:
		return NewConsoleFormatter()
	default:
		return NewJSONFormatter()
	}
}

// JSONFormatter writes fields at the top level next to the reserved keys
// timestamp, level, message, logger, error and error_details.
type JSONFormatter struct {
	TimestampFormat string
}

func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{TimestampFormat: time.RFC3339}
}

func (f *JSONFormatter) Format(entry *Entry) ([]byte, error) {
	data := make(map[string]interface{}, len(entry.Fields)+6)
	for k, v := range entry.Fields {
		data[k] = v
	}

	data["timestamp"] = entry.Timestamp.Format(f.TimestampFormat)
	data["level"] = entry.Level.String()
	data["message"] = entry.Message
	if entry.Logger != "" {
		data["logger"] = entry.Logger
	}
	if entry.Error != nil {
		data["error"] = entry.Error.Error()
		if m, ok := entry.Error.(json.Marshaler); ok {
			if raw, err := m.MarshalJSON(); err == nil {
				data["error_details"] = json.RawMessage(raw)
			}
		}
	}

	out, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

// TextFormatter writes `15:04:05 [LVL] {logger} message [k=v ...] error="..."`
type TextFormatter struct {
	TimestampFormat  string
	DisableTimestamp bool
}

func NewTextFormatter() *TextFormatter {
	return &TextFormatter{TimestampFormat: "15:04:05"}
}

func (f *TextFormatter) Format(entry *Entry) ([]byte, error) {
	var b bytes.Buffer

	if !f.DisableTimestamp {
		b.WriteString(entry.Timestamp.Format(f.TimestampFormat))
		b.WriteByte(' ')
	}
	fmt.Fprintf(&b, "[%s] ", entry.Level.ShortString())
	if entry.Logger != "" {
		fmt.Fprintf(&b, "{%s} ", entry.Logger)
	}
	b.WriteString(entry.Message)

	if len(entry.Fields) > 0 {
		b.WriteString(" [")
		for i, k := range entry.Fields.SortedKeys() {
			if i > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(&b, "%s=%v", k, entry.Fields[k])
		}
		b.WriteByte(']')
	}
	if entry.Error != nil {
		fmt.Fprintf(&b, " error=%q", entry.Error.Error())
	}

	b.WriteByte('\n')
	return b.Bytes(), nil
}

// ConsoleFormatter is the text format wrapped in the level color
type ConsoleFormatter struct {
	DisableColors bool
	*TextFormatter
}

func NewConsoleFormatter() *ConsoleFormatter {
	return &ConsoleFormatter{TextFormatter: NewTextFormatter()}
}

func (f *ConsoleFormatter) Format(entry *Entry) ([]byte, error) {
	line, err := f.TextFormatter.Format(entry)
	if err != nil || f.DisableColors {
		return line, err
	}

	colored := make([]byte, 0, len(line)+12)
	colored = append(colored, entry.Level.Color()...)
	colored = append(colored, bytes.TrimRight(line, "\n")...)
	colored = append(colored, "\033[0m\n"...)
	return colored, nil
}
