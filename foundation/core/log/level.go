// File: level.go
// Title: Log Level Definitions
// Description: Severity levels used to filter log output. Names, short
//              tags and console colors live in one table indexed by the
//              level value.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation with standard log levels

package log

import (
	"fmt"
	"strings"
)

// Level represents the importance level of a log message
type Level int

const (
	LevelTrace Level = iota // token-by-token tracing
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

type levelInfo struct {
	name  string
	short string
	color string
}

var levels = [...]levelInfo{
	LevelTrace: {"trace", "TRC", "\033[37m"},
	LevelDebug: {"debug", "DBG", "\033[36m"},
	LevelInfo:  {"info", "INF", "\033[32m"},
	LevelWarn:  {"warn", "WRN", "\033[33m"},
	LevelError: {"error", "ERR", "\033[31m"},
	LevelFatal: {"fatal", "FTL", "\033[35m"},
}

var unknownLevel = levelInfo{"unknown", "???", "\033[0m"}

func (l Level) info() levelInfo {
	if l < LevelTrace || l > LevelFatal {
		return unknownLevel
	}
	return levels[l]
}

// String returns the lower-case level name used in JSON output and config
func (l Level) String() string { return l.info().name }

// ShortString returns the three-letter tag used in text output
func (l Level) ShortString() string { return l.info().short }

// Color returns the ANSI color sequence for console output
func (l Level) Color() string { return l.info().color }

// ShouldLog reports whether a message at l passes the minimum level
func (l Level) ShouldLog(minLevel Level) bool {
	return l >= minLevel
}

// ParseLevel accepts the level names plus "warning"; empty means info
func ParseLevel(level string) (Level, error) {
	name := strings.ToLower(strings.TrimSpace(level))
	switch name {
	case "":
		return LevelInfo, nil
	case "warning":
		return LevelWarn, nil
	}

	for l, info := range levels {
		if info.name == name {
			return Level(l), nil
		}
	}
	return LevelInfo, &ParseError{Input: level, Type: "level"}
}

// DefaultLevel returns the level used by loggers created with New
func DefaultLevel() Level {
	return LevelInfo
}

// ParseError is returned when a level or format name is not recognized
type ParseError struct {
	Input string
	Type  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid log %s: %q", e.Type, e.Input)
}
