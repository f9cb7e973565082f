package tui

import (
	"github.com/msto63/mAF/internal/frege/service"
)

// Message types for tea.Cmd async operations

// tokenizeDoneMsg is sent when a line has been tokenized
type tokenizeDoneMsg struct {
	input  string
	result *service.TokenizeResult
	err    error
}

// parseDoneMsg is sent when a line has been parsed
type parseDoneMsg struct {
	input  string
	result *service.ParseResult
	err    error
}
