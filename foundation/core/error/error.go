// File: error.go
// Title: Structured Error Type
// Description: The mAF error type carrying a code, a severity, free-form
//              details and the failing operation. Used at the
//              edges of the language core (service, RPC, CLI) where parse
//              diagnostics are turned into a single error value.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package error

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Error is a coded error with severity, details and the failing operation.
// The With* methods modify the receiver and return it for chaining.
type Error struct {
	message   string
	cause     error
	code      Code
	severity  Severity
	pinned    bool // severity set explicitly, WithCode leaves it alone
	operation string
	details   map[string]interface{}
}

// New creates an error with CodeUnknown and SeverityMedium
func New(message string) *Error {
	return &Error{message: message, code: CodeUnknown, severity: SeverityMedium}
}

// Newf is New with a formatted message
func Newf(format string, args ...interface{}) *Error {
	return New(fmt.Sprintf(format, args...))
}

// Wrap puts message in front of err. Code and severity of a wrapped *Error
// carry over. Wrap(nil, ...) is nil.
func Wrap(err error, message string) *Error {
	if err == nil {
		return nil
	}

	wrapped := New(message)
	wrapped.cause = err

	var inner *Error
	if errors.As(err, &inner) {
		wrapped.code = inner.code
		wrapped.severity = inner.severity
	}
	return wrapped
}

func (e *Error) Error() string {
	if e.cause == nil {
		return e.message
	}
	return e.message + ": " + e.cause.Error()
}

func (e *Error) Unwrap() error { return e.cause }

// WithCode sets the code and, unless WithSeverity came first, the
// severity that belongs to it.
func (e *Error) WithCode(code Code) *Error {
	e.code = code
	if !e.pinned {
		e.severity = GetSeverityFromCode(code)
	}
	return e
}

func (e *Error) WithSeverity(severity Severity) *Error {
	e.severity = severity
	e.pinned = true
	return e
}

func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.details == nil {
		e.details = make(map[string]interface{})
	}
	e.details[key] = value
	return e
}

func (e *Error) WithDetails(details map[string]interface{}) *Error {
	for k, v := range details {
		e.WithDetail(k, v)
	}
	return e
}

func (e *Error) WithOperation(operation string) *Error {
	e.operation = operation
	return e
}

func (e *Error) Message() string    { return e.message }
func (e *Error) Code() Code         { return e.code }
func (e *Error) Severity() Severity { return e.severity }
func (e *Error) Operation() string  { return e.operation }

// Details returns a copy of the details
func (e *Error) Details() map[string]interface{} {
	out := make(map[string]interface{}, len(e.details))
	for k, v := range e.details {
		out[k] = v
	}
	return out
}

// String renders every field on its own line, details sorted by key
func (e *Error) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Error: %s\nCode: %s\nSeverity: %s", e.message, e.code, e.severity)
	if e.operation != "" {
		fmt.Fprintf(&b, "\nOperation: %s", e.operation)
	}
	if len(e.details) > 0 {
		keys := make([]string, 0, len(e.details))
		for k := range e.details {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		b.WriteString("\nDetails: {")
		for i, k := range keys {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s=%v", k, e.details[k])
		}
		b.WriteByte('}')
	}
	if e.cause != nil {
		fmt.Fprintf(&b, "\nCause: %s", e.cause)
	}
	return b.String()
}

type jsonError struct {
	Message   string                 `json:"message"`
	Code      Code                   `json:"code"`
	Severity  string                 `json:"severity"`
	Operation string                 `json:"operation,omitempty"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Cause     string                 `json:"cause,omitempty"`
}

// MarshalJSON is picked up by the JSON log formatter as error_details
func (e *Error) MarshalJSON() ([]byte, error) {
	out := jsonError{
		Message:   e.message,
		Code:      e.code,
		Severity:  e.severity.String(),
		Operation: e.operation,
		Details:   e.details,
	}
	if e.cause != nil {
		out.Cause = e.cause.Error()
	}
	return json.Marshal(out)
}

func find(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// HasCode reports whether the first *Error in err's chain has code
func HasCode(err error, code Code) bool {
	e, ok := find(err)
	return ok && e.code == code
}

// GetCode returns the code of the first *Error in the chain, CodeUnknown
// for foreign errors
func GetCode(err error) Code {
	if e, ok := find(err); ok {
		return e.code
	}
	return CodeUnknown
}

// GetSeverity returns the severity of the first *Error in the chain,
// SeverityMedium for foreign errors
func GetSeverity(err error) Severity {
	if e, ok := find(err); ok {
		return e.severity
	}
	return SeverityMedium
}
