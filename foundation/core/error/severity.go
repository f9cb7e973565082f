// File: severity.go
// Title: Error Severity Levels
// Description: Severity levels used to pick the log level of an error and
//              to decide whether a failure is user-facing or operational.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package error

// Severity represents the severity level of an error
type Severity int

const (
	// SeverityLow marks errors caused by user input, e.g. syntax errors
	SeverityLow Severity = iota

	// SeverityMedium is the default for errors without a more specific code
	SeverityMedium

	// SeverityHigh marks failing infrastructure such as the history database
	SeverityHigh

	// SeverityCritical marks errors that leave the process unusable
	SeverityCritical
)

var severityNames = [...]string{"low", "medium", "high", "critical"}

func (s Severity) String() string {
	if s < SeverityLow || s > SeverityCritical {
		return "unknown"
	}
	return severityNames[s]
}

// codeSeverity lists every code that does not default to SeverityMedium
var codeSeverity = map[Code]Severity{
	CodeInvalidInput:       SeverityLow,
	CodeNotFound:           SeverityLow,
	CodeMonkeySyntax:       SeverityLow,
	CodeValidationFailed:   SeverityLow,
	CodeInternal:           SeverityHigh,
	CodeDatabaseError:      SeverityHigh,
	CodeConfigError:        SeverityHigh,
	CodeServiceUnavailable: SeverityCritical,
}

// GetSeverityFromCode returns the severity WithCode assigns for code
func GetSeverityFromCode(code Code) Severity {
	if s, ok := codeSeverity[code]; ok {
		return s
	}
	return SeverityMedium
}
