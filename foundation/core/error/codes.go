// File: codes.go
// Title: Error Codes
// Description: Defines the structured error codes used across mAF. Codes
//              are stable strings so they can travel through logs, the
//              history store and RPC responses unchanged.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial code set for the monkey language tooling

package error

// Code represents a structured error code for categorizing errors
type Code string

const (
	// Generic codes
	CodeUnknown      Code = "UNKNOWN"
	CodeInternal     Code = "INTERNAL"
	CodeNotFound     Code = "NOT_FOUND"
	CodeInvalidInput Code = "INVALID_INPUT"

	// Language front end
	CodeMonkeySyntax     Code = "MONKEY_SYNTAX"
	CodeValidationFailed Code = "VALIDATION_FAILED"

	// Infrastructure
	CodeDatabaseError      Code = "DATABASE_ERROR"
	CodeConfigError        Code = "CONFIG_ERROR"
	CodeServiceUnavailable Code = "SERVICE_UNAVAILABLE"
)

// String returns the string representation of the error code
func (c Code) String() string {
	return string(c)
}
