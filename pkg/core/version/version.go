// ============================================================================
// meinAFFE (mAF) - Monkey-Sprachwerkzeuge
// ============================================================================
//
// Package:     version
// Description: Central version management for binaries and services
// Author:      msto63
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package version

import (
	"fmt"
	"runtime"
)

// Version constants for all mAF components
const (
	// Platform version
	Platform = "0.1.0"

	// Component versions
	Frege = "0.1.0"
	REPL  = "0.1.0"
	TUI   = "0.1.0"
)

// Set via -ldflags "-X github.com/msto63/mAF/pkg/core/version.Commit=..."
var (
	Commit    = "unknown"
	BuildDate = "unknown"
)

// ServiceVersion returns the version for a given component name
func ServiceVersion(name string) string {
	switch name {
	case "frege":
		return Frege
	case "repl":
		return REPL
	case "tui":
		return TUI
	default:
		return Platform
	}
}

// String returns the one-line version banner printed by `maf version`
func String() string {
	return fmt.Sprintf("mAF %s (commit %s, built %s, %s %s/%s)",
		Platform, Commit, BuildDate, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
