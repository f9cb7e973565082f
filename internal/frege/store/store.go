// ============================================================================
// meinAFFE (mAF) - Monkey-Sprachwerkzeuge
// ============================================================================
//
// Package:     store
// Description: History of tokenize and parse requests
// Author:      msto63
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package store

import (
	"context"
	"time"
)

// Mode identifies what was done with an input line
type Mode string

const (
	ModeTokens Mode = "tokens"
	ModeParse  Mode = "parse"
)

// Valid reports whether m is a known mode
func (m Mode) Valid() bool {
	return m == ModeTokens || m == ModeParse
}

// Entry is one recorded request
type Entry struct {
	ID         string    `json:"id"`
	SessionID  string    `json:"session_id"`
	Mode       Mode      `json:"mode"`
	Input      string    `json:"input"`
	Output     string    `json:"output"`
	ErrorCount int       `json:"error_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// Filter defines criteria for listing history. Zero values match all.
type Filter struct {
	SessionID  string
	Mode       Mode
	OnlyFailed bool
	Limit      int
}

// Store defines the interface for history persistence
type Store interface {
	Save(ctx context.Context, entry *Entry) error
	Query(ctx context.Context, filter Filter) ([]*Entry, error)
	Count(ctx context.Context, filter Filter) (int, error)
	Prune(ctx context.Context, olderThan time.Duration) (int64, error)
	Ping(ctx context.Context) error
	Close() error
}
