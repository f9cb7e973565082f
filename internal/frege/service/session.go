package service

import (
	"context"

	"github.com/google/uuid"
)

type sessionKey struct{}

// NewSessionID returns a fresh session identifier
func NewSessionID() string {
	return uuid.New().String()
}

// WithSession attaches a session ID to ctx; history entries recorded with
// this context are grouped under it.
func WithSession(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionKey{}, sessionID)
}

// SessionID returns the session attached to ctx, or ""
func SessionID(ctx context.Context) string {
	id, _ := ctx.Value(sessionKey{}).(string)
	return id
}
