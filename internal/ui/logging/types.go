package logging

import (
	"context"
	"time"
)

// LogProvider abstracts the mechanism for producing log lines (polling, a
// single fetch, etc.). It's framework-agnostic and can be used from Cobra
// commands, Bubbletea models, or anywhere else.
type LogProvider interface {
	// Collect fetches logs and invokes callback with batches of log entries.
	// Returns when context is cancelled, an error occurs, or the log is
	// known complete. If callback returns an error, collection stops
	// immediately.
	Collect(ctx context.Context, callback func([]Log) error) error
}

// Log is a single build log line
type Log struct {
	// Timestamp is when the line was written
	Timestamp time.Time

	// StepID is the owning step, empty for build-level lines
	StepID string

	// Content is the line text
	Content string
}
