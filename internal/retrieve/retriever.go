// Package retrieve reconstructs build logs from the remote log vault.
//
// A build's log events live in one or more streams named `<buildID>@<suffix>`
// inside a configured log group. Retrieval discovers the streams, merges the
// filtered events across them in timestamp order and renders the result; for
// whole-build requests a line-to-step index is kept so a later pass can
// inject step boundary markers.
//
// The vault is eventually consistent, so each rendering session carries a
// completeness snapshot: the caller states whether the build itself has
// finished (the build-execution side knows; this reader does not), and a
// narrow probe checks whether the store has caught up to the last write known
// to the TimestampTracker. The write side feeds the tracker; a pure reader
// such as the CLI approximates it by observing fetched event timestamps.
package retrieve

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/buildlens/buildlens/internal/render"
	"github.com/buildlens/buildlens/internal/store"
)

// Retriever fetches and reassembles build logs from one log group.
// Retrievers for different builds or steps may run concurrently; they share
// no mutable state except the TimestampTracker.
type Retriever struct {
	client  store.Client
	group   string
	tracker *TimestampTracker
}

// Options tunes a single retrieval
type Options struct {
	// StartTime restricts the merge query to events at or after this epoch
	// millisecond timestamp. Nil means the full log.
	StartTime *int64
}

// New creates a Retriever for the given log group.
// An empty group name is a configuration error, surfaced here rather than on
// first use.
func New(client store.Client, group string, tracker *TimestampTracker) (*Retriever, error) {
	if group == "" {
		return nil, fmt.Errorf("log group name is required")
	}
	if tracker == nil {
		tracker = NewTimestampTracker()
	}

	return &Retriever{
		client:  client,
		group:   group,
		tracker: tracker,
	}, nil
}

// Tracker returns the tracker this retriever consults for completion checks
func (r *Retriever) Tracker() *TimestampTracker {
	return r.tracker
}

// OverallLog retrieves the whole interleaved build log as an indexed render.
// requestedComplete states whether the build's execution has finished; the
// session is marked complete only when that holds and the store has caught up
// to the last known write. The flag is computed once here and cached on the
// returned RenderedLog.
func (r *Retriever) OverallLog(ctx context.Context, buildID string, requestedComplete bool, opts Options) (*render.RenderedLog, error) {
	entries, err := r.fetch(ctx, buildID, "", opts)
	if err != nil {
		return nil, err
	}

	complete := requestedComplete && probeCaughtUp(ctx, r.client, r.group, buildID, r.tracker)

	slog.Debug("Rendered overall log",
		"build", buildID,
		"lines", len(entries),
		"complete", complete,
	)
	return render.Indexed(toLines(entries), complete), nil
}

// StepLog retrieves one step's log segment as a flat render
func (r *Retriever) StepLog(ctx context.Context, buildID, stepID string, requestedComplete bool, opts Options) (*render.RenderedLog, error) {
	if stepID == "" {
		return nil, fmt.Errorf("step id is required")
	}

	entries, err := r.fetch(ctx, buildID, stepID, opts)
	if err != nil {
		return nil, err
	}

	complete := requestedComplete && probeCaughtUp(ctx, r.client, r.group, buildID, r.tracker)

	slog.Debug("Rendered step log",
		"build", buildID,
		"step", stepID,
		"lines", len(entries),
		"complete", complete,
	)
	return render.Flat(toLines(entries), complete), nil
}

// fetch resolves the build's streams and merges the matching events
func (r *Retriever) fetch(ctx context.Context, buildID, stepID string, opts Options) ([]Entry, error) {
	if buildID == "" {
		return nil, fmt.Errorf("build id is required")
	}

	prefix := buildID + "@"
	streams, err := discoverStreams(ctx, r.client, r.group, prefix)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, fmt.Errorf("could not list log streams for build %s: log group %q or streams %q are missing: %w",
				buildID, r.group, prefix+"*", err)
		}
		return nil, fmt.Errorf("failed to list log streams for build %s: %w", buildID, err)
	}

	entries, err := fetchEvents(ctx, r.client, r.group, buildID, stepID, streams, opts.StartTime)
	if err != nil {
		return nil, err
	}

	// Feed the newest fetched timestamp into the tracker so the completion
	// probe has a high-water mark even when no writer reported one
	var latest int64
	for _, entry := range entries {
		if entry.Timestamp > latest {
			latest = entry.Timestamp
		}
	}
	if latest > 0 {
		r.tracker.Observe(buildID, latest)
	}

	return entries, nil
}

func toLines(entries []Entry) []render.Line {
	lines := make([]render.Line, len(entries))
	for i, entry := range entries {
		lines[i] = render.Line{
			Timestamp: entry.Timestamp,
			StepID:    entry.StepID,
			Text:      entry.Message,
		}
	}
	return lines
}
