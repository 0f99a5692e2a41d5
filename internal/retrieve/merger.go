package retrieve

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"

	"github.com/buildlens/buildlens/internal/store"
)

// Entry is a decoded, merged log event attributed to its originating step.
// StepID is empty for build-level output not belonging to any step.
type Entry struct {
	Timestamp int64
	BuildID   string
	StepID    string
	Message   string
}

// payload is the structured JSON record the build side writes into each
// event's message field. Only this system's writer ever produces these, so a
// malformed payload is a defect, not a user-recoverable condition.
type payload struct {
	Build   string `json:"build"`
	Node    string `json:"node"`
	Message string `json:"message"`
}

// filterPattern builds the vault filter expression for a build, optionally
// scoped to one step. The syntax is the wire contract with the store's filter
// language and must be preserved exactly.
func filterPattern(buildID, stepID string) string {
	if stepID == "" {
		return fmt.Sprintf(`{$.build = %q}`, buildID)
	}
	return fmt.Sprintf(`{$.build = %q && $.node = %q}`, buildID, stepID)
}

// fetchEvents queries and merges all events for a build (optionally scoped to
// one step) across the given streams, in timestamp order.
//
// Each page is sorted by timestamp before being appended, defending against a
// store that does not guarantee intra-page order. Cross-page order relies on
// the store delivering pages in non-decreasing timestamp bands; there is no
// global re-sort, to bound memory on large builds. If that delivery
// assumption is violated, output line order may be incorrect.
func fetchEvents(ctx context.Context, client store.Client, group, buildID, stepID string, streams []string, startTime *int64) ([]Entry, error) {
	query := store.FilterQuery{
		StreamNames: streams,
		Interleaved: true,
		Pattern:     filterPattern(buildID, stepID),
		StartTime:   startTime,
	}

	var entries []Entry
	pages := 0

	for {
		page, err := client.FilterEvents(ctx, group, query)
		if err != nil {
			if store.IsNotFound(err) {
				return nil, fmt.Errorf("could not find log events for build %s: log group %q or streams %q are missing: %w",
					buildID, group, buildID+"@*", err)
			}
			return nil, fmt.Errorf("failed to fetch log events for build %s: %w", buildID, err)
		}
		pages++

		// Intra-page order is not guaranteed by the store
		events := page.Events
		sort.SliceStable(events, func(i, j int) bool {
			return events[i].Timestamp < events[j].Timestamp
		})

		for _, event := range events {
			entry, err := decodeEvent(event, buildID)
			if err != nil {
				return nil, err
			}
			entries = append(entries, entry)
		}

		if page.NextToken == nil || *page.NextToken == "" {
			break
		}
		query.NextToken = *page.NextToken
	}

	slog.Debug("Merged log events",
		"build", buildID,
		"step", stepID,
		"pages", pages,
		"events", len(entries),
	)
	return entries, nil
}

// decodeEvent parses an event's structured payload and checks it against the
// queried build. Failures here are defect-class: only this system's writer
// produces these payloads.
func decodeEvent(event store.Event, buildID string) (Entry, error) {
	var p payload
	if err := json.Unmarshal([]byte(event.Message), &p); err != nil {
		return Entry{}, fmt.Errorf("malformed log event payload at timestamp %d (writer defect): %w", event.Timestamp, err)
	}

	if p.Build != buildID {
		return Entry{}, fmt.Errorf("log event at timestamp %d belongs to build %q, expected %q (writer or filter defect)",
			event.Timestamp, p.Build, buildID)
	}

	return Entry{
		Timestamp: event.Timestamp,
		BuildID:   p.Build,
		StepID:    p.Node,
		Message:   p.Message,
	}, nil
}
