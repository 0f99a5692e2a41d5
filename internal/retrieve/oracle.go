package retrieve

import (
	"context"
	"log/slog"

	"github.com/buildlens/buildlens/internal/store"
)

// probeCaughtUp reports whether the store has caught up to the last write
// known to the tracker, by issuing a narrow probe: build filter, limit 1,
// starting at the tracked timestamp. At least one event at or after that
// timestamp means the store has the final write.
//
// This is a best-effort liveness check, not a proof of total completeness:
// clock skew or late delivery could still hide later-arriving events.
//
// With no tracked timestamp there is no outstanding write to wait for, so the
// store is trivially caught up. All probe failures degrade to "not caught up"
// rather than failing the retrieval; in particular the stream may not exist
// yet for a build that has not started producing logs.
func probeCaughtUp(ctx context.Context, client store.Client, group, buildID string, tracker *TimestampTracker) bool {
	candidate, ok := tracker.LatestKnown(buildID)
	if !ok {
		return true
	}

	limit := 1
	page, err := client.FilterEvents(ctx, group, store.FilterQuery{
		Pattern:   filterPattern(buildID, ""),
		StartTime: &candidate,
		Limit:     &limit,
	})
	if err != nil {
		if store.IsNotFound(err) {
			slog.Debug("Completion probe found no stream yet", "build", buildID, "group", group)
		} else {
			slog.Warn("Completion probe failed", "build", buildID, "error", err)
		}
		return false
	}

	return len(page.Events) > 0
}
