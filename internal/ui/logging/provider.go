package logging

import (
	"context"
	"fmt"
	"time"

	"github.com/buildlens/buildlens/internal/render"
	"github.com/buildlens/buildlens/internal/retrieve"
)

// pollingProvider follows a build's log by re-retrieving it on an interval
// and emitting only the lines past the previously seen count. Streams are
// append-only, so the rendered line sequence only ever grows.
type pollingProvider struct {
	retriever     *retrieve.Retriever
	buildID       string
	stepID        string
	buildFinished bool
	startTime     *int64
	pollInterval  time.Duration

	seen int
}

// PollingProviderConfig configures a polling provider
type PollingProviderConfig struct {
	Retriever *retrieve.Retriever
	BuildID   string

	// StepID narrows collection to a single step. Empty follows the whole
	// build.
	StepID string

	// BuildFinished is the caller's assertion that the build's execution has
	// finished. Only then can a rendering session report complete, which is
	// what stops collection; without it the provider polls until cancelled.
	BuildFinished bool

	// StartTime restricts retrieval to events at or after this epoch
	// millisecond timestamp
	StartTime *int64

	PollInterval time.Duration // Default: 2 seconds
}

// NewPollingProvider creates a provider that polls the log vault for new
// build log lines
func NewPollingProvider(cfg PollingProviderConfig) LogProvider {
	if cfg.PollInterval == 0 {
		cfg.PollInterval = 2 * time.Second
	}

	return &pollingProvider{
		retriever:     cfg.Retriever,
		buildID:       cfg.BuildID,
		stepID:        cfg.StepID,
		buildFinished: cfg.BuildFinished,
		startTime:     cfg.StartTime,
		pollInterval:  cfg.PollInterval,
	}
}

// Collect polls until the rendering session reports complete or the context
// is cancelled
func (p *pollingProvider) Collect(ctx context.Context, callback func([]Log) error) error {
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	// Fetch immediately
	isComplete, err := p.fetchOnce(ctx, callback)
	if err != nil {
		return err
	} else if isComplete {
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-ticker.C:
			isComplete, err := p.fetchOnce(ctx, callback)
			if err != nil {
				return err
			}
			if isComplete {
				return nil
			}
		}
	}
}

// fetchOnce retrieves the current log and emits the lines past the
// previously seen count
func (p *pollingProvider) fetchOnce(ctx context.Context, callback func([]Log) error) (isComplete bool, err error) {
	opts := retrieve.Options{StartTime: p.startTime}

	var session *render.RenderedLog
	if p.stepID != "" {
		session, err = p.retriever.StepLog(ctx, p.buildID, p.stepID, p.buildFinished, opts)
	} else {
		session, err = p.retriever.OverallLog(ctx, p.buildID, p.buildFinished, opts)
	}
	if err != nil {
		return false, fmt.Errorf("failed to fetch build logs: %w", err)
	}

	lines := session.Lines()

	if len(lines) > p.seen {
		newLogs := make([]Log, 0, len(lines)-p.seen)
		for _, line := range lines[p.seen:] {
			newLogs = append(newLogs, Log{
				Timestamp: time.UnixMilli(line.Timestamp),
				StepID:    line.StepID,
				Content:   line.Text,
			})
		}
		p.seen = len(lines)

		if err := callback(newLogs); err != nil {
			return false, fmt.Errorf("callback error: %w", err)
		}
	}

	return session.Complete(), nil
}
