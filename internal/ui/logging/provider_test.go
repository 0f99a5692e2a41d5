package logging

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buildlens/buildlens/internal/retrieve"
	"github.com/buildlens/buildlens/internal/store"
	storemock "github.com/buildlens/buildlens/internal/store/mock"
)

func intPtr(i int) *int       { return &i }
func int64Ptr(i int64) *int64 { return &i }

func buildQuery(streams []string) store.FilterQuery {
	return store.FilterQuery{
		StreamNames: streams,
		Interleaved: true,
		Pattern:     `{$.build = "42"}`,
	}
}

func probeQuery(ts int64) store.FilterQuery {
	return store.FilterQuery{
		Pattern:   `{$.build = "42"}`,
		StartTime: int64Ptr(ts),
		Limit:     intPtr(1),
	}
}

func event(ts int64, msg string) store.Event {
	return store.Event{Timestamp: ts, Message: msg}
}

func TestPollingProvider_CompleteOnFirstPoll(t *testing.T) {
	ctx := t.Context()
	mockClient := storemock.NewMockClient(t)
	streams := []string{"42@master", "42@agent-1"}

	mockClient.On("DescribeStreams", ctx, "ci-builds", "42@", "").
		Return(&store.StreamPage{Streams: []store.Stream{{Name: "42@master"}, {Name: "42@agent-1"}}}, nil).Once()
	mockClient.On("FilterEvents", ctx, "ci-builds", buildQuery(streams)).
		Return(&store.EventPage{Events: []store.Event{
			event(100, `{"build":"42","node":"3","message":"a"}`),
			event(200, `{"build":"42","message":"b"}`),
		}}, nil).Once()
	// The poll observed timestamp 200, so the completion probe starts there
	mockClient.On("FilterEvents", ctx, "ci-builds", probeQuery(200)).
		Return(&store.EventPage{Events: []store.Event{event(200, `{"build":"42","message":"b"}`)}}, nil).Once()

	tracker := retrieve.NewTimestampTracker()
	retriever, err := retrieve.New(mockClient, "ci-builds", tracker)
	require.NoError(t, err)

	provider := NewPollingProvider(PollingProviderConfig{
		Retriever:     retriever,
		BuildID:       "42",
		BuildFinished: true,
		PollInterval:  10 * time.Millisecond,
	})

	var batches [][]Log
	err = provider.Collect(ctx, func(logs []Log) error {
		batches = append(batches, logs)
		return nil
	})
	require.NoError(t, err)

	require.Len(t, batches, 1)
	require.Len(t, batches[0], 2)
	assert.Equal(t, "a", batches[0][0].Content)
	assert.Equal(t, "3", batches[0][0].StepID)
	assert.Equal(t, time.UnixMilli(100), batches[0][0].Timestamp)
	assert.Equal(t, "b", batches[0][1].Content)
	assert.Empty(t, batches[0][1].StepID)

	latest, ok := tracker.LatestKnown("42")
	require.True(t, ok)
	assert.Equal(t, int64(200), latest)
}

func TestPollingProvider_EmitsOnlyNewLines(t *testing.T) {
	ctx := t.Context()
	mockClient := storemock.NewMockClient(t)
	streams := []string{"42@master"}
	page := func(events ...store.Event) *store.EventPage {
		return &store.EventPage{Events: events}
	}

	mockClient.On("DescribeStreams", ctx, "ci-builds", "42@", "").
		Return(&store.StreamPage{Streams: []store.Stream{{Name: "42@master"}}}, nil).Twice()

	// First poll: two lines, store not yet caught up
	mockClient.On("FilterEvents", ctx, "ci-builds", buildQuery(streams)).
		Return(page(
			event(100, `{"build":"42","message":"a"}`),
			event(200, `{"build":"42","message":"b"}`),
		), nil).Once()
	mockClient.On("FilterEvents", ctx, "ci-builds", probeQuery(200)).
		Return(page(), nil).Once()

	// Second poll: one more line, store caught up
	mockClient.On("FilterEvents", ctx, "ci-builds", buildQuery(streams)).
		Return(page(
			event(100, `{"build":"42","message":"a"}`),
			event(200, `{"build":"42","message":"b"}`),
			event(300, `{"build":"42","message":"c"}`),
		), nil).Once()
	mockClient.On("FilterEvents", ctx, "ci-builds", probeQuery(300)).
		Return(page(event(300, `{"build":"42","message":"c"}`)), nil).Once()

	retriever, err := retrieve.New(mockClient, "ci-builds", retrieve.NewTimestampTracker())
	require.NoError(t, err)

	provider := NewPollingProvider(PollingProviderConfig{
		Retriever:     retriever,
		BuildID:       "42",
		BuildFinished: true,
		PollInterval:  time.Millisecond,
	})

	var batches [][]Log
	err = provider.Collect(ctx, func(logs []Log) error {
		batches = append(batches, logs)
		return nil
	})
	require.NoError(t, err)

	require.Len(t, batches, 2)
	assert.Equal(t, "a", batches[0][0].Content)
	assert.Equal(t, "b", batches[0][1].Content)
	require.Len(t, batches[1], 1)
	assert.Equal(t, "c", batches[1][0].Content)
}

func TestPollingProvider_StepScoped(t *testing.T) {
	ctx := t.Context()
	mockClient := storemock.NewMockClient(t)

	stepQuery := store.FilterQuery{
		StreamNames: []string{"42@master"},
		Interleaved: true,
		Pattern:     `{$.build = "42" && $.node = "3"}`,
	}

	mockClient.On("DescribeStreams", ctx, "ci-builds", "42@", "").
		Return(&store.StreamPage{Streams: []store.Stream{{Name: "42@master"}}}, nil).Once()
	mockClient.On("FilterEvents", ctx, "ci-builds", stepQuery).
		Return(&store.EventPage{Events: []store.Event{
			event(100, `{"build":"42","node":"3","message":"a"}`),
		}}, nil).Once()
	mockClient.On("FilterEvents", ctx, "ci-builds", probeQuery(100)).
		Return(&store.EventPage{Events: []store.Event{event(100, `{"build":"42","node":"3","message":"a"}`)}}, nil).Once()

	retriever, err := retrieve.New(mockClient, "ci-builds", retrieve.NewTimestampTracker())
	require.NoError(t, err)

	provider := NewPollingProvider(PollingProviderConfig{
		Retriever:     retriever,
		BuildID:       "42",
		StepID:        "3",
		BuildFinished: true,
		PollInterval:  time.Millisecond,
	})

	var got []Log
	err = provider.Collect(ctx, func(logs []Log) error {
		got = append(got, logs...)
		return nil
	})
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].Content)
	assert.Equal(t, "3", got[0].StepID)
}

func TestPollingProvider_FetchErrorStopsCollection(t *testing.T) {
	ctx := t.Context()
	mockClient := storemock.NewMockClient(t)

	mockClient.On("DescribeStreams", ctx, "ci-builds", "42@", "").
		Return(nil, errors.New("connection reset")).Once()

	retriever, err := retrieve.New(mockClient, "ci-builds", retrieve.NewTimestampTracker())
	require.NoError(t, err)

	provider := NewPollingProvider(PollingProviderConfig{
		Retriever:    retriever,
		BuildID:      "42",
		PollInterval: time.Millisecond,
	})

	err = provider.Collect(ctx, func([]Log) error {
		t.Fatal("callback should not run on fetch failure")
		return nil
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch build logs")
}

func TestPollingProvider_CallbackErrorStopsCollection(t *testing.T) {
	ctx := t.Context()
	mockClient := storemock.NewMockClient(t)

	mockClient.On("DescribeStreams", ctx, "ci-builds", "42@", "").
		Return(&store.StreamPage{Streams: []store.Stream{{Name: "42@master"}}}, nil).Once()
	mockClient.On("FilterEvents", ctx, "ci-builds", buildQuery([]string{"42@master"})).
		Return(&store.EventPage{Events: []store.Event{
			event(100, `{"build":"42","message":"a"}`),
		}}, nil).Once()
	mockClient.On("FilterEvents", ctx, "ci-builds", probeQuery(100)).
		Return(&store.EventPage{Events: []store.Event{event(100, `{"build":"42","message":"a"}`)}}, nil).Once()

	retriever, err := retrieve.New(mockClient, "ci-builds", retrieve.NewTimestampTracker())
	require.NoError(t, err)

	provider := NewPollingProvider(PollingProviderConfig{
		Retriever:     retriever,
		BuildID:       "42",
		BuildFinished: true,
		PollInterval:  time.Millisecond,
	})

	err = provider.Collect(ctx, func([]Log) error {
		return errors.New("sink full")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "callback error")
}
