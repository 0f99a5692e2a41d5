// Package mock provides a testify-based mock of the store.Client interface.
//
// It is hand-maintained rather than generated so that tests build without a
// codegen step. Keep it in sync with internal/store.Client.
//
// Usage in tests:
//
//	mockClient := mock.NewMockClient(t)
//	mockClient.On("DescribeStreams", ctx, "group", "42@", "").
//	    Return(&store.StreamPage{...}, nil).Once()
package mock

import (
	"context"
	"testing"

	"github.com/buildlens/buildlens/internal/store"
	"github.com/stretchr/testify/mock"
)

// MockClient implements store.Client for tests
type MockClient struct {
	mock.Mock
}

var _ store.Client = (*MockClient)(nil)

// NewMockClient creates a MockClient whose expectations are asserted when the
// test completes.
func NewMockClient(t *testing.T) *MockClient {
	m := &MockClient{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockClient) DescribeStreams(ctx context.Context, group, prefix, nextToken string) (*store.StreamPage, error) {
	args := m.Called(ctx, group, prefix, nextToken)
	page, _ := args.Get(0).(*store.StreamPage)
	return page, args.Error(1)
}

func (m *MockClient) FilterEvents(ctx context.Context, group string, query store.FilterQuery) (*store.EventPage, error) {
	args := m.Called(ctx, group, query)
	page, _ := args.Get(0).(*store.EventPage)
	return page, args.Error(1)
}
