package bugsnag

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsUserCancellation(t *testing.T) {
	tcs := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "nil error", err: nil, expected: false},
		{name: "context cancellation", err: context.Canceled, expected: true},
		{name: "wrapped context cancellation", err: fmt.Errorf("fetching logs: %w", context.Canceled), expected: true},
		{name: "user cancelled message", err: errors.New("user cancelled"), expected: true},
		{name: "operation cancelled message", err: errors.New("operation cancelled by signal"), expected: true},
		{name: "ordinary failure", err: errors.New("connection refused"), expected: false},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, IsUserCancellation(tc.err))
		})
	}
}
