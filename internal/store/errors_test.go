package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNotFound(t *testing.T) {
	tcs := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: false,
		},
		{
			name:     "plain error",
			err:      errors.New("connection refused"),
			expected: false,
		},
		{
			name:     "404 status",
			err:      &APIError{StatusCode: 404, Message: "no such group"},
			expected: true,
		},
		{
			name:     "ResourceNotFound code with non-404 status",
			err:      &APIError{StatusCode: 400, Code: "ResourceNotFound", Message: "stream does not exist"},
			expected: true,
		},
		{
			name:     "wrapped not-found",
			err:      fmt.Errorf("probe failed: %w", &APIError{StatusCode: 404, Message: "gone"}),
			expected: true,
		},
		{
			name:     "server error",
			err:      &APIError{StatusCode: 500, Code: "Internal", Message: "boom"},
			expected: false,
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, IsNotFound(tc.err))
		})
	}
}

func TestAPIError_Error(t *testing.T) {
	withCode := &APIError{StatusCode: 404, Code: "ResourceNotFound", Message: "no such group"}
	assert.Equal(t, `vault API error (404, ResourceNotFound): no such group`, withCode.Error())

	withoutCode := &APIError{StatusCode: 502, Message: "bad gateway"}
	assert.Equal(t, `vault API error (502): bad gateway`, withoutCode.Error())
}
