package store

import (
	"errors"
	"fmt"
	"net/http"
)

// resourceNotFoundCode is the vault's error code for a missing group or stream
const resourceNotFoundCode = "ResourceNotFound"

// APIError is a non-2xx response from the vault API
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("vault API error (%d, %s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("vault API error (%d): %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err means the queried log group or stream does
// not exist. Callers diverge on this condition: a full or step log retrieval
// treats it as fatal, while the completion probe treats it as "not complete
// yet" because the build may simply not have produced logs so far.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == http.StatusNotFound || apiErr.Code == resourceNotFoundCode
}
