package ui

import "fmt"

// ErrorType categorizes an error for presentation purposes
type ErrorType int

const (
	ErrorTypeUserCancelled ErrorType = iota // Ctrl+C, 'q' - silent exit
	ErrorTypeValidation                     // Bad arguments or flags - show error, no usage
	ErrorTypeAPI                            // Log vault errors - show error, no usage
	ErrorTypeFileSystem                     // File operations - show error, no usage
	ErrorTypeConfiguration                  // Config issues - show error, no usage
	ErrorTypeInternal                       // Unexpected - show error, no usage
)

// UIError carries an error from a Bubbletea model or command body back to
// Cobra together with metadata about how it should be presented.
type UIError struct {
	Err           error
	Type          ErrorType
	SuppressUsage bool // Don't show Cobra usage message
	SilentExit    bool // Don't show error message (already rendered, or should be silent)
}

func (e *UIError) Error() string {
	return e.Err.Error()
}

func (e *UIError) Unwrap() error {
	return e.Err
}

func NewUserCancelledError() *UIError {
	return &UIError{
		Err:           fmt.Errorf("cancelled by user"),
		Type:          ErrorTypeUserCancelled,
		SuppressUsage: true,
		SilentExit:    true,
	}
}

func NewValidationError(err error) *UIError {
	return &UIError{
		Err:           err,
		Type:          ErrorTypeValidation,
		SuppressUsage: true,
	}
}

func NewAPIError(err error) *UIError {
	return &UIError{
		Err:           err,
		Type:          ErrorTypeAPI,
		SuppressUsage: true,
	}
}

func NewFileSystemError(err error) *UIError {
	return &UIError{
		Err:           err,
		Type:          ErrorTypeFileSystem,
		SuppressUsage: true,
	}
}

func NewConfigurationError(err error) *UIError {
	return &UIError{
		Err:           err,
		Type:          ErrorTypeConfiguration,
		SuppressUsage: true,
	}
}

func NewInternalError(err error) *UIError {
	return &UIError{
		Err:           err,
		Type:          ErrorTypeInternal,
		SuppressUsage: true,
	}
}
