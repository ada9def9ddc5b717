package errors

import (
	"errors"
	"fmt"
)

// Process exit codes.
const (
	ExitCodeError    = 1
	ExitCodeWarnings = 2
)

// CommandError is returned by commands that need a specific process exit code.
type CommandError struct {
	ExitCode int
	Err      error
}

// Error implements the error interface.
func (e *CommandError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("command failed with exit code %d", e.ExitCode)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewCommandError wraps err with the given exit code.
func NewCommandError(err error, code int) *CommandError {
	return &CommandError{ExitCode: code, Err: err}
}

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.ExitCode
	}
	return ExitCodeError
}
