package matcher

import (
	"errors"
	"fmt"
)

// StoreError wraps any failure reaching or querying the candidate source.
// The pipeline never retries or masks it; retry policy belongs to the caller.
type StoreError struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	return fmt.Sprintf("candidate source %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// ConfigError reports a missing required capability or invalid setup,
// detected before any query is accepted.
type ConfigError struct {
	Reason string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "configuration: " + e.Reason
}

// wrapStore tags an error with the failing operation unless the source
// already classified it.
func wrapStore(op string, err error) error {
	var se *StoreError
	if errors.As(err, &se) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}
