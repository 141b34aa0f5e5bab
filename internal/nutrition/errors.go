package nutrition

import (
	"errors"
	"fmt"
)

var (
	// ErrGoalsUnavailable means no profile exists, so there is nothing to
	// measure intake against. Callers route the user to profile setup.
	ErrGoalsUnavailable = errors.New("nutrition goals unavailable: no profile configured")

	ErrInvalidGoalConfiguration = errors.New("invalid goal configuration")
)

// StoreError wraps a failure from a profile or meal store. It is passed
// through as-is; retrying is the store's business.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func WrapStore(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}
