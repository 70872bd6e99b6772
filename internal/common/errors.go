// Package common provides shared utilities and types used across the application.
package common

import (
	"context"
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Input errors.
	ErrNoData            = errors.New("no account or transaction data")
	ErrInvertedDateRange = errors.New("start date is after end date")

	// Storage errors.
	ErrNotFound = errors.New("not found")

	// Oracle errors.
	ErrOracleUnavailable   = errors.New("text generation oracle unavailable")
	ErrEmptyOracleResponse = errors.New("empty oracle response")

	// Source errors.
	ErrSourceConnection = errors.New("data source connection failed")
	ErrSourceRateLimit  = errors.New("data source rate limit exceeded")

	// Output errors.
	ErrUnsupportedFormat = errors.New("unsupported report format")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// IsRetryable determines if an error should trigger a retry.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrRateLimit) ||
		errors.Is(err, ErrSourceRateLimit) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var retryableErr *RetryableError
	if errors.As(err, &retryableErr) {
		return retryableErr.Retryable
	}

	return false
}
