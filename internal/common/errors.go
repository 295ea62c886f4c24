// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrNoSubject is returned when an operation needs a user id and none is configured.
	ErrNoSubject = errors.New("no user id configured")
)

// HTTPError is returned when the service answers with a non-success status.
type HTTPError struct {
	Body       string
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("API error %d", e.StatusCode)
}

// ParseError is returned when a response body is not valid JSON.
type ParseError struct {
	Err error
	Raw string
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to parse response: %v", e.Err)
	}
	return "failed to parse response"
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// TransportError is returned when a request could not be completed at all.
type TransportError struct {
	Err error
	Op  string
	URL string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// DeleteError is returned when the service refuses to delete a transaction.
type DeleteError struct {
	Body       string
	StatusCode int
}

func (e *DeleteError) Error() string {
	return "failed to delete transaction"
}

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

// StatusCode extracts the HTTP status carried by err, or 0 when there is none.
func StatusCode(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}
	var deleteErr *DeleteError
	if errors.As(err, &deleteErr) {
		return deleteErr.StatusCode
	}
	return 0
}
