package core

import (
	"errors"
	"fmt"
)

// ErrorType classifies why a single source attempt failed.
type ErrorType string

const (
	// ErrorTypeTransport indicates a network error, a non-success status,
	// or an unparseable payload from one source.
	ErrorTypeTransport ErrorType = "transport_error"
	// ErrorTypeEmptyResult indicates a source answered successfully but
	// returned no records. No lookup in this hierarchy legitimately has
	// zero children, so empty answers never win a race.
	ErrorTypeEmptyResult ErrorType = "empty_result"
	// ErrorTypeCancelled indicates the attempt was cancelled, either by a
	// winning sibling or by the race deadline.
	ErrorTypeCancelled ErrorType = "cancelled"
)

// ErrAllSourcesExhausted is the race orchestrator's terminal state: every
// source failed or the deadline elapsed before a non-empty success.
var ErrAllSourcesExhausted = errors.New("all region sources exhausted")

// SourceError is the failure outcome of one source attempt. It never
// surfaces to callers of the service; it only feeds exhaustion accounting.
type SourceError struct {
	Source  string
	Type    ErrorType
	Message string
	Err     error
}

func (e *SourceError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Source, e.Type, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Source, e.Type)
}

func (e *SourceError) Unwrap() error { return e.Err }

// NewTransportError wraps a network or payload failure from one source.
func NewTransportError(source, message string, err error) *SourceError {
	return &SourceError{Source: source, Type: ErrorTypeTransport, Message: message, Err: err}
}

// NewEmptyResultError marks a technically successful fetch with no records.
func NewEmptyResultError(source string) *SourceError {
	return &SourceError{Source: source, Type: ErrorTypeEmptyResult}
}

// NewCancelledError marks an attempt aborted by race cancellation.
func NewCancelledError(source string, err error) *SourceError {
	return &SourceError{Source: source, Type: ErrorTypeCancelled, Err: err}
}
