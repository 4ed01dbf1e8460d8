package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// InternalError is the error type used across the codebase. It wraps a base
// cause with an optional customer-facing hint and structured details that are
// safe to report back through the API.
type InternalError struct {
	cause             error
	hint              string
	reportableDetails map[string]any
}

func (e *InternalError) Error() string {
	if e.cause == nil {
		return ""
	}
	return e.cause.Error()
}

func (e *InternalError) Unwrap() error {
	return e.cause
}

// Hint returns the customer-facing hint, if any.
func (e *InternalError) Hint() string {
	return e.hint
}

// ReportableDetails returns the structured details attached to the error.
func (e *InternalError) ReportableDetails() map[string]any {
	return e.reportableDetails
}

// NewError creates a new error with the given message.
func NewError(msg string) *InternalError {
	return &InternalError{cause: errors.New(msg)}
}

// NewErrorf creates a new error with a formatted message.
func NewErrorf(format string, args ...any) *InternalError {
	return &InternalError{cause: errors.Newf(format, args...)}
}

// WithError wraps an existing error so hints and marks can be attached.
func WithError(err error) *InternalError {
	if err == nil {
		return nil
	}
	return &InternalError{cause: err}
}

// WithHint attaches a customer-facing hint to the error.
func (e *InternalError) WithHint(hint string) *InternalError {
	e.hint = hint
	return e
}

// WithHintf attaches a formatted customer-facing hint to the error.
func (e *InternalError) WithHintf(format string, args ...any) *InternalError {
	e.hint = fmt.Sprintf(format, args...)
	return e
}

// WithReportableDetails attaches structured details that are safe to expose
// through the API error payload.
func (e *InternalError) WithReportableDetails(details map[string]any) *InternalError {
	if e.reportableDetails == nil {
		e.reportableDetails = make(map[string]any, len(details))
	}
	for k, v := range details {
		e.reportableDetails[k] = v
	}
	return e
}

// Mark classifies the error with one of the sentinel errors so callers can
// branch on errors.Is without string matching.
func (e *InternalError) Mark(sentinel error) *InternalError {
	e.cause = errors.Mark(e.cause, sentinel)
	return e
}
