package errors

import "github.com/cockroachdb/errors"

// Sentinel errors used with Mark to classify failures. Callers branch on
// these via the Is* helpers instead of matching message text.
var (
	// ErrValidation marks caller errors rejected before any network call.
	ErrValidation = errors.New("validation error")
	// ErrNotFound marks a missing record on whichever system was queried.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists marks uniqueness conflicts.
	ErrAlreadyExists = errors.New("already exists")
	// ErrPermissionDenied marks missing or rejected credentials.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrInvalidOperation marks a request the upstream system understood and
	// explicitly declined. The upstream message is actionable and is
	// forwarded verbatim.
	ErrInvalidOperation = errors.New("invalid operation")
	// ErrHTTPClient marks transport-level upstream failures: timeouts, 5xx,
	// malformed responses.
	ErrHTTPClient = errors.New("http client error")
	// ErrInternal marks everything else.
	ErrInternal = errors.New("internal error")
)

func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

func IsPermissionDenied(err error) bool {
	return errors.Is(err, ErrPermissionDenied)
}

func IsInvalidOperation(err error) bool {
	return errors.Is(err, ErrInvalidOperation)
}

func IsHTTPClient(err error) bool {
	return errors.Is(err, ErrHTTPClient)
}

// Is re-exports errors.Is so call sites only import this package.
func Is(err, target error) bool {
	return errors.Is(err, target)
}
