package errors

import (
	"net/http"

	"github.com/cockroachdb/errors"
)

// ErrorDetail is the inner payload of an API error response.
type ErrorDetail struct {
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// ErrorResponse is the JSON shape returned for any failed API request.
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

// NewErrorResponse converts any error into the API error payload. For
// InternalError values the hint (when present) is preferred over the raw
// message, and reportable details are passed through.
func NewErrorResponse(err error) *ErrorResponse {
	resp := &ErrorResponse{}
	var ie *InternalError
	if errors.As(err, &ie) {
		resp.Error.Message = ie.Error()
		if ie.Hint() != "" {
			resp.Error.Message = ie.Hint()
		}
		resp.Error.Details = ie.ReportableDetails()
		return resp
	}
	resp.Error.Message = err.Error()
	return resp
}

// HTTPStatusFromErr maps a classified error to an HTTP status code.
func HTTPStatusFromErr(err error) int {
	switch {
	case IsValidation(err):
		return http.StatusBadRequest
	case IsPermissionDenied(err):
		return http.StatusUnauthorized
	case IsNotFound(err):
		return http.StatusNotFound
	case IsAlreadyExists(err):
		return http.StatusConflict
	case IsInvalidOperation(err):
		return http.StatusUnprocessableEntity
	case IsHTTPClient(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
