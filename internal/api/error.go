package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Error codes used by the backend in error response bodies.
const (
	CodeValidationError  = "validation_error"
	CodeNotFound         = "not_found"
	CodeAlreadyExists    = "already_exists"
	CodeActivePlanExists = "active_plan_exists"
	CodeInternalError    = "internal_error"
	CodeRateLimited      = "rate_limit_exceeded"
	CodeUnauthorized     = "unauthorized"
	// CodeRequestFailed is synthesized client-side when the error
	// response body cannot be parsed.
	CodeRequestFailed = "request_failed"
)

// Error is the typed failure for every non-2xx backend response.
type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s [status %d]: %s", e.Code, e.Status, e.Message)
}

func newError(status int, body []byte) *Error {
	apiErr := &Error{
		Status: status,
		Code:   CodeRequestFailed,
	}

	var errBody struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &errBody); err == nil && errBody.Error != "" {
		apiErr.Code = errBody.Error
		apiErr.Message = errBody.Message
	}

	if apiErr.Message == "" {
		apiErr.Message = apiErr.Code
	}

	return apiErr
}

// IsNotFound reports whether err is a backend 404. Whether that means
// "valid empty state" or a real failure is for the caller to decide.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

func IsConflict(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusConflict
}

// IsCancelled reports whether err comes from the caller cancelling the
// request (or its deadline expiring), as opposed to a backend failure.
func IsCancelled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
