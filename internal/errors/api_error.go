package errors

import (
	stderrors "errors"
	"net/http"
)

// Codes carried in the "code" field of the error envelope.
const (
	CodeInternal          = "internal_error"
	CodeInvalidJSON       = "invalid_json"
	CodeUnauthorized      = "unauthorized"
	CodeValidationFailed  = "validation_failed"
	CodeStorageQuota      = "storage_quota_exceeded"
	CodeStorageDown       = "storage_unavailable"
	CodeEmptyUpdate       = "empty_update"
	CodePresetNotFound    = "preset_not_found"
	CodeInvalidDateRange  = "invalid_date_range"
	CodeAlreadyConfigured = "already_configured"
)

// APIError is the HTTP form of a failure, rendered as
// {"error": {"code", "message", "details"}}.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return e.Message
}

// Envelope returns the response body for e.
func (e *APIError) Envelope() map[string]any {
	return map[string]any{"error": e}
}

func New(status int, code, message string) *APIError {
	return &APIError{
		Status:  status,
		Code:    code,
		Message: message,
	}
}

func Internal(message string) *APIError {
	if message == "" {
		message = "internal server error"
	}
	return New(http.StatusInternalServerError, CodeInternal, message)
}

func BadRequest(code, message string) *APIError {
	return New(http.StatusBadRequest, code, message)
}

func Unauthorized(message string) *APIError {
	if message == "" {
		message = "unauthorized"
	}
	return New(http.StatusUnauthorized, CodeUnauthorized, message)
}

func NotFound(code, message string) *APIError {
	return New(http.StatusNotFound, code, message)
}

func Conflict(code, message string) *APIError {
	return New(http.StatusConflict, code, message)
}

// FromError converts a service error into an APIError. Validation failures
// name the offending field in details; storage failures distinguish a full
// disk from an unavailable store. Anything else becomes a 500 with fallback
// as its message.
func FromError(err error, fallback string) *APIError {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if stderrors.As(err, &apiErr) {
		return apiErr
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		switch appErr.Kind {
		case KindValidation:
			out := BadRequest(CodeValidationFailed, appErr.Message)
			if appErr.Field != "" {
				out.Details = map[string]string{"field": appErr.Field}
			}
			return out
		case KindStorage:
			if stderrors.Is(appErr, ErrStorageQuota) {
				return New(http.StatusInsufficientStorage, CodeStorageQuota, "storage quota exceeded")
			}
			return New(http.StatusServiceUnavailable, CodeStorageDown, "storage unavailable")
		}
	}
	return Internal(fallback)
}
