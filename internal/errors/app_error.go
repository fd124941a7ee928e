package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind classifies failures raised outside the HTTP layer.
type Kind string

const (
	KindStorage      Kind = "storage"
	KindNotification Kind = "notification"
	KindAudio        Kind = "audio"
	KindValidation   Kind = "validation"
)

var (
	ErrStorageUnavailable = stderrors.New("storage unavailable")
	ErrStorageQuota       = stderrors.New("storage quota exceeded")
	ErrNotificationDenied = stderrors.New("notification permission denied")
	ErrUnsupported        = stderrors.New("not supported on this platform")
)

type AppError struct {
	Kind    Kind
	Field   string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func Storage(message string, err error) *AppError {
	return &AppError{Kind: KindStorage, Message: message, Err: err}
}

func Notification(message string, err error) *AppError {
	return &AppError{Kind: KindNotification, Message: message, Err: err}
}

func Audio(message string, err error) *AppError {
	return &AppError{Kind: KindAudio, Message: message, Err: err}
}

// Validation reports a rejected input value. Field names the offending
// setting or argument.
func Validation(field, message string) *AppError {
	return &AppError{Kind: KindValidation, Field: field, Message: message}
}

// IsKind reports whether any error in err's chain is an AppError of kind.
func IsKind(err error, kind Kind) bool {
	var appErr *AppError
	if !stderrors.As(err, &appErr) {
		return false
	}
	return appErr.Kind == kind
}
