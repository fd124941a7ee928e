package repository

import (
	"errors"
	"fmt"
	"strings"

	apperrors "focustimer/internal/errors"
)

var ErrNotFound = errors.New("not found")

// storageError wraps a driver failure in the storage taxonomy, marking
// disk-full conditions as quota errors.
func storageError(op string, err error) error {
	sentinel := apperrors.ErrStorageUnavailable
	message := strings.ToLower(err.Error())
	if strings.Contains(message, "database or disk is full") || strings.Contains(message, "sqlite_full") {
		sentinel = apperrors.ErrStorageQuota
	}
	return apperrors.Storage(op, fmt.Errorf("%w: %v", sentinel, err))
}
