package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestIsKindFollowsWrapping(t *testing.T) {
	base := Storage("write timerState", ErrStorageQuota)
	wrapped := fmt.Errorf("persist: %w", base)

	if !IsKind(wrapped, KindStorage) {
		t.Fatal("expected wrapped storage error to match KindStorage")
	}
	if IsKind(wrapped, KindValidation) {
		t.Fatal("storage error must not match KindValidation")
	}
	if !stderrors.Is(wrapped, ErrStorageQuota) {
		t.Fatal("expected quota sentinel in chain")
	}
}

func TestFromErrorMapsKinds(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", Validation("focusDuration", "must be between 1 and 120"), http.StatusBadRequest, "validation_failed"},
		{"quota", Storage("set", ErrStorageQuota), http.StatusInsufficientStorage, "storage_quota_exceeded"},
		{"unavailable", Storage("set", ErrStorageUnavailable), http.StatusServiceUnavailable, "storage_unavailable"},
		{"api", NotFound("preset_not_found", "unknown preset"), http.StatusNotFound, "preset_not_found"},
		{"other", stderrors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			apiErr := FromError(tc.err, "")
			if apiErr.Status != tc.status || apiErr.Code != tc.code {
				t.Fatalf("FromError() = %d %s, want %d %s", apiErr.Status, apiErr.Code, tc.status, tc.code)
			}
		})
	}
}
