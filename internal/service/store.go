package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"focustimer/internal/model"
	"focustimer/internal/repository"
)

// Storage keys.
const (
	KeySettings        = "settings"
	KeyTimerState      = "timerState"
	KeyStatistics      = "statistics"
	KeySessions        = "sessions"
	KeyAuthCredentials = "authCredentials"
)

// KeyValueStore persists opaque values. Get returns repository.ErrNotFound
// for missing keys.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}

// readJSON decodes key into dst. found is false when the key does not exist.
func readJSON(ctx context.Context, store KeyValueStore, key string, dst any) (found bool, err error) {
	raw, err := store.Get(ctx, key)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return true, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func writeJSON(ctx context.Context, store KeyValueStore, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return store.Set(ctx, key, raw)
}

// ReadSnapshot returns the stored timer snapshot without restoring it.
func ReadSnapshot(ctx context.Context, store KeyValueStore) (model.Snapshot, bool, error) {
	var snapshot model.Snapshot
	found, err := readJSON(ctx, store, KeyTimerState, &snapshot)
	return snapshot, found, err
}
