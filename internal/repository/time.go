package repository

import (
	"fmt"
	"time"
)

// Timestamps are stored as UTC text so they sort lexically.
const timestampLayout = time.RFC3339Nano

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// parseTimestamp also accepts SQLite's "YYYY-MM-DD HH:MM:SS" form, which
// is what datetime('now') writes.
func parseTimestamp(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{timestampLayout, time.DateTime} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", raw)
}
