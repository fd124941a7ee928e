package timer

import (
	"errors"
	"fmt"
	"time"

	"focustimer/internal/model"
)

// DefaultMaxSnapshotAge bounds how old a snapshot may be and still resume.
const DefaultMaxSnapshotAge = 24 * time.Hour

var ErrStaleSnapshot = errors.New("snapshot is stale")

// Recover turns a stored snapshot into the status to resume from. A running
// timer comes back paused since no ticks were observed while the process was
// down. Snapshots older than maxAge, or dated that far in the future, are
// rejected with ErrStaleSnapshot.
func Recover(snapshot model.Snapshot, now time.Time, maxAge time.Duration) (model.TimerStatus, error) {
	age := now.Sub(snapshot.Timestamp)
	if age < 0 {
		age = -age
	}
	if age > maxAge {
		return model.TimerStatus{}, fmt.Errorf("%w: age %s", ErrStaleSnapshot, age.Round(time.Second))
	}

	status := snapshot.TimerStatus.Clone()
	if err := checkStatus(status); err != nil {
		return model.TimerStatus{}, err
	}
	if status.State == model.StateRunning {
		status.State = model.StatePaused
	}
	return status, nil
}

func checkStatus(status model.TimerStatus) error {
	if !status.State.Valid() || !status.SessionType.Valid() {
		return fmt.Errorf("snapshot has unknown state %q or session type %q", status.State, status.SessionType)
	}
	if status.TotalDuration <= 0 || status.TimeElapsed < 0 || status.TimeRemaining < 0 {
		return fmt.Errorf("snapshot has invalid durations")
	}
	if status.TimeElapsed+status.TimeRemaining != status.TotalDuration {
		return fmt.Errorf("snapshot durations do not add up: %d + %d != %d",
			status.TimeElapsed, status.TimeRemaining, status.TotalDuration)
	}
	if status.FocusSessionCount < 0 {
		return fmt.Errorf("snapshot has negative focus session count")
	}
	return nil
}
