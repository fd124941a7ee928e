package timer

import (
	"errors"
	"testing"
	"time"

	"focustimer/internal/model"
)

func runningSnapshot(at time.Time) model.Snapshot {
	start := at.Add(-10 * time.Minute)
	return model.Snapshot{
		TimerStatus: model.TimerStatus{
			State:         model.StateRunning,
			SessionType:   model.SessionFocus,
			TimeRemaining: 900,
			TimeElapsed:   600,
			TotalDuration: 1500,
			CurrentSession: &model.Session{
				ID:              "s-1",
				Type:            model.SessionFocus,
				StartTime:       start,
				PlannedDuration: 1500,
			},
			FocusSessionCount: 2,
		},
		Timestamp: at,
	}
}

func TestRecoverRunningSnapshotComesBackPaused(t *testing.T) {
	saved := time.Date(2026, 5, 4, 8, 0, 0, 0, time.UTC)
	status, err := Recover(runningSnapshot(saved), saved.Add(10*time.Hour), DefaultMaxSnapshotAge)
	if err != nil {
		t.Fatalf("Recover() error = %v", err)
	}
	if status.State != model.StatePaused {
		t.Fatalf("state = %s, want paused", status.State)
	}
	if status.TimeRemaining != 900 || status.TimeElapsed != 600 || status.FocusSessionCount != 2 {
		t.Fatalf("fields not restored verbatim: %+v", status)
	}
	if status.CurrentSession == nil || status.CurrentSession.ID != "s-1" {
		t.Fatal("current session lost")
	}
}

func TestRecoverRejectsStaleSnapshot(t *testing.T) {
	saved := time.Date(2026, 5, 4, 8, 0, 0, 0, time.UTC)
	_, err := Recover(runningSnapshot(saved), saved.Add(25*time.Hour), DefaultMaxSnapshotAge)
	if !errors.Is(err, ErrStaleSnapshot) {
		t.Fatalf("Recover() err = %v, want ErrStaleSnapshot", err)
	}

	_, err = Recover(runningSnapshot(saved), saved.Add(-25*time.Hour), DefaultMaxSnapshotAge)
	if !errors.Is(err, ErrStaleSnapshot) {
		t.Fatalf("future snapshot err = %v, want ErrStaleSnapshot", err)
	}
}

func TestRecoverRejectsInconsistentDurations(t *testing.T) {
	saved := time.Date(2026, 5, 4, 8, 0, 0, 0, time.UTC)
	snapshot := runningSnapshot(saved)
	snapshot.TimeRemaining = 1000

	if _, err := Recover(snapshot, saved, DefaultMaxSnapshotAge); err == nil {
		t.Fatal("expected inconsistent snapshot to be rejected")
	}
}

func TestRecoverKeepsOtherStates(t *testing.T) {
	saved := time.Date(2026, 5, 4, 8, 0, 0, 0, time.UTC)
	snapshot := runningSnapshot(saved)
	snapshot.State = model.StateCompleted
	snapshot.CurrentSession = nil

	status, err := Recover(snapshot, saved.Add(time.Hour), DefaultMaxSnapshotAge)
	if err != nil {
		t.Fatalf("Recover() error = %v", err)
	}
	if status.State != model.StateCompleted {
		t.Fatalf("state = %s, want completed", status.State)
	}
}
