package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"focustimer/internal/model"
)

func TestSessionLogRetention(t *testing.T) {
	store := newFlakyStore()
	log := NewSessionLog(store, testLogger(), 3)
	ctx := context.Background()

	base := time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		s := finishedSession(fmt.Sprintf("s-%d", i), model.SessionFocus, base.Add(time.Duration(i)*time.Hour), 60, true, "")
		if err := log.Append(ctx, s); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	all := log.All()
	if len(all) != 3 || all[0].ID != "s-2" || all[2].ID != "s-4" {
		t.Fatalf("retained = %v", ids(all))
	}

	recent := log.Recent(2)
	if len(recent) != 2 || recent[0].ID != "s-4" || recent[1].ID != "s-3" {
		t.Fatalf("Recent(2) = %v", ids(recent))
	}

	reloaded := NewSessionLog(store, testLogger(), 3)
	reloaded.Load(ctx)
	if len(reloaded.All()) != 3 {
		t.Fatalf("reloaded %d sessions", len(reloaded.All()))
	}
}

func TestSessionLogReplaceSortsAndTrims(t *testing.T) {
	log := NewSessionLog(newFlakyStore(), testLogger(), 2)
	base := time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)
	sessions := []model.Session{
		finishedSession("late", model.SessionFocus, base.Add(2*time.Hour), 60, true, ""),
		finishedSession("early", model.SessionFocus, base, 60, true, ""),
		finishedSession("middle", model.SessionFocus, base.Add(time.Hour), 60, true, ""),
	}
	if err := log.Replace(context.Background(), sessions); err != nil {
		t.Fatalf("Replace() error = %v", err)
	}
	if got := ids(log.All()); len(got) != 2 || got[0] != "middle" || got[1] != "late" {
		t.Fatalf("after Replace = %v", got)
	}
}

func ids(sessions []model.Session) []string {
	out := make([]string, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, s.ID)
	}
	return out
}
