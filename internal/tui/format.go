package tui

import (
	"fmt"

	"focustimer/internal/model"
)

// FormatClock renders seconds as MM:SS, or H:MM:SS from one hour up.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h, m, s := seconds/3600, seconds%3600/60, seconds%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// Progress is the elapsed fraction of the current session.
func Progress(status model.TimerStatus) float64 {
	if status.TotalDuration <= 0 {
		return 0
	}
	return float64(status.TimeElapsed) / float64(status.TotalDuration)
}

func stateLabel(state model.TimerState) string {
	switch state {
	case model.StateRunning:
		return "running"
	case model.StatePaused:
		return "paused"
	case model.StateCompleted:
		return "completed"
	default:
		return "ready"
	}
}
