package timer

import "focustimer/internal/model"

// Decision is the outcome of scheduling the session that follows a finished
// one.
type Decision struct {
	Next              model.SessionType
	FocusSessionCount int
	AutoStart         bool
}

// NextSession decides what follows finished. focusCount is the number of
// completed Focus sessions since the last long break, already including the
// one that just finished.
func NextSession(finished model.SessionType, focusCount int, settings model.Settings) Decision {
	decision := Decision{FocusSessionCount: focusCount}

	switch finished {
	case model.SessionFocus:
		if focusCount >= settings.LongBreakInterval {
			decision.Next = model.SessionLongBreak
		} else {
			decision.Next = model.SessionShortBreak
		}
		decision.AutoStart = settings.AutoStartBreaks
	case model.SessionLongBreak:
		decision.Next = model.SessionFocus
		decision.FocusSessionCount = 0
		decision.AutoStart = settings.AutoStartPomodoros
	default:
		decision.Next = model.SessionFocus
		decision.AutoStart = settings.AutoStartPomodoros
	}

	return decision
}
