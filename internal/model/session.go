package model

import (
	"fmt"
	"time"
)

type SessionType string

const (
	SessionFocus      SessionType = "focus"
	SessionShortBreak SessionType = "short_break"
	SessionLongBreak  SessionType = "long_break"
)

func (t SessionType) Valid() bool {
	switch t {
	case SessionFocus, SessionShortBreak, SessionLongBreak:
		return true
	}
	return false
}

func (t SessionType) IsBreak() bool {
	return t == SessionShortBreak || t == SessionLongBreak
}

// Label returns the human-readable name shown by clients.
func (t SessionType) Label() string {
	switch t {
	case SessionFocus:
		return "Focus"
	case SessionShortBreak:
		return "Short Break"
	case SessionLongBreak:
		return "Long Break"
	default:
		return string(t)
	}
}

func (t SessionType) MarshalText() ([]byte, error) {
	return []byte(t), nil
}

func (t *SessionType) UnmarshalText(text []byte) error {
	value := SessionType(text)
	if !value.Valid() {
		return fmt.Errorf("unknown session type %q", string(text))
	}
	*t = value
	return nil
}

type TimerState string

const (
	StateIdle      TimerState = "idle"
	StateRunning   TimerState = "running"
	StatePaused    TimerState = "paused"
	StateCompleted TimerState = "completed"
)

func (s TimerState) Valid() bool {
	switch s {
	case StateIdle, StateRunning, StatePaused, StateCompleted:
		return true
	}
	return false
}

func (s TimerState) Label() string {
	switch s {
	case StateIdle:
		return "Ready"
	case StateRunning:
		return "Running"
	case StatePaused:
		return "Paused"
	case StateCompleted:
		return "Completed"
	default:
		return string(s)
	}
}

func (s TimerState) MarshalText() ([]byte, error) {
	return []byte(s), nil
}

func (s *TimerState) UnmarshalText(text []byte) error {
	value := TimerState(text)
	if !value.Valid() {
		return fmt.Errorf("unknown timer state %q", string(text))
	}
	*s = value
	return nil
}

// Session is one focus or break period. Once EndTime is set the record is
// final and must not be mutated.
type Session struct {
	ID                 string      `json:"id"`
	Type               SessionType `json:"type"`
	StartTime          time.Time   `json:"startTime"`
	EndTime            *time.Time  `json:"endTime,omitempty"`
	PlannedDuration    int         `json:"plannedDuration"`
	ActualDuration     *int        `json:"actualDuration,omitempty"`
	Completed          bool        `json:"completed"`
	Interrupted        bool        `json:"interrupted"`
	TaskLabel          *string     `json:"taskLabel,omitempty"`
	FocusSessionNumber *int        `json:"focusSessionNumber,omitempty"`
}

func (s Session) Finalized() bool {
	return s.EndTime != nil
}

// Duration is the time the session actually ran, falling back to the plan
// for records written without an actual duration.
func (s Session) Duration() int {
	if s.ActualDuration != nil {
		return *s.ActualDuration
	}
	return s.PlannedDuration
}

func (s Session) Label() string {
	if s.TaskLabel == nil {
		return ""
	}
	return *s.TaskLabel
}

// TimerStatus is the live state of the timer. Durations are in seconds.
type TimerStatus struct {
	State             TimerState  `json:"state"`
	SessionType       SessionType `json:"sessionType"`
	TimeRemaining     int         `json:"timeRemaining"`
	TimeElapsed       int         `json:"timeElapsed"`
	TotalDuration     int         `json:"totalDuration"`
	CurrentSession    *Session    `json:"currentSession"`
	FocusSessionCount int         `json:"focusSessionCount"`
	TaskLabel         *string     `json:"taskLabel"`
}

// Clone returns a deep copy so callers outside the engine cannot alias its
// current session.
func (s TimerStatus) Clone() TimerStatus {
	out := s
	if s.CurrentSession != nil {
		session := *s.CurrentSession
		out.CurrentSession = &session
	}
	if s.TaskLabel != nil {
		label := *s.TaskLabel
		out.TaskLabel = &label
	}
	return out
}

// Snapshot is the persisted form of TimerStatus.
type Snapshot struct {
	TimerStatus
	Timestamp time.Time `json:"timestamp"`
}
