// Package timer holds the Pomodoro state machine, its scheduling policy and
// the tick source that drives it.
package timer

import (
	"time"

	"github.com/google/uuid"

	"focustimer/internal/model"
)

// SettingsSource supplies the settings in effect at the moment of a
// transition.
type SettingsSource interface {
	Current() model.Settings
}

// Observer receives every applied mutation. Calls happen synchronously on the
// goroutine driving the machine.
type Observer interface {
	StatusChanged(snapshot model.Snapshot)
	SessionFinalized(session model.Session)
}

type Config struct {
	Settings SettingsSource
	Observer Observer
	Now      func() time.Time
	NewID    func() string
}

// Machine is the timer state machine. It is not safe for concurrent use; the
// owner serializes calls.
type Machine struct {
	status   model.TimerStatus
	settings SettingsSource
	observer Observer
	now      func() time.Time
	newID    func() string
}

func NewMachine(cfg Config) *Machine {
	m := &Machine{
		settings: cfg.Settings,
		observer: cfg.Observer,
		now:      cfg.Now,
		newID:    cfg.NewID,
	}
	if m.observer == nil {
		m.observer = nopObserver{}
	}
	if m.now == nil {
		m.now = time.Now
	}
	if m.newID == nil {
		m.newID = uuid.NewString
	}
	m.status = InitialStatus(cfg.Settings.Current())
	return m
}

// InitialStatus is the state of a fresh timer: an idle Focus session.
func InitialStatus(settings model.Settings) model.TimerStatus {
	total := settings.DurationSeconds(model.SessionFocus)
	return model.TimerStatus{
		State:         model.StateIdle,
		SessionType:   model.SessionFocus,
		TimeRemaining: total,
		TotalDuration: total,
	}
}

func (m *Machine) Status() model.TimerStatus {
	return m.status.Clone()
}

// Restore replaces the live status without notifying the observer.
func (m *Machine) Restore(status model.TimerStatus) {
	m.status = status.Clone()
}

func (m *Machine) Start() bool {
	if m.status.State != model.StateIdle && m.status.State != model.StateCompleted {
		return false
	}
	if m.status.State == model.StateCompleted {
		m.status.TimeElapsed = 0
		m.status.TimeRemaining = m.status.TotalDuration
	}

	session := &model.Session{
		ID:              m.newID(),
		Type:            m.status.SessionType,
		StartTime:       m.now(),
		PlannedDuration: m.status.TotalDuration,
		TaskLabel:       copyString(m.status.TaskLabel),
	}
	if session.Type == model.SessionFocus {
		number := m.status.FocusSessionCount + 1
		session.FocusSessionNumber = &number
	}

	m.status.CurrentSession = session
	m.status.State = model.StateRunning
	m.changed()
	return true
}

func (m *Machine) Pause() bool {
	if m.status.State != model.StateRunning {
		return false
	}
	m.status.State = model.StatePaused
	m.changed()
	return true
}

func (m *Machine) Resume() bool {
	if m.status.State != model.StatePaused {
		return false
	}
	m.status.State = model.StateRunning
	m.changed()
	return true
}

// Reset abandons the active session and returns to Idle with the full
// duration of the current session type.
func (m *Machine) Reset() bool {
	if m.status.State != model.StateRunning && m.status.State != model.StatePaused {
		return false
	}
	m.finalize(false)
	m.status.State = model.StateIdle
	m.status.TimeRemaining = m.status.TotalDuration
	m.status.TimeElapsed = 0
	m.changed()
	return true
}

// Skip abandons the active session, if any, and moves to the next one.
func (m *Machine) Skip() bool {
	m.finalize(false)
	m.StartNextSession()
	return true
}

// Tick advances a running timer by one second and completes the session when
// no time remains.
func (m *Machine) Tick() bool {
	if m.status.State != model.StateRunning {
		return false
	}

	m.status.TimeElapsed++
	m.status.TimeRemaining = max(0, m.status.TotalDuration-m.status.TimeElapsed)
	if m.status.TimeRemaining == 0 {
		m.complete()
		return true
	}

	m.changed()
	return true
}

// StartNextSession applies the scheduling policy to the current session type
// and auto-starts the result when the settings ask for it.
func (m *Machine) StartNextSession() {
	m.finalize(false)

	settings := m.settings.Current()
	decision := NextSession(m.status.SessionType, m.status.FocusSessionCount, settings)
	total := settings.DurationSeconds(decision.Next)

	m.status.SessionType = decision.Next
	m.status.FocusSessionCount = decision.FocusSessionCount
	if decision.Next != model.SessionFocus {
		m.status.TaskLabel = nil
	}
	m.status.State = model.StateIdle
	m.status.CurrentSession = nil
	m.status.TotalDuration = total
	m.status.TimeRemaining = total
	m.status.TimeElapsed = 0
	m.changed()

	if decision.AutoStart {
		m.Start()
	}
}

// UpdateFromSettings picks up new durations while Idle. In any other state
// the change is deferred until the scheduler next enters the session type.
func (m *Machine) UpdateFromSettings() bool {
	if m.status.State != model.StateIdle {
		return false
	}
	total := m.settings.Current().DurationSeconds(m.status.SessionType)
	m.status.TotalDuration = total
	m.status.TimeRemaining = total
	m.status.TimeElapsed = 0
	m.changed()
	return true
}

// SetTaskLabel stores an already sanitized label. Empty clears it.
func (m *Machine) SetTaskLabel(label string) {
	if label == "" {
		m.status.TaskLabel = nil
	} else {
		m.status.TaskLabel = &label
	}
	m.changed()
}

func (m *Machine) complete() {
	m.finalize(true)
	if m.status.SessionType == model.SessionFocus {
		m.status.FocusSessionCount++
	}
	m.status.State = model.StateCompleted
	m.changed()
}

func (m *Machine) finalize(completed bool) {
	session := m.status.CurrentSession
	if session == nil {
		return
	}
	end := m.now()
	actual := m.status.TimeElapsed
	session.EndTime = &end
	session.ActualDuration = &actual
	session.Completed = completed
	session.Interrupted = !completed
	m.status.CurrentSession = nil

	m.observer.SessionFinalized(*session)
}

func (m *Machine) changed() {
	m.observer.StatusChanged(model.Snapshot{
		TimerStatus: m.status.Clone(),
		Timestamp:   m.now(),
	})
}

func copyString(value *string) *string {
	if value == nil {
		return nil
	}
	out := *value
	return &out
}

type nopObserver struct{}

func (nopObserver) StatusChanged(model.Snapshot)  {}
func (nopObserver) SessionFinalized(model.Session) {}
