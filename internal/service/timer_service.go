package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"focustimer/internal/model"
	"focustimer/internal/timer"
	"focustimer/internal/validation"
)

// Alerter delivers user-facing side effects. Implementations must not block.
type Alerter interface {
	SessionCompleted(session model.Session, settings model.Settings)
	AmbientStart(settings model.Settings)
	AmbientStop()
	SettingsChanged(settings model.Settings)
}

type TimerServiceDeps struct {
	Store          KeyValueStore
	Settings       *SettingsService
	Sessions       *SessionLog
	Statistics     *StatisticsService
	Alerts         Alerter
	Ticker         timer.TickSource
	Logger         *slog.Logger
	Now            func() time.Time
	MaxSnapshotAge time.Duration
	WriteTimeout   time.Duration
}

// TimerService owns the state machine and serializes every event reaching
// it: user actions, ticks and settings changes.
type TimerService struct {
	store        KeyValueStore
	settings     *SettingsService
	sessions     *SessionLog
	statistics   *StatisticsService
	alerts       Alerter
	ticker       timer.TickSource
	logger       *slog.Logger
	now          func() time.Time
	maxAge       time.Duration
	writeTimeout time.Duration

	mu          sync.Mutex
	machine     *timer.Machine
	opCtx       context.Context
	completed   *model.Session
	ticking     bool
	tickGen     uint64
	tickSession string
	subscribers map[int]chan model.TimerStatus
	nextSubID   int
}

func NewTimerService(deps TimerServiceDeps) *TimerService {
	s := &TimerService{
		store:        deps.Store,
		settings:     deps.Settings,
		sessions:     deps.Sessions,
		statistics:   deps.Statistics,
		alerts:       deps.Alerts,
		ticker:       deps.Ticker,
		logger:       deps.Logger,
		now:          deps.Now,
		maxAge:       deps.MaxSnapshotAge,
		writeTimeout: deps.WriteTimeout,
		subscribers:  make(map[int]chan model.TimerStatus),
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.maxAge <= 0 {
		s.maxAge = timer.DefaultMaxSnapshotAge
	}
	if s.writeTimeout <= 0 {
		s.writeTimeout = 5 * time.Second
	}
	if s.ticker == nil {
		s.ticker = timer.NewTicker(time.Second)
	}
	if s.alerts == nil {
		s.alerts = nopAlerter{}
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.machine = timer.NewMachine(timer.Config{
		Settings: deps.Settings,
		Observer: timerObserver{s},
		Now:      s.now,
	})
	deps.Settings.Subscribe(s.onSettingsChanged)
	return s
}

// Load restores the last snapshot if it is recent enough. Anything else
// starts a fresh idle Focus session.
func (s *TimerService) Load(ctx context.Context) model.TimerStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opCtx = ctx
	defer func() { s.opCtx = nil }()

	fresh := timer.InitialStatus(s.settings.Current())

	var snapshot model.Snapshot
	found, err := readJSON(ctx, s.store, KeyTimerState, &snapshot)
	switch {
	case err != nil:
		s.logger.Warn("load timer snapshot, starting fresh", "error", err)
		s.machine.Restore(fresh)
		return s.machine.Status()
	case !found:
		s.machine.Restore(fresh)
		return s.machine.Status()
	}

	status, err := timer.Recover(snapshot, s.now(), s.maxAge)
	if err != nil {
		if errors.Is(err, timer.ErrStaleSnapshot) {
			s.logger.Info("discarding timer snapshot", "reason", err.Error())
		} else {
			s.logger.Warn("timer snapshot unusable, starting fresh", "error", err)
		}
		if removeErr := s.store.Remove(ctx, KeyTimerState); removeErr != nil {
			s.logger.Warn("remove timer snapshot", "error", removeErr)
		}
		s.machine.Restore(fresh)
		return s.machine.Status()
	}

	s.machine.Restore(status)
	s.machine.UpdateFromSettings()
	restored := s.machine.Status()
	s.persist(model.Snapshot{TimerStatus: restored, Timestamp: s.now()})
	s.logger.Info("timer restored", "state", restored.State, "session_type", restored.SessionType, "remaining", restored.TimeRemaining)
	return restored
}

func (s *TimerService) Status() model.TimerStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.machine.Status()
}

func (s *TimerService) Start(ctx context.Context) (model.TimerStatus, bool) {
	return s.apply(ctx, (*timer.Machine).Start)
}

func (s *TimerService) Pause(ctx context.Context) (model.TimerStatus, bool) {
	return s.apply(ctx, (*timer.Machine).Pause)
}

func (s *TimerService) Resume(ctx context.Context) (model.TimerStatus, bool) {
	return s.apply(ctx, (*timer.Machine).Resume)
}

func (s *TimerService) Reset(ctx context.Context) (model.TimerStatus, bool) {
	return s.apply(ctx, (*timer.Machine).Reset)
}

func (s *TimerService) Skip(ctx context.Context) (model.TimerStatus, bool) {
	return s.apply(ctx, (*timer.Machine).Skip)
}

func (s *TimerService) StartNextSession(ctx context.Context) (model.TimerStatus, bool) {
	return s.apply(ctx, func(m *timer.Machine) bool {
		m.StartNextSession()
		return true
	})
}

// Toggle is the primary action: start, pause or resume depending on state.
func (s *TimerService) Toggle(ctx context.Context) (model.TimerStatus, bool) {
	return s.apply(ctx, func(m *timer.Machine) bool {
		switch m.Status().State {
		case model.StateRunning:
			return m.Pause()
		case model.StatePaused:
			return m.Resume()
		default:
			return m.Start()
		}
	})
}

// SetTaskLabel sanitizes label before handing it to the machine.
func (s *TimerService) SetTaskLabel(ctx context.Context, label string) model.TimerStatus {
	clean := validation.SanitizeTaskLabel(label)
	status, _ := s.apply(ctx, func(m *timer.Machine) bool {
		m.SetTaskLabel(clean)
		return true
	})
	return status
}

// Subscribe returns a channel receiving the latest status after every
// change. Slow readers only see the most recent value.
func (s *TimerService) Subscribe() (<-chan model.TimerStatus, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	ch := make(chan model.TimerStatus, 1)
	s.subscribers[id] = ch

	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if sub, ok := s.subscribers[id]; ok {
			delete(s.subscribers, id)
			close(sub)
		}
	}
}

// Close stops the tick source and ambient audio. The last snapshot stays in
// storage for the next Load.
func (s *TimerService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ticking {
		s.ticking = false
		s.tickGen++
		s.ticker.Stop()
	}
	s.alerts.AmbientStop()
}

func (s *TimerService) apply(ctx context.Context, op func(*timer.Machine) bool) (model.TimerStatus, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opCtx = ctx
	defer func() { s.opCtx = nil }()

	previous := s.machine.Status().State
	applied := op(s.machine)
	s.settle(previous)
	return s.machine.Status(), applied
}

func (s *TimerService) onTick(generation uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ticking || generation != s.tickGen {
		return
	}

	previous := s.machine.Status().State
	if s.machine.Tick() {
		s.settle(previous)
	}
}

func (s *TimerService) onSettingsChanged(settings model.Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous := s.machine.Status().State
	s.machine.UpdateFromSettings()
	s.settle(previous)
	s.alerts.SettingsChanged(settings)
}

// settle runs after every machine event with s.mu held. A natural completion
// is announced and handed to the scheduler, then the tick source and ambient
// audio are aligned with the resulting state.
func (s *TimerService) settle(previous model.TimerState) {
	if s.completed != nil {
		session := *s.completed
		s.completed = nil
		s.alerts.SessionCompleted(session, s.settings.Current())
		s.machine.StartNextSession()
	}

	status := s.machine.Status()
	s.syncTicker(status)

	switch {
	case status.State == model.StateRunning && previous != model.StateRunning:
		s.alerts.AmbientStart(s.settings.Current())
	case status.State != model.StateRunning && previous == model.StateRunning:
		s.alerts.AmbientStop()
	}

	s.publish(status)
}

func (s *TimerService) syncTicker(status model.TimerStatus) {
	if status.State != model.StateRunning {
		if s.ticking {
			s.ticking = false
			s.tickGen++
			s.ticker.Stop()
		}
		return
	}

	sessionID := ""
	if status.CurrentSession != nil {
		sessionID = status.CurrentSession.ID
	}
	if s.ticking && s.tickSession == sessionID {
		return
	}

	s.tickGen++
	generation := s.tickGen
	s.ticking = true
	s.tickSession = sessionID
	s.ticker.Start(func() { s.onTick(generation) })
}

func (s *TimerService) publish(status model.TimerStatus) {
	for _, ch := range s.subscribers {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- status.Clone():
		default:
		}
	}
}

func (s *TimerService) persist(snapshot model.Snapshot) {
	ctx, cancel := s.writeContext()
	defer cancel()
	if err := writeJSON(ctx, s.store, KeyTimerState, snapshot); err != nil {
		s.logger.Warn("persist timer snapshot", "error", err)
	}
}

func (s *TimerService) writeContext() (context.Context, context.CancelFunc) {
	base := s.opCtx
	if base == nil {
		base = context.Background()
	}
	return context.WithTimeout(context.WithoutCancel(base), s.writeTimeout)
}

// timerObserver receives machine callbacks while s.mu is held.
type timerObserver struct {
	s *TimerService
}

func (o timerObserver) StatusChanged(snapshot model.Snapshot) {
	o.s.persist(snapshot)
}

func (o timerObserver) SessionFinalized(session model.Session) {
	s := o.s
	ctx, cancel := s.writeContext()
	defer cancel()

	if err := s.sessions.Append(ctx, session); err != nil {
		s.logger.Warn("append session log", "session_id", session.ID, "error", err)
	}
	if err := s.statistics.AddSession(ctx, session); err != nil {
		s.logger.Warn("update statistics", "session_id", session.ID, "error", err)
	}
	if session.Completed {
		completed := session
		s.completed = &completed
	}
	s.logger.Info("session finalized",
		"session_id", session.ID,
		"type", session.Type,
		"completed", session.Completed,
		"duration", session.Duration(),
	)
}

type nopAlerter struct{}

func (nopAlerter) SessionCompleted(model.Session, model.Settings) {}
func (nopAlerter) AmbientStart(model.Settings)                    {}
func (nopAlerter) AmbientStop()                                   {}
func (nopAlerter) SettingsChanged(model.Settings)                 {}
