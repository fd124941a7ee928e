package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	apperrors "focustimer/internal/errors"
	"focustimer/internal/model"
	"focustimer/internal/repository"
)

type manualTicker struct {
	mu     sync.Mutex
	onTick func()
	starts int
	stops  int
}

func (t *manualTicker) Start(onTick func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onTick = onTick
	t.starts++
}

func (t *manualTicker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onTick = nil
	t.stops++
}

func (t *manualTicker) current() func() {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.onTick
}

func (t *manualTicker) active() bool {
	return t.current() != nil
}

// fire delivers n ticks, stopping early when the ticker is stopped.
func (t *manualTicker) fire(n int) int {
	delivered := 0
	for i := 0; i < n; i++ {
		fn := t.current()
		if fn == nil {
			break
		}
		fn()
		delivered++
	}
	return delivered
}

type recordingAlerter struct {
	mu             sync.Mutex
	completed      []model.Session
	ambientStarts  int
	ambientStops   int
	settingsEvents int
}

func (a *recordingAlerter) SessionCompleted(session model.Session, _ model.Settings) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.completed = append(a.completed, session)
}

func (a *recordingAlerter) AmbientStart(model.Settings) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.ambientStarts++
}

func (a *recordingAlerter) AmbientStop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.ambientStops++
}

func (a *recordingAlerter) SettingsChanged(model.Settings) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.settingsEvents++
}

// flakyStore fails writes while broken is set.
type flakyStore struct {
	*repository.MemoryStore
	mu     sync.Mutex
	broken bool
	writes int
}

func newFlakyStore() *flakyStore {
	return &flakyStore{MemoryStore: repository.NewMemoryStore()}
}

func (s *flakyStore) setBroken(broken bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.broken = broken
}

func (s *flakyStore) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	broken := s.broken
	s.writes++
	s.mu.Unlock()
	if broken {
		return apperrors.Storage("set "+key, apperrors.ErrStorageQuota)
	}
	return s.MemoryStore.Set(ctx, key, value)
}

func (s *flakyStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	broken := s.broken
	s.mu.Unlock()
	if broken {
		return nil, apperrors.Storage("get "+key, errors.New("disk unplugged"))
	}
	return s.MemoryStore.Get(ctx, key)
}

type testEnv struct {
	store    *flakyStore
	settings *SettingsService
	sessions *SessionLog
	stats    *StatisticsService
	data     *DataService
	timer    *TimerService
	ticker   *manualTicker
	alerts   *recordingAlerter
	now      *time.Time
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEnv(t *testing.T, store *flakyStore, configure func(*model.Settings)) *testEnv {
	t.Helper()
	if store == nil {
		store = newFlakyStore()
	}
	ctx := context.Background()
	now := time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)
	env := &testEnv{store: store, ticker: &manualTicker{}, alerts: &recordingAlerter{}, now: &now}
	clock := func() time.Time { return *env.now }

	logger := testLogger()
	env.settings = NewSettingsService(store, logger)
	env.settings.Load(ctx)
	if configure != nil {
		current := env.settings.Current()
		configure(&current)
		if _, err := env.settings.Update(ctx, patchOf(current)); err != nil {
			t.Fatalf("configure settings: %v", err)
		}
	}

	env.sessions = NewSessionLog(store, logger, DefaultSessionRetention)
	env.sessions.Load(ctx)
	env.stats = NewStatisticsService(store, env.sessions, logger)
	env.stats.SetClock(clock, time.UTC)
	env.stats.Load(ctx)
	env.data = NewDataService(env.settings, env.sessions, env.stats)
	env.data.now = clock

	env.timer = NewTimerService(TimerServiceDeps{
		Store:      store,
		Settings:   env.settings,
		Sessions:   env.sessions,
		Statistics: env.stats,
		Alerts:     env.alerts,
		Ticker:     env.ticker,
		Logger:     logger,
		Now:        clock,
	})
	env.timer.Load(ctx)
	t.Cleanup(env.timer.Close)
	return env
}

func (e *testEnv) advance(d time.Duration) {
	*e.now = e.now.Add(d)
}

func patchOf(s model.Settings) model.SettingsPatch {
	return model.SettingsPatch{
		FocusDuration:      &s.FocusDuration,
		ShortBreakDuration: &s.ShortBreakDuration,
		LongBreakDuration:  &s.LongBreakDuration,
		LongBreakInterval:  &s.LongBreakInterval,
		AutoStartBreaks:    &s.AutoStartBreaks,
		AutoStartPomodoros: &s.AutoStartPomodoros,
	}
}
