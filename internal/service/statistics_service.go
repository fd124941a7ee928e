package service

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"focustimer/internal/model"
)

// StatisticsService maintains the derived statistics view. The session log
// remains the source of truth; Rebuild recomputes everything from it.
type StatisticsService struct {
	store    KeyValueStore
	sessions *SessionLog
	logger   *slog.Logger
	now      func() time.Time
	loc      *time.Location

	mu    sync.RWMutex
	stats model.Statistics
}

func NewStatisticsService(store KeyValueStore, sessions *SessionLog, logger *slog.Logger) *StatisticsService {
	return &StatisticsService{
		store:    store,
		sessions: sessions,
		logger:   logger,
		now:      time.Now,
		loc:      time.Local,
		stats:    model.EmptyStatistics(),
	}
}

// SetClock overrides the time source and the zone used for daily buckets.
func (s *StatisticsService) SetClock(now func() time.Time, loc *time.Location) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
	s.loc = loc
}

// Load restores persisted statistics, rebuilding from the session log when
// they are missing or unreadable.
func (s *StatisticsService) Load(ctx context.Context) {
	var stored model.Statistics
	found, err := readJSON(ctx, s.store, KeyStatistics, &stored)
	if err != nil {
		s.logger.Warn("load statistics, rebuilding from session log", "error", err)
	}
	if err != nil || !found {
		if rebuildErr := s.Rebuild(ctx); rebuildErr != nil {
			s.logger.Error("persist rebuilt statistics", "error", rebuildErr)
		}
		return
	}

	s.mu.Lock()
	s.stats = summarize(stored, s.now().In(s.loc))
	s.mu.Unlock()
}

// AddSession folds a finalized session into its day and recomputes the
// global aggregates.
func (s *StatisticsService) AddSession(ctx context.Context, session model.Session) error {
	if !session.Finalized() {
		return nil
	}

	s.mu.Lock()
	stats := s.stats
	stats.DailyStats = copyDaily(s.stats.DailyStats)
	foldSession(&stats, session, s.loc)
	s.stats = summarize(stats, s.now().In(s.loc))
	snapshot := s.stats
	s.mu.Unlock()

	return writeJSON(ctx, s.store, KeyStatistics, snapshot)
}

func (s *StatisticsService) Rebuild(ctx context.Context) error {
	s.mu.Lock()
	s.stats = buildStatistics(s.sessions.All(), s.now().In(s.loc), s.loc)
	snapshot := s.stats
	s.mu.Unlock()

	return writeJSON(ctx, s.store, KeyStatistics, snapshot)
}

// Current returns the statistics with the current streak evaluated against
// today.
func (s *StatisticsService) Current() model.Statistics {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := summarize(model.Statistics{DailyStats: copyDaily(s.stats.DailyStats)}, s.now().In(s.loc))
	return out
}

// DailyRange returns the buckets whose date falls within [from, to], oldest
// first.
func (s *StatisticsService) DailyRange(from, to time.Time) []model.DailyStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	fromKey := from.In(s.loc).Format(model.DateLayout)
	toKey := to.In(s.loc).Format(model.DateLayout)

	out := make([]model.DailyStats, 0)
	for date, day := range s.stats.DailyStats {
		if date >= fromKey && date <= toKey {
			day.Tasks = append([]string{}, day.Tasks...)
			out = append(out, day)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// Reset discards statistics and the session history.
func (s *StatisticsService) Reset(ctx context.Context) error {
	s.mu.Lock()
	s.stats = model.EmptyStatistics()
	s.mu.Unlock()

	if err := s.store.Remove(ctx, KeyStatistics); err != nil {
		return err
	}
	return s.sessions.Clear(ctx)
}

func copyDaily(in map[string]model.DailyStats) map[string]model.DailyStats {
	out := make(map[string]model.DailyStats, len(in))
	for date, day := range in {
		day.Tasks = append([]string{}, day.Tasks...)
		out[date] = day
	}
	return out
}
