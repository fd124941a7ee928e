package model

import "time"

// DateLayout is the key format for daily buckets.
const DateLayout = "2006-01-02"

// ExportVersion is written into every export document.
const ExportVersion = "1.0.0"

// DailyStats aggregates the sessions that started on one local calendar date.
// Times are in seconds.
type DailyStats struct {
	Date                string   `json:"date"`
	FocusSessions       int      `json:"focusSessions"`
	TotalFocusTime      int      `json:"totalFocusTime"`
	TotalBreakTime      int      `json:"totalBreakTime"`
	CompletedSessions   int      `json:"completedSessions"`
	InterruptedSessions int      `json:"interruptedSessions"`
	Tasks               []string `json:"tasks"`
	FocusSecondsByHour  [24]int  `json:"focusSecondsByHour"`
}

func NewDailyStats(date string) DailyStats {
	return DailyStats{Date: date, Tasks: []string{}}
}

// Active reports whether the day counts towards streaks.
func (d DailyStats) Active() bool {
	return d.FocusSessions > 0
}

// Statistics is derived from the session log and can be rebuilt at any time.
type Statistics struct {
	TotalFocusSessions int                   `json:"totalFocusSessions"`
	TotalFocusTime     int                   `json:"totalFocusTime"`
	TotalBreakTime     int                   `json:"totalBreakTime"`
	LongestStreak      int                   `json:"longestStreak"`
	CurrentStreak      int                   `json:"currentStreak"`
	LastSessionDate    Option[string]        `json:"lastSessionDate"`
	DailyStats         map[string]DailyStats `json:"dailyStats"`
	AverageFocusTime   float64               `json:"averageFocusTime"`
	MostProductiveHour Option[int]           `json:"mostProductiveHour"`
}

func EmptyStatistics() Statistics {
	return Statistics{DailyStats: map[string]DailyStats{}}
}

// ExportData is the portable document produced by an export.
type ExportData struct {
	Version    string     `json:"version"`
	ExportDate time.Time  `json:"exportDate"`
	Statistics Statistics `json:"statistics"`
	Sessions   []Session  `json:"sessions"`
	Settings   *Settings  `json:"settings,omitempty"`
}
