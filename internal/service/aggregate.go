package service

import (
	"sort"
	"time"

	"focustimer/internal/model"
)

// foldSession adds one finalized session to its daily bucket. Sessions
// without an end time are ignored.
func foldSession(stats *model.Statistics, session model.Session, loc *time.Location) {
	if !session.Finalized() || !session.Type.Valid() {
		return
	}
	if stats.DailyStats == nil {
		stats.DailyStats = map[string]model.DailyStats{}
	}

	start := session.StartTime.In(loc)
	key := start.Format(model.DateLayout)
	day, ok := stats.DailyStats[key]
	if !ok {
		day = model.NewDailyStats(key)
	}

	duration := session.Duration()
	if session.Type == model.SessionFocus {
		day.TotalFocusTime += duration
		if session.Completed {
			day.FocusSessions++
			day.FocusSecondsByHour[start.Hour()] += duration
		}
		if label := session.Label(); label != "" && !contains(day.Tasks, label) {
			day.Tasks = append(day.Tasks, label)
		}
	} else {
		day.TotalBreakTime += duration
	}

	if session.Completed {
		day.CompletedSessions++
	} else {
		day.InterruptedSessions++
	}

	stats.DailyStats[key] = day
}

// summarize recomputes every global aggregate from the daily buckets.
func summarize(stats model.Statistics, today time.Time) model.Statistics {
	out := model.EmptyStatistics()
	out.DailyStats = stats.DailyStats
	if out.DailyStats == nil {
		out.DailyStats = map[string]model.DailyStats{}
	}

	dates := make([]string, 0, len(out.DailyStats))
	for date := range out.DailyStats {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	var hourly [24]int
	active := make([]string, 0, len(dates))
	for _, date := range dates {
		day := out.DailyStats[date]
		out.TotalFocusSessions += day.FocusSessions
		out.TotalFocusTime += day.TotalFocusTime
		out.TotalBreakTime += day.TotalBreakTime
		for hour, seconds := range day.FocusSecondsByHour {
			hourly[hour] += seconds
		}
		if day.Active() {
			active = append(active, date)
		}
	}

	if len(dates) > 0 {
		out.LastSessionDate = model.Some(dates[len(dates)-1])
	}
	if len(active) > 0 {
		out.AverageFocusTime = float64(out.TotalFocusTime) / float64(len(active))
	}
	out.LongestStreak, out.CurrentStreak = streaks(active, today)

	best, bestSeconds := 0, 0
	for hour, seconds := range hourly {
		if seconds > bestSeconds {
			best, bestSeconds = hour, seconds
		}
	}
	if bestSeconds > 0 {
		out.MostProductiveHour = model.Some(best)
	}

	return out
}

// streaks walks ascending active dates. The current streak only counts when
// the last active date is today or yesterday.
func streaks(active []string, today time.Time) (longest, current int) {
	if len(active) == 0 {
		return 0, 0
	}

	run := 0
	var previous time.Time
	for i, date := range active {
		day, err := time.Parse(model.DateLayout, date)
		if err != nil {
			continue
		}
		if i > 0 && daysBetween(previous, day) == 1 {
			run++
		} else {
			run = 1
		}
		longest = max(longest, run)
		previous = day
	}

	todayKey, _ := time.Parse(model.DateLayout, today.Format(model.DateLayout))
	if gap := daysBetween(previous, todayKey); gap == 0 || gap == 1 {
		current = run
	}
	return longest, current
}

// daysBetween counts calendar days between two dates parsed in UTC.
func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}

func buildStatistics(sessions []model.Session, today time.Time, loc *time.Location) model.Statistics {
	stats := model.EmptyStatistics()
	for _, session := range sessions {
		foldSession(&stats, session, loc)
	}
	return summarize(stats, today)
}

func contains(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}
