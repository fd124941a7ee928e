package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"focustimer/internal/app"
	"focustimer/internal/daterange"
	"focustimer/internal/model"
)

// SetTaskLabelArgs defines arguments for the set_task_label tool
type SetTaskLabelArgs struct {
	Label string `json:"label"`
}

// StatisticsArgs defines arguments for the statistics_summary tool
type StatisticsArgs struct {
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
}

// RecentSessionsArgs defines arguments for the recent_sessions tool
type RecentSessionsArgs struct {
	Limit int `json:"limit,omitempty"`
}

// TimerResult is returned by every timer tool
type TimerResult struct {
	State     model.TimerStatus `json:"state"`
	Changed   bool              `json:"changed"`
	Remaining string            `json:"remaining"`
}

// StatisticsSummary is returned by the statistics_summary tool
type StatisticsSummary struct {
	TotalFocusSessions int                `json:"total_focus_sessions"`
	TotalFocusMinutes  int                `json:"total_focus_minutes"`
	TotalBreakMinutes  int                `json:"total_break_minutes"`
	CurrentStreak      int                `json:"current_streak"`
	LongestStreak      int                `json:"longest_streak"`
	AverageFocusTime   float64            `json:"average_focus_seconds"`
	MostProductiveHour *int               `json:"most_productive_hour,omitempty"`
	Days               []model.DailyStats `json:"days"`
}

type handlerFunc = func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)

// NewServer registers the timer and statistics tools against a.
func NewServer(a *app.App) *server.MCPServer {
	s := server.NewMCPServer(
		"focustimer",
		"1.0.0",
	)

	s.AddTool(mcp.NewTool("timer_status",
		mcp.WithDescription("Get the current Pomodoro timer state: session type, remaining time, cycle position and task label"),
	), makeStatusHandler(a))

	transitions := []struct {
		name, description string
		op                func(*app.App, context.Context) (model.TimerStatus, bool)
	}{
		{"timer_start", "Start the timer. From a completed session this starts the same session type again.", func(a *app.App, ctx context.Context) (model.TimerStatus, bool) { return a.Timer.Start(ctx) }},
		{"timer_pause", "Pause the running timer", func(a *app.App, ctx context.Context) (model.TimerStatus, bool) { return a.Timer.Pause(ctx) }},
		{"timer_resume", "Resume a paused timer", func(a *app.App, ctx context.Context) (model.TimerStatus, bool) { return a.Timer.Resume(ctx) }},
		{"timer_reset", "Reset the current session to its full duration. An active session is recorded as interrupted.", func(a *app.App, ctx context.Context) (model.TimerStatus, bool) { return a.Timer.Reset(ctx) }},
		{"timer_skip", "Skip to the next session in the cycle. An active session is recorded as interrupted.", func(a *app.App, ctx context.Context) (model.TimerStatus, bool) { return a.Timer.Skip(ctx) }},
		{"timer_next", "After a session completes, advance to the next session in the cycle", func(a *app.App, ctx context.Context) (model.TimerStatus, bool) { return a.Timer.StartNextSession(ctx) }},
	}
	for _, t := range transitions {
		s.AddTool(mcp.NewTool(t.name, mcp.WithDescription(t.description)), makeTransitionHandler(a, t.op))
	}

	s.AddTool(mcp.NewTool("set_task_label",
		mcp.WithDescription("Set the label of the task being worked on. An empty label clears it."),
		mcp.WithString("label",
			mcp.Required(),
			mcp.Description("Task label. Markup is stripped and it is cut to 100 characters")),
	), makeSetTaskLabelHandler(a))

	s.AddTool(mcp.NewTool("statistics_summary",
		mcp.WithDescription("Get focus totals, streaks and a per-day breakdown"),
		mcp.WithString("from",
			mcp.Description("First day of the breakdown, a date (2026-05-01) or phrase ('last monday'). Default: seven days ago")),
		mcp.WithString("to",
			mcp.Description("Last day of the breakdown. Default: today")),
	), makeStatisticsHandler(a))

	s.AddTool(mcp.NewTool("recent_sessions",
		mcp.WithDescription("List finished focus and break sessions, newest first"),
		mcp.WithNumber("limit",
			mcp.Description("Max sessions to return (default: 20)")),
	), makeRecentSessionsHandler(a))

	return s
}

// StartServer serves the tools over stdio until the client disconnects.
func StartServer(a *app.App) error {
	return server.ServeStdio(NewServer(a))
}

func makeStatusHandler(a *app.App) handlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return timerResult(a.Timer.Status(), false)
	}
}

func makeTransitionHandler(a *app.App, op func(*app.App, context.Context) (model.TimerStatus, bool)) handlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		status, changed := op(a, ctx)
		return timerResult(status, changed)
	}
}

func makeSetTaskLabelHandler(a *app.App) handlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args SetTaskLabelArgs
		if err := decodeArgs(request, &args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		return timerResult(a.Timer.SetTaskLabel(ctx, args.Label), true)
	}
}

func makeStatisticsHandler(a *app.App) handlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args StatisticsArgs
		if err := decodeArgs(request, &args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		from, to, err := daterange.NewParser(time.Local).Range(args.From, args.To, time.Now())
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		stats := a.Statistics.Current()
		summary := StatisticsSummary{
			TotalFocusSessions: stats.TotalFocusSessions,
			TotalFocusMinutes:  stats.TotalFocusTime / 60,
			TotalBreakMinutes:  stats.TotalBreakTime / 60,
			CurrentStreak:      stats.CurrentStreak,
			LongestStreak:      stats.LongestStreak,
			AverageFocusTime:   stats.AverageFocusTime,
			Days:               a.Statistics.DailyRange(from, to),
		}
		if hour, ok := stats.MostProductiveHour.Get(); ok {
			summary.MostProductiveHour = &hour
		}
		return jsonResult(summary)
	}
}

func makeRecentSessionsHandler(a *app.App) handlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args RecentSessionsArgs
		if err := decodeArgs(request, &args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		limit := args.Limit
		if limit <= 0 {
			limit = 20
		}
		return jsonResult(map[string]interface{}{
			"sessions": a.Sessions.Recent(limit),
		})
	}
}

func decodeArgs(request mcp.CallToolRequest, dst any) error {
	argsBytes, err := json.Marshal(request.Params.Arguments)
	if err != nil {
		return err
	}
	return json.Unmarshal(argsBytes, dst)
}

func timerResult(status model.TimerStatus, changed bool) (*mcp.CallToolResult, error) {
	remaining := time.Duration(status.TimeRemaining) * time.Second
	return jsonResult(TimerResult{State: status, Changed: changed, Remaining: remaining.String()})
}

func jsonResult(value any) (*mcp.CallToolResult, error) {
	resultJSON, err := json.Marshal(value)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal results: %v", err)), nil
	}
	return mcp.NewToolResultText(string(resultJSON)), nil
}
