package mcp

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"focustimer/internal/app"
	"focustimer/internal/config"
	"focustimer/internal/logging"
	"focustimer/internal/model"
	"focustimer/internal/timer"
)

func newTestApp(t *testing.T) *app.App {
	t.Helper()
	cfg := config.Config{
		DBDriver:         config.DriverMemory,
		SnapshotMaxAge:   24 * time.Hour,
		SessionRetention: 1000,
		TickInterval:     time.Second,
		LogLevel:         "info",
		LogFormat:        "text",
	}
	a, err := app.Open(context.Background(), cfg, logging.Discard(), app.Options{Ticker: timer.NewTicker(time.Hour)})
	if err != nil {
		t.Fatalf("app.Open() error = %v", err)
	}
	t.Cleanup(a.Close)
	return a
}

func call(t *testing.T, handler handlerFunc, args map[string]interface{}) string {
	t.Helper()
	request := mcp.CallToolRequest{}
	request.Params.Arguments = args
	result, err := handler(context.Background(), request)
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if result.IsError {
		t.Fatalf("tool returned error: %+v", result.Content)
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("unexpected content %T", result.Content[0])
	}
	return text.Text
}

func decodeTimer(t *testing.T, raw string) TimerResult {
	t.Helper()
	var result TimerResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		t.Fatalf("decode %s: %v", raw, err)
	}
	return result
}

func TestTimerTools(t *testing.T) {
	a := newTestApp(t)

	status := decodeTimer(t, call(t, makeStatusHandler(a), nil))
	if status.State.State != model.TimerIdle || status.Remaining != "25m0s" {
		t.Fatalf("initial status = %+v", status)
	}

	start := func(a *app.App, ctx context.Context) (model.TimerStatus, bool) { return a.Timer.Start(ctx) }
	started := decodeTimer(t, call(t, makeTransitionHandler(a, start), nil))
	if !started.Changed || started.State.State != model.TimerRunning {
		t.Fatalf("start = %+v", started)
	}

	again := decodeTimer(t, call(t, makeTransitionHandler(a, start), nil))
	if again.Changed {
		t.Fatal("starting a running timer reported a change")
	}

	labelled := decodeTimer(t, call(t, makeSetTaskLabelHandler(a), map[string]interface{}{"label": "  Write <b>docs</b> "}))
	if labelled.State.TaskLabel == nil || *labelled.State.TaskLabel != "Write docs" {
		t.Fatalf("task label = %v", labelled.State.TaskLabel)
	}

	skip := func(a *app.App, ctx context.Context) (model.TimerStatus, bool) { return a.Timer.Skip(ctx) }
	skipped := decodeTimer(t, call(t, makeTransitionHandler(a, skip), nil))
	if skipped.State.SessionType != model.SessionShortBreak {
		t.Fatalf("after skip session = %s", skipped.State.SessionType)
	}

	var listed struct {
		Sessions []model.Session `json:"sessions"`
	}
	if err := json.Unmarshal([]byte(call(t, makeRecentSessionsHandler(a), map[string]interface{}{"limit": 5})), &listed); err != nil {
		t.Fatalf("decode sessions: %v", err)
	}
	if len(listed.Sessions) != 1 || !listed.Sessions[0].Interrupted {
		t.Fatalf("sessions = %+v", listed.Sessions)
	}
}

func TestStatisticsTool(t *testing.T) {
	a := newTestApp(t)

	var summary StatisticsSummary
	raw := call(t, makeStatisticsHandler(a), map[string]interface{}{"from": "2026-05-01", "to": "2026-05-07"})
	if err := json.Unmarshal([]byte(raw), &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if summary.TotalFocusSessions != 0 || summary.MostProductiveHour != nil || len(summary.Days) != 0 {
		t.Fatalf("summary = %+v", summary)
	}

	request := mcp.CallToolRequest{}
	request.Params.Arguments = map[string]interface{}{"from": "2026-05-07", "to": "2026-05-01"}
	result, err := makeStatisticsHandler(a)(context.Background(), request)
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if !result.IsError {
		t.Fatal("inverted range accepted")
	}
}
