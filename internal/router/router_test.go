package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"focustimer/internal/app"
	"focustimer/internal/config"
	"focustimer/internal/handler"
	"focustimer/internal/router"
	"focustimer/internal/timer"
)

type authResponse struct {
	Token   string `json:"token"`
	OwnerID string `json:"ownerId"`
}

type stateEnvelope struct {
	State struct {
		State         string `json:"state"`
		SessionType   string `json:"sessionType"`
		TimeRemaining int    `json:"timeRemaining"`
		TaskLabel     string `json:"taskLabel"`
	} `json:"state"`
	Changed bool `json:"changed"`
}

type sessionsEnvelope struct {
	Sessions []struct {
		Type        string `json:"type"`
		Interrupted bool   `json:"interrupted"`
	} `json:"sessions"`
}

type apiErrorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details struct {
			Field string `json:"field"`
		} `json:"details"`
	} `json:"error"`
}

func TestTimerFlow(t *testing.T) {
	engine := setupTestEngine(t, true)

	status, _ := requestJSON(t, engine, http.MethodGet, "/api/timer/state", "", nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", status)
	}

	owner := setupOwner(t, engine, "secret-pass")

	state := timerAction(t, engine, http.MethodGet, "/api/timer/state", owner.Token, nil)
	if state.State.State != "idle" || state.State.SessionType != "focus" || state.State.TimeRemaining != 1500 {
		t.Fatalf("unexpected initial state: %+v", state.State)
	}

	state = timerAction(t, engine, http.MethodPut, "/api/timer/task", owner.Token, map[string]string{"label": "<b>Write</b> tests"})
	if state.State.TaskLabel != "Write tests" {
		t.Fatalf("task label = %q", state.State.TaskLabel)
	}

	state = timerAction(t, engine, http.MethodPost, "/api/timer/start", owner.Token, nil)
	if !state.Changed || state.State.State != "running" {
		t.Fatalf("start = %+v", state)
	}

	state = timerAction(t, engine, http.MethodPost, "/api/timer/start", owner.Token, nil)
	if state.Changed {
		t.Fatal("second start reported a change")
	}

	state = timerAction(t, engine, http.MethodPost, "/api/timer/pause", owner.Token, nil)
	if state.State.State != "paused" {
		t.Fatalf("pause = %+v", state.State)
	}

	state = timerAction(t, engine, http.MethodPost, "/api/timer/reset", owner.Token, nil)
	if state.State.State != "idle" {
		t.Fatalf("reset = %+v", state.State)
	}

	status, body := requestJSON(t, engine, http.MethodGet, "/api/sessions?limit=10", owner.Token, nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200 for sessions, got %d", status)
	}
	var sessions sessionsEnvelope
	if err := json.Unmarshal(body, &sessions); err != nil {
		t.Fatalf("unmarshal sessions: %v", err)
	}
	if len(sessions.Sessions) != 1 || !sessions.Sessions[0].Interrupted || sessions.Sessions[0].Type != "focus" {
		t.Fatalf("sessions = %+v", sessions.Sessions)
	}

	state = timerAction(t, engine, http.MethodPost, "/api/timer/skip", owner.Token, nil)
	if state.State.SessionType != "short_break" {
		t.Fatalf("skip = %+v", state.State)
	}
}

func TestAuthSetupOnlyOnce(t *testing.T) {
	engine := setupTestEngine(t, true)
	setupOwner(t, engine, "secret-pass")

	status, body := requestJSON(t, engine, http.MethodPost, "/api/auth/setup", "", map[string]string{"passphrase": "other-pass"})
	if status != http.StatusConflict {
		t.Fatalf("expected 409 on second setup, got %d", status)
	}
	var apiErr apiErrorEnvelope
	if err := json.Unmarshal(body, &apiErr); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if apiErr.Error.Code != "already_configured" {
		t.Fatalf("expected already_configured, got %s", apiErr.Error.Code)
	}

	status, _ = requestJSON(t, engine, http.MethodPost, "/api/auth/login", "", map[string]string{"passphrase": "wrong-pass"})
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong passphrase, got %d", status)
	}
	status, _ = requestJSON(t, engine, http.MethodPost, "/api/auth/login", "", map[string]string{"passphrase": "secret-pass"})
	if status != http.StatusOK {
		t.Fatalf("expected 200 for login, got %d", status)
	}
}

func TestSettingsValidation(t *testing.T) {
	engine := setupTestEngine(t, false)

	status, body := requestJSON(t, engine, http.MethodPut, "/api/settings", "", map[string]int{
		"focusDuration":     121,
		"longBreakInterval": 3,
	})
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid focus duration, got %d", status)
	}
	var apiErr apiErrorEnvelope
	if err := json.Unmarshal(body, &apiErr); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if apiErr.Error.Code != "validation_failed" || apiErr.Error.Details.Field != "focusDuration" {
		t.Fatalf("unexpected error: %+v", apiErr.Error)
	}

	status, body = requestJSON(t, engine, http.MethodPut, "/api/settings", "", map[string]int{"focusDuration": 50})
	if status != http.StatusOK {
		t.Fatalf("expected 200 for valid update, got %d: %s", status, body)
	}

	state := timerAction(t, engine, http.MethodGet, "/api/timer/state", "", nil)
	if state.State.TimeRemaining != 3000 {
		t.Fatalf("idle timer not resynchronized, remaining = %d", state.State.TimeRemaining)
	}

	status, _ = requestJSON(t, engine, http.MethodPost, "/api/settings/presets/missing", "", nil)
	if status != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown preset, got %d", status)
	}
	status, _ = requestJSON(t, engine, http.MethodPost, "/api/settings/presets/extended", "", nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200 for preset, got %d", status)
	}
}

func TestStatisticsAndExport(t *testing.T) {
	engine := setupTestEngine(t, false)

	timerAction(t, engine, http.MethodPost, "/api/timer/start", "", nil)
	timerAction(t, engine, http.MethodPost, "/api/timer/reset", "", nil)

	status, body := requestJSON(t, engine, http.MethodGet, "/api/statistics/daily?from=yesterday&to=today", "", nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200 for daily stats, got %d: %s", status, body)
	}
	status, _ = requestJSON(t, engine, http.MethodGet, "/api/statistics/daily?from=zzz", "", nil)
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad date, got %d", status)
	}

	status, exported := requestJSON(t, engine, http.MethodGet, "/api/export", "", nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200 for export, got %d", status)
	}

	status, _ = requestJSON(t, engine, http.MethodDelete, "/api/statistics", "", nil)
	if status != http.StatusNoContent {
		t.Fatalf("expected 204 for reset, got %d", status)
	}

	var document map[string]any
	if err := json.Unmarshal(exported, &document); err != nil {
		t.Fatalf("unmarshal export: %v", err)
	}
	status, body = requestJSON(t, engine, http.MethodPost, "/api/import", "", document)
	if status != http.StatusOK {
		t.Fatalf("expected 200 for import, got %d: %s", status, body)
	}

	status, body = requestJSON(t, engine, http.MethodGet, "/api/sessions", "", nil)
	var sessions sessionsEnvelope
	if err := json.Unmarshal(body, &sessions); err != nil || status != http.StatusOK {
		t.Fatalf("sessions after import: %d %v", status, err)
	}
	if len(sessions.Sessions) != 1 {
		t.Fatalf("expected imported session, got %d", len(sessions.Sessions))
	}

	document["version"] = "9.0.0"
	status, _ = requestJSON(t, engine, http.MethodPost, "/api/import", "", document)
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown version, got %d", status)
	}
}

func TestCORSPreflight(t *testing.T) {
	engine := setupTestEngine(t, true)
	req := httptest.NewRequest(http.MethodOptions, "/api/auth/login", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	recorder := httptest.NewRecorder()

	engine.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for preflight, got %d", recorder.Code)
	}
	if recorder.Header().Get("Access-Control-Allow-Origin") != "http://localhost:5173" {
		t.Fatalf("unexpected allow-origin header: %s", recorder.Header().Get("Access-Control-Allow-Origin"))
	}
}

func setupTestEngine(t *testing.T, authEnabled bool) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{
		DBDriver:         config.DriverSQLite3,
		DBPath:           filepath.Join(t.TempDir(), "test.db"),
		JWTSecret:        "test-secret",
		TokenTTL:         24 * time.Hour,
		AuthEnabled:      authEnabled,
		SnapshotMaxAge:   24 * time.Hour,
		SessionRetention: 1000,
		TickInterval:     time.Hour,
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	a, err := app.Open(context.Background(), cfg, logger, app.Options{Ticker: timer.NewTicker(time.Hour)})
	if err != nil {
		t.Fatalf("open app: %v", err)
	}
	t.Cleanup(a.Close)
	if a.Ephemeral {
		t.Fatal("test database could not be opened")
	}

	handlers := router.Handlers{
		Timer:      handler.NewTimerHandler(a.Timer),
		Settings:   handler.NewSettingsHandler(a.Settings),
		Statistics: handler.NewStatisticsHandler(a.Statistics, a.Sessions),
		Data:       handler.NewDataHandler(a.Data),
	}
	if a.Auth != nil {
		handlers.Auth = handler.NewAuthHandler(a.Auth)
	}
	return router.New(handlers, router.Options{
		AuthService: a.Auth,
		Logger:      logger,
		CORSOrigins: []string{"http://localhost:5173"},
	})
}

func setupOwner(t *testing.T, server http.Handler, passphrase string) authResponse {
	t.Helper()
	status, body := requestJSON(t, server, http.MethodPost, "/api/auth/setup", "", map[string]string{
		"passphrase": passphrase,
	})
	if status != http.StatusCreated {
		t.Fatalf("setup failed with status %d: %s", status, string(body))
	}
	var resp authResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("unmarshal setup response: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("empty token after setup")
	}
	return resp
}

func timerAction(t *testing.T, server http.Handler, method, path, token string, body interface{}) stateEnvelope {
	t.Helper()
	status, raw := requestJSON(t, server, method, path, token, body)
	if status != http.StatusOK {
		t.Fatalf("%s %s failed with status %d: %s", method, path, status, string(raw))
	}
	var resp stateEnvelope
	if err := json.Unmarshal(raw, &resp); err != nil {
		t.Fatalf("unmarshal state response: %v", err)
	}
	return resp
}

func requestJSON(
	t *testing.T,
	server http.Handler,
	method, path, token string,
	body interface{},
) (int, []byte) {
	t.Helper()

	var payload []byte
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		payload = raw
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, req)
	return recorder.Code, recorder.Body.Bytes()
}
