package alert

import (
	"context"
	"fmt"

	"github.com/cbroglie/mustache"

	"focustimer/internal/model"
)

type Notification struct {
	Title              string
	Body               string
	Tag                string
	RequireInteraction bool
}

type Notifier interface {
	Show(ctx context.Context, n Notification) error
}

type AudioPlayer interface {
	PlaySound(ctx context.Context, sound model.NotificationSound, volume int) error
	PlayAmbient(ctx context.Context, sound model.AmbientSound, volume int) error
	StopAmbient() error
	SetAmbientVolume(volume int) error
}

type Vibrator interface {
	Vibrate(pattern []int) error
}

// Vibration patterns in milliseconds, alternating on and off.
var (
	PatternShort   = []int{100}
	PatternMedium  = []int{200}
	PatternLong    = []int{400}
	PatternDouble  = []int{100, 100, 100}
	PatternSuccess = []int{50, 100, 50}
)

type Event string

const (
	EventFocusComplete      Event = "focus_complete"
	EventShortBreakComplete Event = "short_break_complete"
	EventLongBreakComplete  Event = "long_break_complete"
)

func eventFor(t model.SessionType) Event {
	switch t {
	case model.SessionShortBreak:
		return EventShortBreakComplete
	case model.SessionLongBreak:
		return EventLongBreakComplete
	default:
		return EventFocusComplete
	}
}

// Template is a mustache title and body. Both may reference
// {{session_type}}, {{task_label}}, {{focus_count}} and {{minutes}}.
type Template struct {
	Title string
	Body  string
}

func DefaultTemplates() map[Event]Template {
	return map[Event]Template{
		EventFocusComplete: {
			Title: "Focus Session Complete!",
			Body:  "Great work!{{#task_label}} Finished: {{{task_label}}}.{{/task_label}} Time for a well-deserved break.",
		},
		EventShortBreakComplete: {
			Title: "Break Over",
			Body:  "Ready to get back to work?",
		},
		EventLongBreakComplete: {
			Title: "Long Break Over",
			Body:  "You're refreshed and ready for the next session!",
		},
	}
}

type compiledTemplate struct {
	title *mustache.Template
	body  *mustache.Template
}

func compile(templates map[Event]Template) (map[Event]compiledTemplate, error) {
	merged := DefaultTemplates()
	for event, tmpl := range templates {
		if _, ok := merged[event]; !ok {
			return nil, fmt.Errorf("unknown notification event %q", event)
		}
		base := merged[event]
		if tmpl.Title != "" {
			base.Title = tmpl.Title
		}
		if tmpl.Body != "" {
			base.Body = tmpl.Body
		}
		merged[event] = base
	}

	out := make(map[Event]compiledTemplate, len(merged))
	for event, tmpl := range merged {
		title, err := mustache.ParseString(tmpl.Title)
		if err != nil {
			return nil, fmt.Errorf("parse %s title: %w", event, err)
		}
		body, err := mustache.ParseString(tmpl.Body)
		if err != nil {
			return nil, fmt.Errorf("parse %s body: %w", event, err)
		}
		out[event] = compiledTemplate{title: title, body: body}
	}
	return out, nil
}

func templateData(session model.Session) map[string]any {
	data := map[string]any{
		"session_type": session.Type.Label(),
		"task_label":   session.Label(),
		"minutes":      session.Duration() / 60,
	}
	if session.FocusSessionNumber != nil {
		data["focus_count"] = *session.FocusSessionNumber
	}
	return data
}

func (t compiledTemplate) render(event Event, session model.Session) (Notification, error) {
	data := templateData(session)
	title, err := t.title.Render(data)
	if err != nil {
		return Notification{}, fmt.Errorf("render %s title: %w", event, err)
	}
	body, err := t.body.Render(data)
	if err != nil {
		return Notification{}, fmt.Errorf("render %s body: %w", event, err)
	}
	return Notification{Title: title, Body: body, Tag: "focus-timer"}, nil
}
