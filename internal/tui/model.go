package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"focustimer/internal/model"
	"focustimer/internal/service"
)

type statusMsg model.TimerStatus

type subscriptionClosedMsg struct{}

type Options struct {
	Timer      *service.TimerService
	Settings   *service.SettingsService
	Statistics *service.StatisticsService
	// Ephemeral marks a session whose data will not survive exit.
	Ephemeral bool
	Now       func() time.Time
}

type Model struct {
	timer      *service.TimerService
	settings   *service.SettingsService
	statistics *service.StatisticsService
	ephemeral  bool
	now        func() time.Time

	updates     <-chan model.TimerStatus
	unsubscribe func()

	status   model.TimerStatus
	keys     KeyMap
	help     help.Model
	progress progress.Model
	input    textinput.Model
	editing  bool
	width    int
}

func New(opts Options) Model {
	updates, unsubscribe := opts.Timer.Subscribe()

	input := textinput.New()
	input.Placeholder = "What are you working on?"
	input.CharLimit = 100

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return Model{
		timer:       opts.Timer,
		settings:    opts.Settings,
		statistics:  opts.Statistics,
		ephemeral:   opts.Ephemeral,
		now:         now,
		updates:     updates,
		unsubscribe: unsubscribe,
		status:      opts.Timer.Status(),
		keys:        DefaultKeyMap(),
		help:        help.New(),
		progress:    progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		input:       input,
		width:       60,
	}
}

func (m Model) Init() tea.Cmd {
	return waitForStatus(m.updates)
}

func waitForStatus(updates <-chan model.TimerStatus) tea.Cmd {
	return func() tea.Msg {
		status, ok := <-updates
		if !ok {
			return subscriptionClosedMsg{}
		}
		return statusMsg(status)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progress.Width = min(max(msg.Width-12, 10), 60)
		m.help.Width = msg.Width
		return m, nil

	case statusMsg:
		m.status = model.TimerStatus(msg)
		return m, waitForStatus(m.updates)

	case subscriptionClosedMsg:
		return m, nil

	case tea.KeyMsg:
		if m.editing {
			return m.updateEditing(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctx := context.Background()
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.unsubscribe()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Toggle):
		m.status, _ = m.timer.Toggle(ctx)
	case key.Matches(msg, m.keys.Reset):
		m.status, _ = m.timer.Reset(ctx)
	case key.Matches(msg, m.keys.Skip):
		m.status, _ = m.timer.Skip(ctx)
	case key.Matches(msg, m.keys.Next):
		m.status, _ = m.timer.StartNextSession(ctx)
	case key.Matches(msg, m.keys.Task):
		m.editing = true
		if m.status.TaskLabel != nil {
			m.input.SetValue(*m.status.TaskLabel)
		}
		m.input.CursorEnd()
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.status = m.timer.SetTaskLabel(context.Background(), m.input.Value())
		m.editing = false
		m.input.Blur()
		m.input.Reset()
		return m, nil
	case key.Matches(msg, m.keys.Cancel):
		m.editing = false
		m.input.Blur()
		m.input.Reset()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	status := m.status
	settings := m.settings.Current()

	var b strings.Builder
	b.WriteString(SessionStyle(status.SessionType).Render(status.SessionType.Label()))
	b.WriteString("  ")
	b.WriteString(StateStyle.Render(stateLabel(status.State)))
	b.WriteString("\n\n")
	b.WriteString(ClockStyle.Render(FormatClock(status.TimeRemaining)))
	b.WriteString("\n\n")
	b.WriteString(m.progress.ViewAs(Progress(status)))
	b.WriteString("\n\n")

	b.WriteString(InfoStyle.Render(fmt.Sprintf("Focus sessions this cycle: %d/%d", status.FocusSessionCount, settings.LongBreakInterval)))
	b.WriteString("\n")

	if m.editing {
		b.WriteString(m.input.View())
	} else if status.TaskLabel != nil {
		b.WriteString(TaskStyle.Render("Task: " + *status.TaskLabel))
	} else {
		b.WriteString(InfoStyle.Render("No task set"))
	}
	b.WriteString("\n")

	if m.statistics != nil {
		b.WriteString(InfoStyle.Render(m.todaySummary()))
		b.WriteString("\n")
	}
	if m.ephemeral {
		b.WriteString(WarningStyle.Render("Storage unavailable: progress will not be saved"))
		b.WriteString("\n")
	}

	frame := FrameStyle.BorderForeground(sessionColor(status.SessionType)).Render(b.String())
	return lipgloss.JoinVertical(lipgloss.Left, frame, m.help.View(m.keys))
}

func (m Model) todaySummary() string {
	today := m.now().Format(model.DateLayout)
	stats := m.statistics.Current()
	day, ok := stats.DailyStats[today]
	if !ok {
		return "Today: no sessions yet"
	}
	focus := time.Duration(day.TotalFocusTime) * time.Second
	return fmt.Sprintf("Today: %s focus %s, %s focused, streak %d",
		humanize.Comma(int64(day.FocusSessions)),
		pluralize(day.FocusSessions, "session", "sessions"),
		focus.Round(time.Minute).String(),
		stats.CurrentStreak,
	)
}

func pluralize(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// Run starts the full-screen timer.
func Run(opts Options) error {
	_, err := tea.NewProgram(New(opts), tea.WithAltScreen()).Run()
	return err
}
