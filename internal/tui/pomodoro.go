package tui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/pomotrackr/internal/analytics"
	"github.com/sadopc/pomotrackr/internal/store"
)

// Notifier posts a desktop notification.
type Notifier func(title, message string) error

// pomodoroModel is the Timer tab.
type pomodoroModel struct {
	timer    timerModel
	projects *store.ProjectStore
	notify   Notifier
	log      *slog.Logger

	width  int
	height int
}

func newPomodoroModel(t timerModel, ps *store.ProjectStore, notify Notifier, log *slog.Logger) pomodoroModel {
	return pomodoroModel{timer: t, projects: ps, notify: notify, log: log}
}

func (p *pomodoroModel) setSize(w, h int) {
	p.width = w
	p.height = h
}

func (p pomodoroModel) projectTitle(id string) string {
	if id == "" {
		return ""
	}
	if proj, ok := p.projects.State().Project(id); ok && proj.Title != "" {
		return proj.Title
	}
	return "No title"
}

func (p pomodoroModel) update(msg tea.Msg) (pomodoroModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		cmd, done := p.timer.tick(msg)
		if done {
			return p.finish()
		}
		return p, cmd

	case projectSelectedMsg:
		p.timer.selectProject(msg.id)
		if msg.id == "" {
			return p, statusCmd("No project selected")
		}
		return p, statusCmd("Project: " + p.projectTitle(msg.id))

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Start):
			if p.timer.session().ProjectID == "" {
				return p, statusCmd("Pick a project first (p)")
			}
			return p, p.timer.start()
		case key.Matches(msg, keys.Pause):
			return p, p.timer.toggle()
		case key.Matches(msg, keys.Reset):
			if p.timer.running() {
				p.timer.reset()
				return p, statusCmd("Timer reset")
			}
		case key.Matches(msg, keys.Complete):
			return p.finish()
		}
	}
	return p, nil
}

// finish completes the running session and announces it.
func (p pomodoroModel) finish() (pomodoroModel, tea.Cmd) {
	entry, ok, err := p.timer.complete()
	if !ok {
		return p, nil
	}
	if err != nil {
		return p, func() tea.Msg {
			return statusMsg{text: fmt.Sprintf("Session logged but not journaled: %v", err), isError: true}
		}
	}

	text := fmt.Sprintf("%s logged on %s", analytics.FormatMMSS(entry.TimerValue), p.projectTitle(entry.ProjectID))
	cmds := []tea.Cmd{statusCmd("Session complete: " + text)}
	if p.timer.prefs().Notify && p.notify != nil {
		notify, log := p.notify, p.log
		cmds = append(cmds, func() tea.Msg {
			if err := notify("Pomodoro complete", text); err != nil {
				log.Warn("desktop notification failed", "error", err)
			}
			return nil
		})
	}
	return p, tea.Batch(cmds...)
}

func (p pomodoroModel) view() string {
	w := p.width - 4
	s := p.timer.session()

	title := titleStyle.Render("Pomodoro")

	project := mutedStyle.Render("No project selected. Press p to pick one.")
	if s.ProjectID != "" {
		project = highlightStyle.Render(p.projectTitle(s.ProjectID))
	}

	remaining := formatPomodoroTime(p.timer.remaining())
	ps, ok := phaseStyles[s.State]
	if !ok {
		ps = phaseStyles[store.TimerIdle]
	}
	timeDisplay := ps.clock.Width(w - 6).Render(remaining)
	stateLabel := ps.badge.Render(ps.label)

	elapsed := mutedStyle.Render("elapsed " + formatDuration(p.timer.elapsed()))

	var controls string
	switch s.State {
	case store.TimerRunning:
		controls = "space: pause  c: complete  x: reset"
	case store.TimerPaused:
		controls = "space: resume  x: reset"
	default:
		controls = "s: start  p: project  t: tags"
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		title,
		"",
		project,
		"",
		timeDisplay,
		stateLabel,
		elapsed,
		"",
		p.renderProgress(),
		"",
		mutedStyle.Render(controls),
	)
	return panelStyle.Width(w).Render(content)
}

func (p pomodoroModel) renderProgress() string {
	const slots = 20
	work := p.timer.prefs().WorkDuration
	filled := 0
	if work > 0 {
		filled = int(float64(p.timer.elapsed()) / float64(work) * slots)
	}
	if filled > slots {
		filled = slots
	}
	return accentStyle.Render(strings.Repeat("█", filled)) +
		mutedStyle.Render(strings.Repeat("░", slots-filled))
}

func formatPomodoroTime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d", m, s)
}

func statusCmd(text string) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text} }
}
