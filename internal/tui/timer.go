package tui

import (
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/pomotrackr/internal/store"
)

// timerModel drives the pomodoro store from a single tick loop. Every start
// bumps loopID so ticks scheduled by an earlier loop are dropped.
type timerModel struct {
	pomodoro *store.PomodoroStore
	user     *store.UserStore
	loopID   int
}

func newTimerModel(p *store.PomodoroStore, u *store.UserStore) timerModel {
	return timerModel{pomodoro: p, user: u}
}

func (t timerModel) session() store.PomodoroSession {
	return t.pomodoro.State()
}

func (t timerModel) prefs() store.Preferences {
	return t.user.State().Preferences
}

func (t timerModel) tickCmd() tea.Cmd {
	id := t.loopID
	interval := t.prefs().TickInterval
	if interval < time.Second {
		interval = time.Second
	}
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return tickMsg{id: id}
	})
}

func (t *timerModel) selectProject(id string) {
	_ = t.pomodoro.Dispatch(store.SelectProject{ID: id})
	if t.session().State == store.TimerIdle {
		t.loopID++
	}
}

// start begins or resumes the session. It returns nil when the store refused
// the transition.
func (t *timerModel) start() tea.Cmd {
	_ = t.pomodoro.Dispatch(store.Start{})
	if t.session().State != store.TimerRunning {
		return nil
	}
	t.loopID++
	return t.tickCmd()
}

func (t *timerModel) pause() {
	_ = t.pomodoro.Dispatch(store.Pause{})
}

func (t *timerModel) toggle() tea.Cmd {
	switch t.session().State {
	case store.TimerRunning:
		t.pause()
	case store.TimerPaused:
		return t.start()
	}
	return nil
}

func (t *timerModel) reset() {
	_ = t.pomodoro.Dispatch(store.Reset{})
	t.loopID++
}

// complete finishes a running session. The returned entry is zero when
// nothing was running.
func (t *timerModel) complete() (store.TimesheetEntry, bool, error) {
	s := t.session()
	if s.State != store.TimerRunning {
		return store.TimesheetEntry{}, false, nil
	}
	err := t.pomodoro.Dispatch(store.Complete{})
	t.loopID++
	return store.TimesheetEntry{ProjectID: s.ProjectID, TimerValue: s.Elapsed}, true, visibleError(err)
}

// tick advances the running session. done reports an auto-completion.
func (t *timerModel) tick(msg tickMsg) (cmd tea.Cmd, done bool) {
	if msg.id != t.loopID || t.session().State != store.TimerRunning {
		return nil, false
	}
	prefs := t.prefs()
	interval := prefs.TickInterval
	if interval < time.Second {
		interval = time.Second
	}
	_ = t.pomodoro.Dispatch(store.Tick{Interval: interval})

	if prefs.AutoComplete && t.elapsed() >= prefs.WorkDuration {
		return nil, true
	}
	return t.tickCmd(), false
}

func (t timerModel) running() bool {
	return t.session().State != store.TimerIdle
}

func (t timerModel) paused() bool {
	return t.session().State == store.TimerPaused
}

func (t timerModel) elapsed() time.Duration {
	return time.Duration(t.session().Elapsed) * time.Second
}

func (t timerModel) remaining() time.Duration {
	r := t.prefs().WorkDuration - t.elapsed()
	if r < 0 {
		return 0
	}
	return r
}

// visibleError drops validation errors from err. Those are logged by the
// project store and never surfaced.
func visibleError(err error) error {
	if err == nil {
		return nil
	}
	errs := []error{err}
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		errs = j.Unwrap()
	}
	var keep []error
	for _, e := range errs {
		var ve *store.ValidationError
		if errors.As(e, &ve) {
			continue
		}
		keep = append(keep, e)
	}
	return errors.Join(keep...)
}
