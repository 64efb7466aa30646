package store

import (
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

type TimerState int

const (
	TimerIdle TimerState = iota
	TimerRunning
	TimerPaused
)

var timerStateNames = map[TimerState]string{
	TimerIdle:    "IDLE",
	TimerRunning: "RUNNING",
	TimerPaused:  "PAUSED",
}

func (t TimerState) String() string {
	if n, ok := timerStateNames[t]; ok {
		return n
	}
	return "UNKNOWN"
}

// PomodoroSession is the single active timer. ProjectID is empty when no
// project is selected.
type PomodoroSession struct {
	ProjectID string
	State     TimerState
	Frozen    bool
	Elapsed   int64 // seconds

	// sub-second remainder of ticks not yet counted in Elapsed
	carry time.Duration
}

func InitialPomodoroSession() PomodoroSession {
	return PomodoroSession{State: TimerIdle, Frozen: true}
}

// PomodoroAction is one of SelectProject, Start, Tick, Pause, Reset or Complete.
type PomodoroAction interface {
	pomodoroAction()
}

// SelectProject selects a project. An empty ID clears the selection and
// freezes the timer.
type SelectProject struct{ ID string }

type Start struct{}

// Tick advances a running timer by Interval.
type Tick struct{ Interval time.Duration }

type Pause struct{}

type Reset struct{}

// Complete logs the running session and resets the timer.
type Complete struct{}

func (SelectProject) pomodoroAction() {}
func (Start) pomodoroAction()         {}
func (Tick) pomodoroAction()          {}
func (Pause) pomodoroAction()         {}
func (Reset) pomodoroAction()         {}
func (Complete) pomodoroAction()      {}

// ReducePomodoro is the timer state machine. Every action is accepted in
// every state; actions that do not apply return s unchanged.
func ReducePomodoro(s PomodoroSession, a PomodoroAction) PomodoroSession {
	switch a := a.(type) {
	case SelectProject:
		s.ProjectID = a.ID
		if a.ID == "" {
			s.Frozen = true
			s.State = TimerIdle
			s.Elapsed, s.carry = 0, 0
			return s
		}
		s.Frozen = false
		return s

	case Start:
		if s.Frozen || s.ProjectID == "" {
			return s
		}
		if s.State == TimerIdle || s.State == TimerPaused {
			s.State = TimerRunning
		}
		return s

	case Tick:
		if s.State != TimerRunning || a.Interval <= 0 {
			return s
		}
		total := s.carry + a.Interval
		s.Elapsed += int64(total / time.Second)
		s.carry = total % time.Second
		return s

	case Pause:
		if s.State == TimerRunning {
			s.State = TimerPaused
		}
		return s

	case Reset:
		s.State = TimerIdle
		s.Elapsed, s.carry = 0, 0
		return s

	case Complete:
		if s.State != TimerRunning {
			return s
		}
		return ReducePomodoro(s, Reset{})
	}
	return s
}

// EntrySink receives timesheet entries for completed sessions.
type EntrySink interface {
	AppendTimesheetEntry(TimesheetEntry) error
}

// EntrySinks delivers an entry to every sink in order and joins their errors.
type EntrySinks []EntrySink

func (ss EntrySinks) AppendTimesheetEntry(e TimesheetEntry) error {
	var errs []error
	for _, s := range ss {
		if s == nil {
			continue
		}
		if err := s.AppendTimesheetEntry(e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// PomodoroStore wraps the timer state machine and emits an entry to its sink
// whenever a running session completes.
type PomodoroStore struct {
	*Store[PomodoroSession, PomodoroAction]

	sink  EntrySink
	log   *slog.Logger
	now   func() time.Time
	newID func() string
}

type PomodoroOption func(*PomodoroStore)

// WithClock overrides the time source used for CreatedAt.
func WithClock(now func() time.Time) PomodoroOption {
	return func(p *PomodoroStore) { p.now = now }
}

// WithIDs overrides the entry id generator.
func WithIDs(newID func() string) PomodoroOption {
	return func(p *PomodoroStore) { p.newID = newID }
}

func WithPomodoroLogger(log *slog.Logger) PomodoroOption {
	return func(p *PomodoroStore) {
		if log != nil {
			p.log = log
		}
	}
}

func NewPomodoroStore(sink EntrySink, opts ...PomodoroOption) *PomodoroStore {
	p := &PomodoroStore{
		Store: New(InitialPomodoroSession(), func(s PomodoroSession, a PomodoroAction) (PomodoroSession, error) {
			return ReducePomodoro(s, a), nil
		}),
		sink:  sink,
		log:   discardLogger(),
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Dispatch applies a. For a Complete of a running session the entry is handed
// to the sink before the timer resets; the sink's error is returned.
func (p *PomodoroStore) Dispatch(a PomodoroAction) error {
	prev := p.State()
	var sinkErr error
	if _, ok := a.(Complete); ok && prev.State == TimerRunning && p.sink != nil {
		entry := TimesheetEntry{
			ID:         p.newID(),
			ProjectID:  prev.ProjectID,
			TimerValue: prev.Elapsed,
			CreatedAt:  p.now().UTC(),
		}
		sinkErr = p.sink.AppendTimesheetEntry(entry)
		p.log.Info("pomodoro completed", "project", entry.ProjectID, "seconds", entry.TimerValue)
	}
	_ = p.Store.Dispatch(a)
	return sinkErr
}
