package store

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"golang.org/x/sync/errgroup"
)

// ProjectState is the data fetched for the currently viewed database plus the
// timesheet entries logged against it.
type ProjectState struct {
	DatabaseID string // database the current projects belong to
	Requested  string // database id of the most recent fetch
	Projects   []Project
	Tags       []Tag
	Entries    []TimesheetEntry
	Analysis   ProjectAnalysis
	Busy       bool
	Generation uint64
}

// ProjectAction is one of SetProjects, AppendTimesheetEntry, SetBusy,
// FetchStarted, FetchCompleted or Detach.
type ProjectAction interface {
	projectAction()
}

type SetProjects struct{ Rows []Project }

type AppendTimesheetEntry struct{ Entry TimesheetEntry }

type SetBusy struct{ Busy bool }

type FetchStarted struct{ DatabaseID string }

type FetchCompleted struct{ Result FetchResult }

// Detach marks the requesting view as torn down. Fetches still in flight will
// not be applied.
type Detach struct{}

func (SetProjects) projectAction()          {}
func (AppendTimesheetEntry) projectAction() {}
func (SetBusy) projectAction()              {}
func (FetchStarted) projectAction()         {}
func (FetchCompleted) projectAction()       {}
func (Detach) projectAction()               {}

// FetchResult is the outcome of one fetch, tagged with the generation that
// was current when it was issued.
type FetchResult struct {
	Generation uint64
	DatabaseID string
	Projects   []Project
	Tags       []Tag
	Err        error
}

// Source provides project rows and the tag schema of an external database.
type Source interface {
	QueryDatabase(ctx context.Context, databaseID string) ([]Project, error)
	RetrieveDatabase(ctx context.Context, databaseID string) ([]Tag, error)
}

func InitialProjectState() ProjectState {
	return ProjectState{Analysis: ProjectAnalysis{}}
}

// ComputeAnalysis sums TimerValue per project id.
func ComputeAnalysis(entries []TimesheetEntry) ProjectAnalysis {
	a := make(ProjectAnalysis, len(entries))
	for _, e := range entries {
		a[e.ProjectID] += e.TimerValue
	}
	return a
}

func (s ProjectState) knows(projectID string) bool {
	for _, p := range s.Projects {
		if p.ID == projectID {
			return true
		}
	}
	return false
}

// Project returns the project with the given id.
func (s ProjectState) Project(id string) (Project, bool) {
	for _, p := range s.Projects {
		if p.ID == id {
			return p, true
		}
	}
	return Project{}, false
}

// ReduceProjects is the Project Store reducer.
func ReduceProjects(s ProjectState, a ProjectAction) (ProjectState, error) {
	switch a := a.(type) {
	case SetProjects:
		s.Projects = slices.Clone(a.Rows)
		return s, nil

	case AppendTimesheetEntry:
		s.Entries = append(slices.Clone(s.Entries), a.Entry)
		s.Analysis = ComputeAnalysis(s.Entries)
		if !s.knows(a.Entry.ProjectID) {
			return s, &ValidationError{EntryID: a.Entry.ID, ProjectID: a.Entry.ProjectID}
		}
		return s, nil

	case SetBusy:
		s.Busy = a.Busy
		return s, nil

	case FetchStarted:
		s.Generation++
		s.Requested = a.DatabaseID
		s.Busy = true
		return s, nil

	case FetchCompleted:
		r := a.Result
		if r.Generation != s.Generation {
			return s, nil
		}
		s.Busy = false
		if r.Err != nil {
			return s, r.Err
		}
		if r.DatabaseID != s.DatabaseID {
			s.Entries = nil
			s.Analysis = ProjectAnalysis{}
		}
		s.DatabaseID = r.DatabaseID
		s.Projects = slices.Clone(r.Projects)
		s.Tags = slices.Clone(r.Tags)
		return s, nil

	case Detach:
		s.Generation++
		s.Busy = false
		return s, nil
	}
	return s, nil
}

// ProjectStore owns projects, tags and timesheet entries for one database view.
type ProjectStore struct {
	*Store[ProjectState, ProjectAction]
	log *slog.Logger
}

func NewProjectStore(log *slog.Logger) *ProjectStore {
	if log == nil {
		log = discardLogger()
	}
	return &ProjectStore{
		Store: New(InitialProjectState(), ReduceProjects),
		log:   log,
	}
}

func (p *ProjectStore) SetProjects(rows []Project) {
	_ = p.Dispatch(SetProjects{Rows: rows})
}

// AppendTimesheetEntry records e. A *ValidationError is returned when e names
// an unknown project; the entry is kept either way.
func (p *ProjectStore) AppendTimesheetEntry(e TimesheetEntry) error {
	err := p.Dispatch(AppendTimesheetEntry{Entry: e})
	if err != nil {
		p.log.Warn("timesheet entry for unknown project", "entry", e.ID, "project", e.ProjectID)
	}
	return err
}

func (p *ProjectStore) SetBusy(busy bool) {
	_ = p.Dispatch(SetBusy{Busy: busy})
}

// BeginFetch starts a new fetch generation for databaseID and returns it.
func (p *ProjectStore) BeginFetch(databaseID string) uint64 {
	_ = p.Dispatch(FetchStarted{DatabaseID: databaseID})
	p.log.Debug("fetch started", "database", databaseID, "generation", p.State().Generation)
	return p.State().Generation
}

// ApplyFetch applies r if it belongs to the current generation. Stale results
// are dropped and nil is returned. A current failure is returned unchanged.
func (p *ProjectStore) ApplyFetch(r FetchResult) error {
	if r.Generation != p.State().Generation {
		p.log.Debug("dropping stale fetch", "database", r.DatabaseID, "generation", r.Generation)
		return nil
	}
	err := p.Dispatch(FetchCompleted{Result: r})
	if err != nil {
		p.log.Error("fetch failed", "database", r.DatabaseID, "error", err)
		return err
	}
	p.log.Info("fetch applied", "database", r.DatabaseID,
		"projects", len(r.Projects), "tags", len(r.Tags))
	return nil
}

func (p *ProjectStore) Detach() {
	_ = p.Dispatch(Detach{})
}

// Refresh fetches databaseID from src and applies the result.
func (p *ProjectStore) Refresh(ctx context.Context, src Source, databaseID string) error {
	gen := p.BeginFetch(databaseID)
	return p.ApplyFetch(Fetch(ctx, src, databaseID, gen))
}

// Fetch queries rows and the tag schema concurrently. It does not touch any
// store, so it can run off the update loop.
func Fetch(ctx context.Context, src Source, databaseID string, gen uint64) FetchResult {
	res := FetchResult{Generation: gen, DatabaseID: databaseID}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := src.QueryDatabase(ctx, databaseID)
		if err != nil {
			return err
		}
		res.Projects = rows
		return nil
	})
	g.Go(func() error {
		tags, err := src.RetrieveDatabase(ctx, databaseID)
		if err != nil {
			return err
		}
		res.Tags = tags
		return nil
	})
	if err := g.Wait(); err != nil {
		return FetchResult{Generation: gen, DatabaseID: databaseID, Err: err}
	}
	return res
}

func (r FetchResult) String() string {
	if r.Err != nil {
		return fmt.Sprintf("fetch %s#%d: %v", r.DatabaseID, r.Generation, r.Err)
	}
	return fmt.Sprintf("fetch %s#%d: %d projects", r.DatabaseID, r.Generation, len(r.Projects))
}
