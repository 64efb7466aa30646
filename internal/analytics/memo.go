package analytics

import (
	"github.com/mitchellh/hashstructure/v2"

	"github.com/sadopc/pomotrackr/internal/store"
)

// Inputs is everything the derived views depend on.
type Inputs struct {
	Projects  []store.Project
	Analysis  store.ProjectAnalysis
	Entries   []store.TimesheetEntry
	Selection store.TagSelection
}

// InputsFrom collects the inputs from a project store snapshot.
func InputsFrom(s store.ProjectState, sel store.TagSelection) Inputs {
	return Inputs{
		Projects:  s.Projects,
		Analysis:  s.Analysis,
		Entries:   s.Entries,
		Selection: sel,
	}
}

// View is the derived output for one set of inputs.
type View struct {
	Projects   []store.Project // projects passing the tag filter
	Pie        []PieDatum
	Timesheets []FilteredTimesheet
}

// Compute builds the view for in without caching.
func Compute(in Inputs) View {
	filtered := store.FilterProjects(in.Projects, in.Selection)
	return View{
		Projects:   filtered,
		Pie:        BuildPieData(in.Projects, in.Analysis, in.Selection),
		Timesheets: BuildFilteredTimesheets(in.Entries, filtered),
	}
}

type entryKey struct {
	ID         string
	ProjectID  string
	TimerValue int64
	CreatedAt  int64
}

type memoKey struct {
	Projects  []store.Project
	Analysis  map[string]int64
	Entries   []entryKey
	Selection []string
}

func keyOf(in Inputs) (uint64, error) {
	k := memoKey{
		Projects:  in.Projects,
		Analysis:  in.Analysis,
		Entries:   make([]entryKey, len(in.Entries)),
		Selection: make([]string, len(in.Selection)),
	}
	for i, e := range in.Entries {
		k.Entries[i] = entryKey{e.ID, e.ProjectID, e.TimerValue, e.CreatedAt.UnixNano()}
	}
	for i, s := range in.Selection {
		k.Selection[i] = s.Value
	}
	return hashstructure.Hash(k, hashstructure.FormatV2, nil)
}

// Memo caches the last computed View and recomputes only when the inputs
// change. The zero value is ready to use.
type Memo struct {
	key   uint64
	valid bool
	view  View

	// Computations counts cache misses.
	Computations int
}

func (m *Memo) Get(in Inputs) View {
	key, err := keyOf(in)
	if err == nil && m.valid && key == m.key {
		return m.view
	}
	m.view = Compute(in)
	m.Computations++
	m.key, m.valid = key, err == nil
	return m.view
}
