package analytics

import (
	"regexp"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sadopc/pomotrackr/internal/store"
)

func scenario() ([]store.Project, []store.TimesheetEntry) {
	at := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	projects := []store.Project{
		{ID: "A", Title: "Alpha", Tags: []store.Tag{{ID: "t1", Name: "work"}}},
		{ID: "B", Title: "Beta"},
	}
	entries := []store.TimesheetEntry{
		{ID: "e1", ProjectID: "A", TimerValue: 1500, CreatedAt: at},
		{ID: "e2", ProjectID: "A", TimerValue: 300, CreatedAt: at.Add(time.Hour)},
	}
	return projects, entries
}

func TestBuildPieDataScenario(t *testing.T) {
	projects, entries := scenario()
	analysis := store.ComputeAnalysis(entries)
	require.Equal(t, store.ProjectAnalysis{"A": 1800}, analysis)

	data := BuildPieData(projects, analysis, nil)

	require.Len(t, data, 1)
	assert.Equal(t, "A", data[0].ID)
	assert.Equal(t, "Alpha", data[0].Label)
	assert.Equal(t, int64(1800), data[0].Value)
	assert.Equal(t, "30:00", data[0].SessionTime)
	assert.Equal(t, ColorFor("A"), data[0].HexColor)
}

func TestBuildPieDataRespectsSelection(t *testing.T) {
	projects, _ := scenario()
	analysis := store.ProjectAnalysis{"A": 60, "B": 120}

	all := BuildPieData(projects, analysis, nil)
	assert.Len(t, all, 2)

	tagged := BuildPieData(projects, analysis, store.TagSelection{{Value: "t1"}})
	require.Len(t, tagged, 1)
	assert.Equal(t, "A", tagged[0].ID)
}

func TestBuildPieDataOmitsZeroAndMissing(t *testing.T) {
	projects, _ := scenario()
	data := BuildPieData(projects, store.ProjectAnalysis{"B": 0}, nil)
	assert.Empty(t, data)
}

func TestBuildPieDataIdempotent(t *testing.T) {
	projects, entries := scenario()
	analysis := store.ComputeAnalysis(entries)

	first := BuildPieData(projects, analysis, nil)
	second := BuildPieData(projects, analysis, nil)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("pie data changed between calls (-first +second):\n%s", diff)
	}
}

func TestBuildFilteredTimesheetsDropsOrphans(t *testing.T) {
	projects, entries := scenario()
	entries = append(entries, store.TimesheetEntry{ID: "e3", ProjectID: "gone", TimerValue: 10})

	got := BuildFilteredTimesheets(entries, projects)

	require.Len(t, got, 2)
	for _, ts := range got {
		assert.Equal(t, "Alpha", ts.ProjectName)
		assert.Equal(t, "A", ts.ProjectID)
	}
	assert.Equal(t, "e1", got[0].ID)
}

func TestFormatMMSS(t *testing.T) {
	tests := []struct {
		secs int64
		want string
	}{
		{0, "00:00"},
		{5, "00:05"},
		{65, "01:05"},
		{1800, "30:00"},
		{3599, "59:59"},
		{3600, "00:00"},
		{3725, "02:05"},
		{-3, "00:00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatMMSS(tt.secs), "secs=%d", tt.secs)
	}
}

func TestColorForDeterministic(t *testing.T) {
	hex := regexp.MustCompile(`^#[0-9a-f]{6}$`)
	for _, id := range []string{"A", "B", "a6c1e0f2-7d0e-4bd4-9f0e-5e1d2c3b4a59", ""} {
		c := ColorFor(id)
		assert.Regexp(t, hex, c)
		assert.Equal(t, c, ColorFor(id))
	}
}

func TestTotal(t *testing.T) {
	assert.Equal(t, int64(0), Total(nil))
	assert.Equal(t, int64(30), Total([]PieDatum{{Value: 10}, {Value: 20}}))
}

// ============================================================
// Memo
// ============================================================

func TestMemoCachesUnchangedInputs(t *testing.T) {
	projects, entries := scenario()
	in := Inputs{Projects: projects, Analysis: store.ComputeAnalysis(entries), Entries: entries}

	var m Memo
	first := m.Get(in)
	second := m.Get(in)

	assert.Equal(t, 1, m.Computations)
	assert.Equal(t, first, second)
	require.Len(t, first.Pie, 1)
	assert.Len(t, first.Timesheets, 2)
	assert.Len(t, first.Projects, 2)
}

func TestMemoRecomputesOnChange(t *testing.T) {
	projects, entries := scenario()
	in := Inputs{Projects: projects, Analysis: store.ComputeAnalysis(entries), Entries: entries}

	var m Memo
	m.Get(in)

	in.Selection = store.TagSelection{{Label: "work", Value: "t1"}}
	view := m.Get(in)
	assert.Equal(t, 2, m.Computations)
	assert.Len(t, view.Projects, 1)

	in.Entries = append(in.Entries[:len(in.Entries):len(in.Entries)], store.TimesheetEntry{ID: "e3", ProjectID: "A", TimerValue: 60})
	in.Analysis = store.ComputeAnalysis(in.Entries)
	view = m.Get(in)
	assert.Equal(t, 3, m.Computations)
	assert.Equal(t, int64(1860), view.Pie[0].Value)
}

func TestComputeFiltersTimesheetsBySelection(t *testing.T) {
	projects, entries := scenario()
	entries = append(entries, store.TimesheetEntry{ID: "e3", ProjectID: "B", TimerValue: 60})

	view := Compute(Inputs{
		Projects:  projects,
		Analysis:  store.ComputeAnalysis(entries),
		Entries:   entries,
		Selection: store.TagSelection{{Value: "t1"}},
	})

	assert.Len(t, view.Timesheets, 2)
	for _, ts := range view.Timesheets {
		assert.Equal(t, "A", ts.ProjectID)
	}
}
