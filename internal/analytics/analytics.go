// Package analytics derives chart and timesheet views from project store state.
// Everything here is a pure function of its inputs.
package analytics

import (
	"fmt"
	"hash/fnv"
	"time"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/sadopc/pomotrackr/internal/store"
)

// PieDatum is one project's share of logged time.
type PieDatum struct {
	ID          string
	Label       string
	Value       int64 // seconds
	SessionTime string
	HexColor    string
}

// FilteredTimesheet is a timesheet entry enriched with its project's title.
type FilteredTimesheet struct {
	store.TimesheetEntry
	ProjectName string
}

const paletteSize = 24

var palette = buildPalette(paletteSize)

func buildPalette(n int) []string {
	out := make([]string, n)
	for i := range out {
		// Alternate value so neighbouring hues stay distinguishable.
		v := 0.85
		if i%2 == 1 {
			v = 0.7
		}
		out[i] = colorful.Hsv(float64(i)*360/float64(n), 0.6, v).Hex()
	}
	return out
}

// ColorFor returns the palette color for a project id. The same id always
// yields the same color.
func ColorFor(projectID string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(projectID))
	return palette[h.Sum32()%uint32(len(palette))]
}

// FormatMMSS renders seconds as zero-padded MM:SS. Minutes wrap at 60.
func FormatMMSS(secs int64) string {
	if secs < 0 {
		secs = 0
	}
	d := time.Duration(secs) * time.Second
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d", m, s)
}

// BuildPieData emits one datum per project that passes sel and has logged
// time. Projects without an analysis entry are omitted.
func BuildPieData(projects []store.Project, analysis store.ProjectAnalysis, sel store.TagSelection) []PieDatum {
	data := make([]PieDatum, 0, len(projects))
	for _, p := range projects {
		if !store.Matches(p, sel) {
			continue
		}
		secs := analysis[p.ID]
		if secs == 0 {
			continue
		}
		data = append(data, PieDatum{
			ID:          p.ID,
			Label:       projectTitle(p),
			Value:       secs,
			SessionTime: FormatMMSS(secs),
			HexColor:    ColorFor(p.ID),
		})
	}
	return data
}

// BuildFilteredTimesheets joins entries with their projects. Entries whose
// project is not in projects are dropped.
func BuildFilteredTimesheets(entries []store.TimesheetEntry, projects []store.Project) []FilteredTimesheet {
	byID := make(map[string]store.Project, len(projects))
	for _, p := range projects {
		byID[p.ID] = p
	}
	out := make([]FilteredTimesheet, 0, len(entries))
	for _, e := range entries {
		p, ok := byID[e.ProjectID]
		if !ok {
			continue
		}
		out = append(out, FilteredTimesheet{TimesheetEntry: e, ProjectName: projectTitle(p)})
	}
	return out
}

// Total sums the values of data.
func Total(data []PieDatum) int64 {
	var total int64
	for _, d := range data {
		total += d.Value
	}
	return total
}

func projectTitle(p store.Project) string {
	if p.Title == "" {
		return "No title"
	}
	return p.Title
}
