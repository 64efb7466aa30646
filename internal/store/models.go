package store

import "time"

// Tag is one option of the external database's multi-select tag schema.
type Tag struct {
	ID    string
	Name  string
	Color string
}

// Project is a row of the external database. Projects are replaced wholesale
// on every refetch and never edited in place.
type Project struct {
	ID    string
	Title string
	Tags  []Tag
}

// HasTag reports whether the project carries the tag with the given id.
func (p Project) HasTag(id string) bool {
	for _, t := range p.Tags {
		if t.ID == id {
			return true
		}
	}
	return false
}

type TimesheetEntry struct {
	ID         string
	ProjectID  string
	TimerValue int64 // seconds
	CreatedAt  time.Time
}

// ProjectAnalysis maps a project id to the seconds logged against it.
type ProjectAnalysis map[string]int64

// SelectedTag is one tag chosen in the filter UI. Value holds the tag id.
type SelectedTag struct {
	Label string
	Value string
	Color string
}

// TagSelection is the ordered set of tags currently chosen. Empty means no filter.
type TagSelection []SelectedTag

// SelectionFromTags builds a selection from schema tags.
func SelectionFromTags(tags []Tag) TagSelection {
	sel := make(TagSelection, 0, len(tags))
	for _, t := range tags {
		sel = append(sel, SelectedTag{Label: t.Name, Value: t.ID, Color: t.Color})
	}
	return sel
}
