package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/pomotrackr/internal/analytics"
	"github.com/sadopc/pomotrackr/internal/store"
)

type projectSelectedMsg struct {
	id string // empty means none
}

type tagsSelectedMsg struct {
	selection store.TagSelection
}

// projectPicker lists the tag-filtered projects. The first row is "none".
type projectPicker struct {
	active   bool
	projects []store.Project
	cursor   int
	width    int
}

func (p projectPicker) open(projects []store.Project, current string) projectPicker {
	p.active = true
	p.projects = projects
	p.cursor = 0
	for i, proj := range projects {
		if proj.ID == current {
			p.cursor = i + 1
		}
	}
	return p
}

func (p projectPicker) update(msg tea.KeyMsg) (projectPicker, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Back):
		p.active = false
	case key.Matches(msg, keys.Up):
		if p.cursor > 0 {
			p.cursor--
		}
	case key.Matches(msg, keys.Down):
		if p.cursor < len(p.projects) {
			p.cursor++
		}
	case key.Matches(msg, keys.Enter):
		p.active = false
		id := ""
		if p.cursor > 0 {
			id = p.projects[p.cursor-1].ID
		}
		return p, func() tea.Msg { return projectSelectedMsg{id: id} }
	}
	return p, nil
}

func (p projectPicker) view() string {
	w := p.width - 4
	rows := []string{titleStyle.Render("Select Project"), ""}

	row := func(i int, label string) string {
		if i == p.cursor {
			return selectedItemStyle.Render("> " + label)
		}
		return normalItemStyle.Render("  " + label)
	}

	rows = append(rows, row(0, "none"))
	for i, proj := range p.projects {
		title := proj.Title
		if title == "" {
			title = "No title"
		}
		label := fmt.Sprintf("%s %s", dot(analytics.ColorFor(proj.ID)), title)
		if len(proj.Tags) > 0 {
			names := make([]string, len(proj.Tags))
			for j, t := range proj.Tags {
				names[j] = t.Name
			}
			label += mutedStyle.Render(" [" + strings.Join(names, ", ") + "]")
		}
		rows = append(rows, row(i+1, label))
	}
	if len(p.projects) == 0 {
		rows = append(rows, "", mutedStyle.Render("  No projects match the current tags."))
	}

	rows = append(rows, "", mutedStyle.Render("  enter: select  esc: cancel"))
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// tagFilter is the tag multi-select form. Selected values live behind a
// pointer so they survive value copies of the model.
type tagFilter struct {
	active   bool
	form     *huh.Form
	tags     []store.Tag
	selected *[]string
	width    int
}

func newTagFilter() tagFilter {
	var sel []string
	return tagFilter{selected: &sel}
}

func (f tagFilter) open(tags []store.Tag, current store.TagSelection) (tagFilter, tea.Cmd) {
	f.tags = tags
	*f.selected = (*f.selected)[:0]
	for _, s := range current {
		*f.selected = append(*f.selected, s.Value)
	}

	opts := make([]huh.Option[string], len(tags))
	for i, t := range tags {
		opts[i] = huh.NewOption(t.Name, t.ID)
	}

	f.form = huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Filter by tags").
				Description("Projects must carry every selected tag").
				Options(opts...).
				Value(f.selected),
		),
	).WithShowHelp(true).WithShowErrors(true)

	f.active = true
	return f, f.form.Init()
}

func (f tagFilter) update(msg tea.Msg) (tagFilter, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "esc" {
		f.active = false
		f.form = nil
		return f, nil
	}

	form, cmd := f.form.Update(msg)
	if hf, ok := form.(*huh.Form); ok {
		f.form = hf
	}

	switch f.form.State {
	case huh.StateCompleted:
		f.active = false
		sel := f.selection()
		return f, func() tea.Msg { return tagsSelectedMsg{selection: sel} }
	case huh.StateAborted:
		f.active = false
		return f, nil
	}
	return f, cmd
}

// selection maps the chosen ids back onto the schema's tags.
func (f tagFilter) selection() store.TagSelection {
	chosen := make(map[string]bool, len(*f.selected))
	for _, id := range *f.selected {
		chosen[id] = true
	}
	var picked []store.Tag
	for _, t := range f.tags {
		if chosen[t.ID] {
			picked = append(picked, t)
		}
	}
	return store.SelectionFromTags(picked)
}

func (f tagFilter) view() string {
	content := lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("Tags"), "", f.form.View())
	return panelStyle.Width(f.width - 4).Render(content)
}
