package tui

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/pomotrackr/internal/analytics"
	"github.com/sadopc/pomotrackr/internal/export"
	"github.com/sadopc/pomotrackr/internal/store"
)

// Options wires the App to its stores and collaborators.
type Options struct {
	Projects   *store.ProjectStore
	Pomodoro   *store.PomodoroStore
	User       *store.UserStore
	Source     store.Source
	DatabaseID string
	ExportDir  string
	Notify     Notifier
	Log        *slog.Logger
}

// App is the root Bubble Tea model. It is the only writer to the stores.
type App struct {
	projects   *store.ProjectStore
	user       *store.UserStore
	source     store.Source
	databaseID string
	exportDir  string
	log        *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	memo      *analytics.Memo
	selection store.TagSelection

	width  int
	height int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	timer  pomodoroModel
	charts analyticsModel
	picker projectPicker
	tags   tagFilter

	spinner spinner.Model
	help    help.Model
	status  string
	isError bool
}

func NewApp(ctx context.Context, opts Options) App {
	log := opts.Log
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	ctx, cancel := context.WithCancel(ctx)

	h := help.New()
	h.ShowAll = false

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	tm := newTimerModel(opts.Pomodoro, opts.User)

	return App{
		projects:   opts.Projects,
		user:       opts.User,
		source:     opts.Source,
		databaseID: opts.DatabaseID,
		exportDir:  opts.ExportDir,
		log:        log,
		ctx:        ctx,
		cancel:     cancel,
		memo:       &analytics.Memo{},
		activeView: viewTimer,
		timer:      newPomodoroModel(tm, opts.Projects, opts.Notify, log),
		tags:       newTagFilter(),
		spinner:    sp,
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	return a.fetch()
}

// fetch starts a new generation and loads the database off the update loop.
func (a App) fetch() tea.Cmd {
	if a.databaseID == "" || a.source == nil {
		return statusCmd("No database configured")
	}
	gen := a.projects.BeginFetch(a.databaseID)
	ctx, src, id := a.ctx, a.source, a.databaseID
	return tea.Batch(
		func() tea.Msg {
			return fetchResultMsg{result: store.Fetch(ctx, src, id, gen)}
		},
		a.spinner.Tick,
	)
}

func (a App) busy() bool {
	return a.projects.State().Busy
}

// currentView returns the memoized analytics view for the current state.
func (a App) currentView() analytics.View {
	return a.memo.Get(analytics.InputsFrom(a.projects.State(), a.selection))
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.timer.setSize(a.width, contentHeight)
		a.charts.setSize(a.width, contentHeight)
		a.picker.width = a.width
		a.tags.width = a.width
		return a, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) && msg.String() == "ctrl+c" {
			return a.quit()
		}
		// Input is disabled while a fetch is in flight.
		if a.busy() {
			if key.Matches(msg, keys.Quit) {
				return a.quit()
			}
			return a, nil
		}
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}
		if a.picker.active {
			var cmd tea.Cmd
			a.picker, cmd = a.picker.update(msg)
			return a, cmd
		}
		if a.tags.active {
			var cmd tea.Cmd
			a.tags, cmd = a.tags.update(msg)
			return a, cmd
		}

		switch {
		case key.Matches(msg, keys.Quit):
			return a.quit()
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewTimer
			return a, nil
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewAnalytics
			return a, nil
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % viewState(len(viewNames))
			return a, nil
		case key.Matches(msg, keys.Refresh):
			a.status = "Refreshing…"
			a.isError = false
			return a, a.fetch()
		case key.Matches(msg, keys.Tags):
			if len(a.projects.State().Tags) == 0 {
				return a, statusCmd("No tags in this database")
			}
			var cmd tea.Cmd
			a.tags, cmd = a.tags.open(a.projects.State().Tags, a.selection)
			return a, cmd
		case key.Matches(msg, keys.Project):
			a.picker = a.picker.open(a.currentView().Projects, a.timer.timer.session().ProjectID)
			return a, nil
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		}

	case spinner.TickMsg:
		if !a.busy() {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case fetchResultMsg:
		if err := a.projects.ApplyFetch(msg.result); err != nil {
			a.status = fmt.Sprintf("Fetch failed: %v", err)
			a.isError = true
			return a, nil
		}
		if msg.result.Generation == a.projects.State().Generation {
			a.selection = pruneSelection(a.selection, a.projects.State().Tags)
			a.status = fmt.Sprintf("Loaded %d projects", len(a.projects.State().Projects))
			a.isError = false
		}
		return a, nil

	case tagsSelectedMsg:
		a.selection = msg.selection
		return a, nil

	case tickMsg, projectSelectedMsg:
		var cmd tea.Cmd
		a.timer, cmd = a.timer.update(msg)
		return a, cmd

	case statusMsg:
		a.status = msg.text
		a.isError = msg.isError
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.isError = false
		return a, nil
	}

	// huh forms emit their own internal messages.
	if a.tags.active {
		var cmd tea.Cmd
		a.tags, cmd = a.tags.update(msg)
		return a, cmd
	}
	return a.updateActiveView(msg)
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if a.activeView == viewTimer {
		a.timer, cmd = a.timer.update(msg)
	}
	return a, cmd
}

// quit cancels in-flight fetches and detaches the view before exiting.
func (a App) quit() (tea.Model, tea.Cmd) {
	a.cancel()
	a.projects.Detach()
	return a, tea.Quit
}

// pruneSelection drops selected tags that are no longer in the schema.
func pruneSelection(sel store.TagSelection, tags []store.Tag) store.TagSelection {
	if len(sel) == 0 {
		return sel
	}
	known := make(map[string]bool, len(tags))
	for _, t := range tags {
		known[t.ID] = true
	}
	var out store.TagSelection
	for _, s := range sel {
		if known[s.Value] {
			out = append(out, s)
		}
	}
	return out
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	var content string
	switch {
	case a.busy():
		content = panelStyle.Width(a.width - 4).Render(
			a.spinner.View() + " Loading " + a.projects.State().Requested + "…")
	case a.exportPicking:
		content = a.renderExportPicker()
	case a.picker.active:
		content = a.picker.view()
	case a.tags.active:
		content = a.tags.view()
	case a.activeView == viewAnalytics:
		content = a.charts.view(a.currentView(), a.filterLabel())
	default:
		content = a.timer.view()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) filterLabel() string {
	if len(a.selection) == 0 {
		return "all projects"
	}
	labels := make([]string, len(a.selection))
	for i, s := range a.selection {
		labels[i] = s.Label
	}
	return "tags: " + strings.Join(labels, " + ")
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := brandStyle.Render("pomotrackr")
	if u := a.user.State(); u.SignedIn && u.Name != "" {
		title += mutedStyle.Render(" · " + u.Name)
	}
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		style := mutedStyle
		if a.isError {
			style = errorStyle
		}
		status = style.Render(" " + a.status)
	}

	timerInfo := ""
	if a.timer.timer.running() {
		elapsed := a.timer.timer.elapsed()
		timerInfo = successStyle.Render(" ● " + formatDuration(elapsed))
		if a.timer.timer.paused() {
			timerInfo = warningStyle.Render(" ⏸ " + formatDuration(elapsed))
		}
	}

	left := footerStyle.Render(helpView)
	right := timerInfo + status

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

var exportFormats = []string{"CSV", "JSON"}

func (a App) renderExportPicker() string {
	rows := []string{titleStyle.Render("Export Current View"), ""}
	for i, f := range exportFormats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "", mutedStyle.Render("  enter: export  esc: cancel"))

	return activePanelStyle.Width(a.width - 4).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(exportFormats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back), key.Matches(msg, keys.Quit):
		a.exportPicking = false
	}
	return a, nil
}

// doExport writes the timesheets of the current filtered view.
func (a App) doExport(format int) tea.Cmd {
	rows := a.currentView().Timesheets
	dir := a.exportDir
	return func() tea.Msg {
		dateStr := time.Now().Format("2006-01-02")

		var path string
		if format == 0 {
			path = filepath.Join(dir, fmt.Sprintf("pomotrackr-export-%s.csv", dateStr))
			if err := export.ToCSV(rows, path); err != nil {
				return statusMsg{text: fmt.Sprintf("CSV error: %v", err), isError: true}
			}
		} else {
			path = filepath.Join(dir, fmt.Sprintf("pomotrackr-export-%s.json", dateStr))
			if err := export.ToJSON(rows, path); err != nil {
				return statusMsg{text: fmt.Sprintf("JSON error: %v", err), isError: true}
			}
		}

		return exportDoneMsg{path: path}
	}
}
