package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/sadopc/pomotrackr/internal/analytics"
)

const maxTimesheetRows = 12

// analyticsModel is the Analytics tab: a bar per project and the filtered
// timesheet list.
type analyticsModel struct {
	width  int
	height int
}

func (r *analyticsModel) setSize(w, h int) {
	r.width = w
	r.height = h
}

func (r analyticsModel) buildChart(data []analytics.PieDatum) barchart.Model {
	chartWidth := r.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 10
	if r.height > 30 {
		chartHeight = 14
	}

	chart := barchart.New(chartWidth, chartHeight)

	bars := make([]barchart.BarData, 0, len(data))
	for _, d := range data {
		bars = append(bars, barchart.BarData{
			Label: truncate(d.Label, 8),
			Values: []barchart.BarValue{{
				Name:  d.Label,
				Value: float64(d.Value) / 60,
				Style: lipgloss.NewStyle().Foreground(lipgloss.Color(d.HexColor)),
			}},
		})
	}

	chart.PushAll(bars)
	chart.Draw()
	return chart
}

func (r analyticsModel) view(v analytics.View, filter string) string {
	w := r.width - 4

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Analytics"), "  ", mutedStyle.Render(filter),
	)

	var chart string
	if len(v.Pie) == 0 {
		chart = mutedStyle.Render("  No time logged for these projects yet")
	} else {
		chart = r.buildChart(v.Pie).View()
	}

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "",
			chart, "",
			r.renderLegend(v.Pie), "",
			r.renderTimesheets(v.Timesheets, w),
		),
	)
}

func (r analyticsModel) renderLegend(data []analytics.PieDatum) string {
	if len(data) == 0 {
		return ""
	}
	items := make([]string, 0, len(data)+1)
	for _, d := range data {
		items = append(items, fmt.Sprintf("%s %s %s", dot(d.HexColor), d.Label, mutedStyle.Render(d.SessionTime)))
	}
	items = append(items, titleStyle.Render("total "+formatSeconds(analytics.Total(data))))
	return "  " + strings.Join(items, "  ")
}

func (r analyticsModel) renderTimesheets(rows []analytics.FilteredTimesheet, w int) string {
	if len(rows) == 0 {
		return mutedStyle.Render("  No sessions in this view")
	}

	sorted := slices.Clone(rows)
	slices.SortStableFunc(sorted, func(a, b analytics.FilteredTimesheet) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if len(sorted) > maxTimesheetRows {
		sorted = sorted[:maxTimesheetRows]
	}

	lines := []string{
		mutedStyle.Render(fmt.Sprintf("  %-26s %8s  %s", "Project", "Time", "When")),
		mutedStyle.Render("  " + strings.Repeat("─", min(w-6, 54))),
	}
	for _, t := range sorted {
		lines = append(lines, fmt.Sprintf("  %s %-24s %8s  %s",
			dot(analytics.ColorFor(t.ProjectID)),
			truncate(t.ProjectName, 24),
			analytics.FormatMMSS(t.TimerValue),
			mutedStyle.Render(humanize.Time(t.CreatedAt)),
		))
	}
	if len(rows) > maxTimesheetRows {
		lines = append(lines, mutedStyle.Render(fmt.Sprintf("  … %d more", len(rows)-maxTimesheetRows)))
	}
	return strings.Join(lines, "\n")
}
