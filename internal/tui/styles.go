package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/pomotrackr/internal/store"
)

// Palette. Adaptive colors keep the timer readable on light terminals.
var (
	colorTomato = lipgloss.AdaptiveColor{Light: "#C0392B", Dark: "#FF6347"}
	colorLeaf   = lipgloss.AdaptiveColor{Light: "#1E8449", Dark: "#7BD389"}
	colorAmber  = lipgloss.AdaptiveColor{Light: "#B9770E", Dark: "#F5B041"}
	colorRose   = lipgloss.AdaptiveColor{Light: "#A93226", Dark: "#F1948A"}
	colorSky    = lipgloss.AdaptiveColor{Light: "#1F618D", Dark: "#85C1E9"}
	colorText   = lipgloss.AdaptiveColor{Light: "#1C1C1C", Dark: "#E8E6E3"}
	colorDim    = lipgloss.AdaptiveColor{Light: "#7B7D7D", Dark: "#8A8F98"}
	colorRule   = lipgloss.AdaptiveColor{Light: "#D5D8DC", Dark: "#3B3F4A"}
)

func fg(c lipgloss.TerminalColor) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

func panel(border lipgloss.TerminalColor) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(1, 2)
}

var (
	brandStyle = fg(colorTomato).Bold(true)

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1C1C1C"}).
			Background(colorTomato).
			Padding(0, 2)
	inactiveTabStyle = fg(colorDim).Padding(0, 2)

	panelStyle       = panel(colorRule)
	activePanelStyle = panel(colorTomato)

	titleStyle     = fg(colorText).Bold(true)
	accentStyle    = fg(colorTomato)
	successStyle   = fg(colorLeaf)
	warningStyle   = fg(colorAmber)
	errorStyle     = fg(colorRose)
	mutedStyle     = fg(colorDim)
	highlightStyle = fg(colorSky)
	spinnerStyle   = fg(colorTomato)

	headerStyle = lipgloss.NewStyle().Padding(0, 1)
	footerStyle = mutedStyle.Padding(0, 1)

	selectedItemStyle = fg(colorTomato).Bold(true)
	normalItemStyle   = fg(colorText)
)

// phaseStyle is how the Timer tab presents one timer state.
type phaseStyle struct {
	clock lipgloss.Style
	label string
	badge lipgloss.Style
}

var clockStyle = lipgloss.NewStyle().Bold(true).Align(lipgloss.Center)

var phaseStyles = map[store.TimerState]phaseStyle{
	store.TimerIdle:    {clock: clockStyle.Foreground(colorTomato), label: "Ready", badge: mutedStyle},
	store.TimerRunning: {clock: clockStyle.Foreground(colorLeaf), label: "FOCUS", badge: successStyle.Bold(true)},
	store.TimerPaused:  {clock: clockStyle.Foreground(colorAmber), label: "PAUSED", badge: warningStyle.Bold(true)},
}

func dot(hex string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render("●")
}
