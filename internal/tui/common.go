package tui

import (
	"fmt"
	"time"

	"github.com/sadopc/pomotrackr/internal/store"
)

// viewState represents the currently active view.
type viewState int

const (
	viewTimer viewState = iota
	viewAnalytics
)

var viewNames = []string{"Timer", "Analytics"}

// --- Messages ---

// tickMsg carries the id of the loop that scheduled it. Only the current
// loop re-arms.
type tickMsg struct {
	id int
}

type fetchResultMsg struct {
	result store.FetchResult
}

type statusMsg struct {
	text    string
	isError bool
}

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

func formatDuration(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

func formatSeconds(secs int64) string {
	return formatDuration(time.Duration(secs) * time.Second)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
