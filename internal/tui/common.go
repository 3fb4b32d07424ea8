package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
	"github.com/sadopc/chronomark/internal/store"
)

// viewState represents the currently active view.
type viewState int

const (
	viewToday viewState = iota
	viewHistory
	viewSettings
)

var viewNames = []string{"Today", "History", "Settings"}

// --- Messages ---

// entriesMsg carries a fresh snapshot of the whole collection.
type entriesMsg struct {
	entries []store.TimeEntry
}

type statusMsg struct {
	text    string
	isError bool
}

// tickMsg drives the stopwatch once a second.
type tickMsg time.Time

// nowTickMsg moves the timeline's now cursor.
type nowTickMsg time.Time

type analysisMsg struct {
	text string
}

type exportDoneMsg struct {
	path string
}

type settingsSavedMsg struct{}

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

func formatHours(secs int64) string {
	h := float64(secs) / 3600
	return fmt.Sprintf("%.1fh", h)
}

// truncate cuts s to w terminal cells, marking the cut with an ellipsis.
func truncate(s string, w int) string {
	if w <= 0 {
		return ""
	}
	return runewidth.Truncate(s, w, "…")
}

// padRight fills s with spaces to exactly w cells.
func padRight(s string, w int) string {
	return runewidth.FillRight(truncate(s, w), w)
}

func errStatus(prefix string, err error) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: fmt.Sprintf("%s: %v", prefix, err), isError: true}
	}
}

func status(text string) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text} }
}
