package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/chronomark/internal/store"
)

// Color palette
var (
	colorPrimary   = lipgloss.Color("#D95638")
	colorSecondary = lipgloss.Color("#2EC4B6")
	colorAccent    = lipgloss.Color("#FF6B6B")
	colorMuted     = lipgloss.Color("#666666")
	colorSuccess   = lipgloss.Color("#2ECC71")
	colorWarning   = lipgloss.Color("#F39C12")
	colorError     = lipgloss.Color("#E74C3C")
	colorFg        = lipgloss.Color("#E8E4DA")
	colorSubtle    = lipgloss.Color("#414868")
	colorHighlight = lipgloss.Color("#7AA2F7")
)

// categoryColors tints timeline blocks and chart bars.
var categoryColors = map[store.Category]lipgloss.Color{
	store.CategoryWork:     lipgloss.Color("#7AA2F7"),
	store.CategoryPersonal: lipgloss.Color("#2ECC71"),
	store.CategoryStudy:    lipgloss.Color("#BB9AF7"),
	store.CategoryWaste:    lipgloss.Color("#E74C3C"),
	store.CategoryOther:    lipgloss.Color("#F39C12"),
}

func categoryColor(c store.Category) lipgloss.Color {
	if col, ok := categoryColors[c]; ok {
		return col
	}
	return colorSecondary
}

// Styles
var (
	// Tabs
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(colorPrimary).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(colorMuted).
				Padding(0, 2)

	// Panels
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSubtle).
			Padding(0, 1)

	activePanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary).
				Padding(0, 1)

	// Timer
	timerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorMuted).
			Align(lipgloss.Center)

	timerRunningStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorSuccess).
				Align(lipgloss.Center)

	// Timeline
	gutterStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	nowStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent)

	ghostStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Faint(true)

	// Text
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorFg)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	accentStyle = lipgloss.NewStyle().
			Foreground(colorAccent)

	successStyle = lipgloss.NewStyle().
			Foreground(colorSuccess)

	warningStyle = lipgloss.NewStyle().
			Foreground(colorWarning)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	highlightStyle = lipgloss.NewStyle().
			Foreground(colorHighlight)

	// Header/footer
	headerStyle = lipgloss.NewStyle().
			Padding(0, 1)

	footerStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(0, 1)

	// List items
	selectedItemStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	normalItemStyle = lipgloss.NewStyle().
			Foreground(colorFg)
)

func blockStyle(c store.Category, raised bool) lipgloss.Style {
	st := lipgloss.NewStyle().Foreground(categoryColor(c))
	if raised {
		st = st.Bold(true).Reverse(true)
	}
	return st
}
