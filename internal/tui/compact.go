package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/sadopc/chronomark/internal/calendar"
	"github.com/sadopc/chronomark/internal/store"
)

// recentLimit caps the compact view's recent list.
const recentLimit = 5

// compactView is the narrow sidebar layout: stopwatch, today's total and
// the newest entries. Keys still reach the today model.
func (d todayModel) compactView() string {
	if d.width < 20 {
		return "Terminal too small"
	}
	w := d.width - 2
	return lipgloss.JoinVertical(lipgloss.Left,
		d.renderTimerPanel(w),
		d.renderTodayPanel(w),
		d.renderRecentPanel(w),
	)
}

func (d todayModel) renderTodayPanel(w int) string {
	now := d.clock.Now()
	today := d.timeline.sched.EntriesForDay(d.entries, now)

	var total int64
	byCat := map[string]int64{}
	var order []string
	for _, e := range today {
		total += e.Duration
		name := string(e.Category)
		if name == "" {
			name = "uncategorized"
		}
		if _, ok := byCat[name]; !ok {
			order = append(order, name)
		}
		byCat[name] += e.Duration
	}

	header := fmt.Sprintf("%s  %s", titleStyle.Render("Today"), highlightStyle.Render(formatSeconds(total)))
	if len(today) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			header,
			mutedStyle.Render("No entries today"),
		))
	}

	rows := []string{header}
	for _, name := range order {
		dot := lipgloss.NewStyle().Foreground(categoryColor(store.Category(name))).Render("●")
		rows = append(rows, fmt.Sprintf("  %s %-14s %s", dot, name, formatSeconds(byCat[name])))
	}
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (d todayModel) renderRecentPanel(w int) string {
	title := titleStyle.Render("Recent Entries")
	if len(d.entries) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title,
			mutedStyle.Render("No entries yet"),
		))
	}

	now := d.clock.Now()
	inner := max(w-4, 10)
	rows := []string{title}
	for i, e := range d.entries {
		if i == recentLimit {
			break
		}
		when := humanize.RelTime(e.End(), now, "ago", "from now")
		dur := calendar.FormatDuration(e.Duration)
		meta := mutedStyle.Render(fmt.Sprintf("%s · %s", dur, when))
		titleW := max(inner-lipgloss.Width(meta)-3, 4)
		rows = append(rows, fmt.Sprintf("  %s %s", padRight(e.Title, titleW), meta))
	}
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
