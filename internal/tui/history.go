package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/chronomark/internal/calendar"
	"github.com/sadopc/chronomark/internal/config"
	"github.com/sadopc/chronomark/internal/history"
	"github.com/sadopc/chronomark/internal/store"
)

// historyModel browses week, month and year summaries and drills down to a
// read-only day timeline.
type historyModel struct {
	agg    history.Aggregator
	clock  calendar.Clock
	width  int
	height int

	entries  []store.TimeEntry
	gran     history.Granularity
	ref      time.Time
	buckets  []history.Bucket
	selected int

	chart barchart.Model
	day   timelineModel
}

func newHistoryModel(s *store.Store, cfg config.Config, clock calendar.Clock, cal calendar.Calendar) historyModel {
	h := historyModel{
		agg:   history.Aggregator{Cal: cal},
		clock: clock,
		gran:  history.Week,
		ref:   clock.Now(),
		chart: barchart.New(60, 12),
		day:   newTimelineModel(s, cfg, clock, cal, true),
	}
	h.rebuild()
	return h
}

func (h *historyModel) setSize(w, height int) {
	h.width = w
	h.height = height
	h.day.setSize(w, height)
	h.buildChart()
}

func (h *historyModel) setEntries(all []store.TimeEntry) {
	h.entries = all
	h.day.setEntries(all)
	h.rebuild()
}

func (h *historyModel) configure(cfg config.Config) {
	h.day.configure(cfg)
}

// rebuild recomputes the buckets for the current reference and level.
func (h *historyModel) rebuild() {
	if h.gran == history.Day {
		h.day.setDate(h.ref)
		return
	}
	h.buckets = h.agg.Buckets(h.entries, h.ref, h.gran)
	h.selected = max(0, min(h.selected, len(h.buckets)-1))
	h.buildChart()
}

// selectRef points the selection at the bucket containing h.ref.
func (h *historyModel) selectRef() {
	for i, b := range h.buckets {
		if !h.ref.Before(b.Start) && h.ref.Before(b.End) {
			h.selected = i
			return
		}
	}
	h.selected = 0
}

func (h historyModel) isFormActive() bool {
	return h.gran == history.Day && h.day.formActive
}

func (h historyModel) update(msg tea.Msg) (historyModel, tea.Cmd) {
	if h.isFormActive() {
		var cmd tea.Cmd
		h.day, cmd = h.day.update(msg)
		return h, cmd
	}

	switch msg := msg.(type) {
	case entriesMsg:
		h.setEntries(msg.entries)
		return h, nil

	case nowTickMsg:
		var cmd tea.Cmd
		h.day, cmd = h.day.update(msg)
		return h, cmd

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.PrevDay):
			h.ref = h.agg.Navigate(h.ref, h.gran, -1)
			h.rebuild()
			return h, nil
		case key.Matches(msg, keys.NextDay):
			h.ref = h.agg.Navigate(h.ref, h.gran, 1)
			h.rebuild()
			return h, nil
		case key.Matches(msg, keys.Today):
			h.ref = h.clock.Now()
			h.rebuild()
			h.selectRef()
			return h, nil
		case key.Matches(msg, keys.Level):
			h.cycleLevel()
			return h, nil
		case key.Matches(msg, keys.Back):
			h.drillUp()
			return h, nil
		}

		if h.gran == history.Day {
			var cmd tea.Cmd
			h.day, cmd = h.day.update(msg)
			return h, cmd
		}

		switch {
		case key.Matches(msg, keys.Left):
			if h.selected > 0 {
				h.selected--
				h.buildChart()
			}
		case key.Matches(msg, keys.Right):
			if h.selected < len(h.buckets)-1 {
				h.selected++
				h.buildChart()
			}
		case key.Matches(msg, keys.Enter):
			h.drillDown()
		}
	}
	return h, nil
}

func (h historyModel) handleMouse(msg tea.MouseMsg, x, y int) (historyModel, tea.Cmd) {
	if h.gran != history.Day {
		return h, nil
	}
	var cmd tea.Cmd
	h.day, cmd = h.day.handleMouse(msg, x, y-lipgloss.Height(h.header()))
	return h, cmd
}

func (h *historyModel) drillDown() {
	if h.selected >= len(h.buckets) {
		return
	}
	g, ref, ok := h.agg.DrillDown(h.gran, h.buckets[h.selected])
	if !ok {
		return
	}
	h.gran, h.ref, h.selected = g, ref, 0
	h.rebuild()
}

func (h *historyModel) drillUp() {
	switch h.gran {
	case history.Day:
		h.gran = history.Week
	case history.Week:
		h.gran = history.Month
	case history.Month:
		h.gran = history.Year
	default:
		return
	}
	h.rebuild()
	h.selectRef()
	h.buildChart()
}

func (h *historyModel) cycleLevel() {
	switch h.gran {
	case history.Week:
		h.gran = history.Month
	case history.Month:
		h.gran = history.Year
	default:
		h.gran = history.Week
	}
	h.rebuild()
	h.selectRef()
	h.buildChart()
}

func (h *historyModel) buildChart() {
	chartWidth := max(h.width-8, 20)
	chartHeight := 12
	if h.height > 30 {
		chartHeight = 16
	}

	h.chart = barchart.New(chartWidth, chartHeight)

	var bars []barchart.BarData
	for i, b := range h.buckets {
		style := lipgloss.NewStyle().Foreground(colorSecondary)
		if i == h.selected {
			style = lipgloss.NewStyle().Foreground(colorPrimary)
		}
		bars = append(bars, barchart.BarData{
			Label: b.Label,
			Values: []barchart.BarValue{{
				Name:  b.Label,
				Value: b.Hours(),
				Style: style,
			}},
		})
	}

	h.chart.PushAll(bars)
	h.chart.Draw()
}

func (h historyModel) levelTabs() string {
	var tabs []string
	for _, g := range []history.Granularity{history.Week, history.Month, history.Year, history.Day} {
		name := strings.ToUpper(g.String()[:1]) + g.String()[1:]
		if g == h.gran {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)
}

func (h historyModel) header() string {
	return lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("History"), "  ", h.levelTabs(), "  ",
		mutedStyle.Render(h.agg.Title(h.ref, h.gran)),
	)
}

func (h historyModel) view() string {
	w := max(h.width-4, 20)
	header := h.header()

	if h.gran == history.Day {
		nav := mutedStyle.Render("  [/]: prev/next day  esc: back to week  enter: view entry")
		return lipgloss.JoinVertical(lipgloss.Left, header, h.day.view(), nav)
	}

	total := history.Total(h.buckets)
	summary := fmt.Sprintf("Total %s", highlightStyle.Render(formatHours(total)))
	if h.selected < len(h.buckets) {
		b := h.buckets[h.selected]
		summary += fmt.Sprintf("   %s %s", selectedItemStyle.Render(b.Label), formatSeconds(b.Seconds))
	}

	nav := mutedStyle.Render("  ←/→: select  enter: drill down  esc: up  [/]: prev/next  g: level  t: today")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", h.chart.View(), "", h.renderTable(w), "", summary, "", nav,
		),
	)
}

func (h historyModel) renderTable(w int) string {
	if history.Total(h.buckets) == 0 {
		return mutedStyle.Render("  No data for this period")
	}
	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-12s %10s %8s", "Period", "Duration", "Hours")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 34))))
	for i, b := range h.buckets {
		style := normalItemStyle
		cursor := "  "
		if i == h.selected {
			style = selectedItemStyle
			cursor = "> "
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%-12s %10s %8.1f", cursor, b.Label, formatSeconds(b.Seconds), b.Hours())))
	}
	return strings.Join(rows, "\n")
}
