package tui

import (
	"context"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/chronomark/internal/analysis"
	"github.com/sadopc/chronomark/internal/store"
)

const analysisTimeout = 90 * time.Second

// analysisModel shows the latest analysis reply. Overlapping requests race
// and whichever reply arrives last is shown.
type analysisModel struct {
	analyzer *analysis.Analyzer
	text     string
	pending  int
}

func newAnalysisModel(a *analysis.Analyzer) analysisModel {
	return analysisModel{analyzer: a}
}

func (m analysisModel) request(entries []store.TimeEntry) (analysisModel, tea.Cmd) {
	if m.analyzer == nil {
		return m, status("Analysis is not configured")
	}
	m.pending++
	analyzer := m.analyzer
	snapshot := append([]store.TimeEntry(nil), entries...)
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), analysisTimeout)
		defer cancel()
		return analysisMsg{text: analyzer.Analyze(ctx, snapshot)}
	}
}

func (m analysisModel) update(msg analysisMsg) analysisModel {
	m.pending = max(0, m.pending-1)
	m.text = msg.text
	return m
}

func (m analysisModel) copy() tea.Cmd {
	if m.text == "" {
		return status("No report to copy")
	}
	text := m.text
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return statusMsg{text: "Copy failed: " + err.Error(), isError: true}
		}
		return statusMsg{text: "Report copied to clipboard"}
	}
}

func (m analysisModel) view(w int) string {
	title := titleStyle.Render("Analysis")
	var body string
	switch {
	case m.pending > 0:
		body = warningStyle.Render("Analyzing…")
		if m.text != "" {
			body += "\n\n" + m.text
		}
	case m.text == "":
		body = mutedStyle.Render("Press a to review your recent entries")
	default:
		body = m.text + "\n\n" + mutedStyle.Render("c: copy")
	}
	inner := max(w-4, 10)
	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, lipgloss.NewStyle().Width(inner).Render(body)),
	)
}
