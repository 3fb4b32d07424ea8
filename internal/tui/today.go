package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/chronomark/internal/analysis"
	"github.com/sadopc/chronomark/internal/calendar"
	"github.com/sadopc/chronomark/internal/config"
	"github.com/sadopc/chronomark/internal/store"
)

// todayModel is the main view: the editable day timeline next to the
// quick-mark timer and the analysis panel.
type todayModel struct {
	store    *store.Store
	clock    calendar.Clock
	readOnly bool
	width    int
	height   int

	entries  []store.TimeEntry
	timeline timelineModel
	timer    timerModel
	analysis analysisModel

	markForm   *huh.Form
	formActive bool
	mv         *markFormValues
}

type markFormValues struct {
	title       string
	description string
	category    string
}

func newTodayModel(s *store.Store, cfg config.Config, clock calendar.Clock, cal calendar.Calendar, readOnly bool, a *analysis.Analyzer) todayModel {
	return todayModel{
		store:    s,
		clock:    clock,
		readOnly: readOnly,
		timeline: newTimelineModel(s, cfg, clock, cal, readOnly),
		timer:    newTimerModel(s, clock),
		analysis: newAnalysisModel(a),
		mv:       &markFormValues{},
	}
}

func (d *todayModel) setSize(w, h int) {
	d.width = w
	d.height = h
	d.timeline.setSize(d.timelineWidth(), h)
}

func (d *todayModel) setEntries(all []store.TimeEntry) {
	d.entries = all
	d.timeline.setEntries(all)
}

func (d *todayModel) configure(cfg config.Config, a *analysis.Analyzer) {
	d.timeline.configure(cfg)
	d.analysis.analyzer = a
}

func (d todayModel) timelineWidth() int {
	if d.width < 80 {
		return d.width
	}
	return d.width * 3 / 5
}

func (d todayModel) sideWidth() int {
	return d.width - d.timelineWidth()
}

func (d todayModel) isFormActive() bool {
	return d.formActive || d.timeline.formActive
}

func (d todayModel) update(msg tea.Msg) (todayModel, tea.Cmd) {
	if d.formActive && d.markForm != nil {
		return d.updateMarkForm(msg)
	}
	if d.timeline.formActive {
		var cmd tea.Cmd
		d.timeline, cmd = d.timeline.update(msg)
		return d, cmd
	}

	switch msg := msg.(type) {
	case entriesMsg:
		d.setEntries(msg.entries)
		return d, nil

	case tickMsg:
		d.timer.tick()
		return d, nil

	case analysisMsg:
		d.analysis = d.analysis.update(msg)
		return d, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Start):
			if d.readOnly {
				return d, status("Read-only: timer disabled")
			}
			d.timer.start()
			return d, status("Timer started")
		case key.Matches(msg, keys.Stop):
			if err := d.timer.mark(); err != nil {
				return d, nil
			}
			return d.showMarkForm()
		case key.Matches(msg, keys.Discard):
			d.timer.discard()
			return d, status("Timer discarded")
		case key.Matches(msg, keys.PrevDay):
			d.timeline.setDate(d.timeline.date().AddDate(0, 0, -1))
			return d, nil
		case key.Matches(msg, keys.NextDay):
			d.timeline.setDate(d.timeline.date().AddDate(0, 0, 1))
			return d, nil
		case key.Matches(msg, keys.Today):
			d.timeline.setDate(d.clock.Now())
			return d, nil
		case key.Matches(msg, keys.Analyze):
			recent, err := d.store.Recent(analysis.MaxEntries)
			if err != nil {
				return d, errStatus("Analysis failed", err)
			}
			var cmd tea.Cmd
			d.analysis, cmd = d.analysis.request(recent)
			return d, cmd
		case key.Matches(msg, keys.Copy):
			return d, d.analysis.copy()
		}
	}

	var cmd tea.Cmd
	d.timeline, cmd = d.timeline.update(msg)
	return d, cmd
}

// handleMouse takes coordinates relative to the view's top-left corner.
func (d todayModel) handleMouse(msg tea.MouseMsg, x, y int) (todayModel, tea.Cmd) {
	if d.isFormActive() || x >= d.timelineWidth() {
		return d, nil
	}
	var cmd tea.Cmd
	d.timeline, cmd = d.timeline.handleMouse(msg, x, y)
	return d, cmd
}

func (d todayModel) showMarkForm() (todayModel, tea.Cmd) {
	*d.mv = markFormValues{}

	catOptions := []huh.Option[string]{huh.NewOption("none", "")}
	for _, c := range store.Categories {
		catOptions = append(catOptions, huh.NewOption(string(c), string(c)))
	}

	d.markForm = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("What did you do?").Placeholder(UntitledTask).Value(&d.mv.title),
			huh.NewText().Title("Description").Value(&d.mv.description),
			huh.NewSelect[string]().Title("Category").Options(catOptions...).Value(&d.mv.category),
		).Title("Mark " + formatDuration(d.timer.currentElapsed())),
	).WithShowHelp(true).WithShowErrors(true)

	d.formActive = true
	return d, d.markForm.Init()
}

func (d todayModel) updateMarkForm(msg tea.Msg) (todayModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			d.formActive = false
			d.markForm = nil
			d.timer.discard()
			return d, status("Timer discarded")
		}
	}

	form, cmd := d.markForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		d.markForm = f
	}

	if d.markForm.State == huh.StateCompleted {
		d.formActive = false
		d.markForm = nil
		e, entries, err := d.timer.save(d.mv.title, d.mv.description, store.Category(d.mv.category))
		if err != nil {
			d.timer.discard()
			return d, errStatus("Save failed", err)
		}
		d.setEntries(entries)
		return d, tea.Batch(
			status(fmt.Sprintf("Marked %q (%s)", e.Title, calendar.FormatDuration(e.Duration))),
			entriesCmd(entries),
		)
	}
	return d, cmd
}

func (d todayModel) view() string {
	if d.width < 20 {
		return "Terminal too small"
	}

	tl := d.timeline.view()
	if d.width < 80 {
		return tl
	}

	sw := d.sideWidth() - 2
	side := lipgloss.JoinVertical(lipgloss.Left,
		d.renderTimerPanel(sw),
		d.analysis.view(sw),
	)
	return lipgloss.JoinHorizontal(lipgloss.Top, tl, side)
}

func (d todayModel) renderTimerPanel(w int) string {
	if d.formActive && d.markForm != nil {
		return activePanelStyle.Width(w).Render(d.markForm.View())
	}

	inner := max(w-4, 10)
	elapsed := formatDuration(d.timer.currentElapsed())
	if d.timer.running() {
		content := lipgloss.JoinVertical(lipgloss.Center,
			timerRunningStyle.Width(inner).Render(elapsed),
			successStyle.Render("●  RUNNING since "+d.timer.startTime.Format("15:04")),
			mutedStyle.Render("x: mark  X: discard"),
		)
		return activePanelStyle.Width(w).Render(content)
	}

	hint := "Press s to start a quick mark"
	if d.readOnly {
		hint = "Read-only"
	}
	content := lipgloss.JoinVertical(lipgloss.Center,
		timerStyle.Width(inner).Render(elapsed),
		mutedStyle.Render("■  STOPPED"),
		mutedStyle.Render(hint),
	)
	return panelStyle.Width(w).Render(strings.TrimRight(content, "\n"))
}
