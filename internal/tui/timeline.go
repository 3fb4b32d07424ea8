package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/chronomark/internal/calendar"
	"github.com/sadopc/chronomark/internal/config"
	"github.com/sadopc/chronomark/internal/geometry"
	"github.com/sadopc/chronomark/internal/interaction"
	"github.com/sadopc/chronomark/internal/store"
	"github.com/sadopc/chronomark/internal/timeline"
)

const (
	gutterWidth = 7
	// bodyTop is the first timeline row inside the panel: border + title.
	bodyTop = 2
)

// timelineModel is the interactive day surface. Terminal rows are a
// projection of the pixel space: row r covers [r*rowHeight, (r+1)*rowHeight).
type timelineModel struct {
	store    *store.Store
	sched    *timeline.Scheduler
	ctrl     *interaction.Controller
	cfg      config.Config
	readOnly bool
	width    int
	height   int

	entries []store.TimeEntry
	day     timeline.Day

	scroll    int // first visible row
	cursor    int // keyboard-selected row
	anchorRow int
	raised    string // id of the last pointed-at block

	formActive bool
	form       *huh.Form
	fv         *entryFormValues
}

// Form values as pointers (survive value copies)
type entryFormValues struct {
	title       string
	start       string
	end         string
	description string
	category    string
}

func newTimelineModel(s *store.Store, cfg config.Config, clock calendar.Clock, cal calendar.Calendar, readOnly bool) timelineModel {
	t := timelineModel{
		store:    s,
		cfg:      cfg,
		readOnly: readOnly,
		fv:       &entryFormValues{},
	}
	t.sched = &timeline.Scheduler{
		Scale:        cfg.Scale(),
		Cal:          cal,
		Clock:        clock,
		TickInterval: cfg.TickInterval,
	}
	t.ctrl = t.newController(clock.Now())
	t.relayout()
	t.focus()
	return t
}

func (t timelineModel) newController(date time.Time) *interaction.Controller {
	var w interaction.Writer
	if !t.readOnly && t.store != nil {
		w = t.store
	}
	return interaction.New(t.cfg.Scale(), date, w,
		interaction.WithDragThreshold(t.cfg.DragThreshold),
		interaction.WithCalendar(t.sched.Cal),
	)
}

// configure applies new settings, keeping the viewed date.
func (t *timelineModel) configure(cfg config.Config) {
	date := t.ctrl.Date()
	t.cfg = cfg
	t.sched.Scale = cfg.Scale()
	t.sched.TickInterval = cfg.TickInterval
	t.ctrl = t.newController(date)
	t.formActive = false
	t.form = nil
	t.relayout()
	t.focus()
}

func (t *timelineModel) setSize(w, h int) {
	t.width = w
	t.height = h
	t.ensureVisible()
}

func (t *timelineModel) setEntries(all []store.TimeEntry) {
	t.entries = all
	t.relayout()
}

func (t *timelineModel) setDate(d time.Time) {
	t.ctrl.SetDate(d)
	t.formActive = false
	t.form = nil
	t.raised = ""
	t.relayout()
	t.focus()
}

func (t timelineModel) date() time.Time { return t.ctrl.Date() }

func (t *timelineModel) relayout() {
	t.day = t.sched.Day(t.entries, t.ctrl.Date())
}

func (t timelineModel) rowsPerDay() int {
	return geometry.MinutesPerDay / t.cfg.RowMinutes
}

func (t timelineModel) bodyRows() int {
	return max(t.height-bodyTop-1, 1)
}

func (t timelineModel) rowY(r int) float64 {
	return float64(r) * t.cfg.RowHeight()
}

func (t timelineModel) rowOf(y float64) int {
	return int(y / t.cfg.RowHeight())
}

// focus puts the cursor on the now line, the first entry, or 08:00.
func (t *timelineModel) focus() {
	switch {
	case t.day.HasCursor:
		t.cursor = t.rowOf(t.day.CursorY)
	case len(t.day.Blocks) > 0:
		t.cursor = t.rowOf(t.day.Blocks[0].Top)
	default:
		t.cursor = 8 * 60 / t.cfg.RowMinutes
	}
	t.scroll = t.cursor - t.bodyRows()/3
	t.ensureVisible()
}

func (t *timelineModel) ensureVisible() {
	t.cursor = max(0, min(t.cursor, t.rowsPerDay()-1))
	visible := t.bodyRows()
	if t.cursor < t.scroll {
		t.scroll = t.cursor
	}
	if t.cursor >= t.scroll+visible {
		t.scroll = t.cursor - visible + 1
	}
	t.scroll = max(0, min(t.scroll, t.rowsPerDay()-visible))
}

func (t timelineModel) blockAt(r int) (timeline.Block, int, bool) {
	return timeline.HitSpan(t.day.Blocks, t.rowY(r), t.rowY(r+1), t.raised)
}

func (t timelineModel) update(msg tea.Msg) (timelineModel, tea.Cmd) {
	if t.formActive && t.form != nil {
		return t.updateForm(msg)
	}

	switch msg := msg.(type) {
	case nowTickMsg:
		t.relayout()
		return t, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			t.cursor--
		case key.Matches(msg, keys.Down):
			t.cursor++
		case key.Matches(msg, keys.PageUp):
			t.cursor -= t.bodyRows()
		case key.Matches(msg, keys.PageDown):
			t.cursor += t.bodyRows()
		case key.Matches(msg, keys.Enter):
			if b, _, ok := t.blockAt(t.cursor); ok {
				t.raised = b.Entry.ID
				if t.ctrl.EntryClick(b.Entry) {
					return t.openForm()
				}
			}
		case key.Matches(msg, keys.New):
			return t.createAtCursor()
		}
		t.ensureVisible()
	}
	return t, nil
}

// createAtCursor opens a one-hour draft at the cursor row as if it had been
// dragged with the mouse.
func (t timelineModel) createAtCursor() (timelineModel, tea.Cmd) {
	if t.readOnly {
		return t, status("Read-only timeline")
	}
	if !t.ctrl.PointerDown(t.rowY(t.cursor)) {
		return t, nil
	}
	t.ctrl.PointerMove(t.rowY(t.cursor + 60/t.cfg.RowMinutes))
	if t.ctrl.PointerUp() {
		return t.openForm()
	}
	return t, nil
}

// handleMouse takes coordinates relative to the panel's top-left corner.
func (t timelineModel) handleMouse(msg tea.MouseMsg, x, y int) (timelineModel, tea.Cmd) {
	if t.formActive {
		return t, nil
	}
	if x < 0 || x >= t.width {
		return t, nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		t.scroll = max(0, t.scroll-3)
		return t, nil
	case tea.MouseButtonWheelDown:
		t.scroll = min(t.rowsPerDay()-t.bodyRows(), t.scroll+3)
		return t, nil
	}

	r := t.scroll + y - bodyTop
	inBody := y >= bodyTop && y < bodyTop+t.bodyRows() && r < t.rowsPerDay()

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !inBody {
			return t, nil
		}
		t.cursor = r
		if b, _, ok := t.blockAt(r); ok {
			t.raised = b.Entry.ID
			if t.ctrl.EntryClick(b.Entry) {
				return t.openForm()
			}
			return t, nil
		}
		if t.ctrl.PointerDown(t.rowY(r)) {
			t.anchorRow = r
		}

	case tea.MouseActionMotion:
		if t.ctrl.State() == interaction.Dragging {
			t.dragTo(r)
		}

	case tea.MouseActionRelease:
		if t.ctrl.State() != interaction.Dragging {
			return t, nil
		}
		t.dragTo(r)
		if t.ctrl.PointerUp() {
			return t.openForm()
		}
	}
	return t, nil
}

// dragTo stretches the drag over every row between the anchor row and r.
// Back on the anchor row the span collapses so release reads as a click.
func (t timelineModel) dragTo(r int) {
	r = max(0, min(r, t.rowsPerDay()-1))
	switch {
	case r > t.anchorRow:
		t.ctrl.MoveAnchor(t.rowY(t.anchorRow))
		t.ctrl.PointerMove(t.rowY(r + 1))
	case r < t.anchorRow:
		t.ctrl.MoveAnchor(t.rowY(t.anchorRow + 1))
		t.ctrl.PointerMove(t.rowY(r))
	default:
		t.ctrl.MoveAnchor(t.rowY(t.anchorRow))
		t.ctrl.PointerMove(t.rowY(t.anchorRow))
	}
}

func (t timelineModel) openForm() (timelineModel, tea.Cmd) {
	d := t.ctrl.Draft()
	*t.fv = entryFormValues{
		title:       d.Title,
		start:       d.Start,
		end:         d.End,
		description: d.Description,
		category:    string(d.Category),
	}

	catOptions := []huh.Option[string]{huh.NewOption("none", "")}
	for _, c := range store.Categories {
		catOptions = append(catOptions, huh.NewOption(string(c), string(c)))
	}

	title := "New Entry"
	if !d.IsNew() {
		title = "Edit Entry"
	}

	t.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Title").Placeholder("Task name").Value(&t.fv.title),
			huh.NewInput().Title("Start (HH:MM)").Value(&t.fv.start).Validate(validateClock),
			huh.NewInput().Title("End (HH:MM)").Value(&t.fv.end).Validate(validateClock),
			huh.NewText().Title("Description").Placeholder("Details...").Value(&t.fv.description),
			huh.NewSelect[string]().Title("Category").Options(catOptions...).Value(&t.fv.category),
		).Title(title),
	).WithShowHelp(true).WithShowErrors(true)

	t.formActive = true
	return t, t.form.Init()
}

func validateClock(s string) error {
	_, _, err := calendar.ParseHHMM(s)
	return err
}

func (t timelineModel) updateForm(msg tea.Msg) (timelineModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case msg.String() == "esc":
			t.ctrl.Cancel()
			t.formActive = false
			t.form = nil
			return t, nil
		case key.Matches(msg, keys.Delete):
			return t.deleteDraft()
		}
	}

	form, cmd := t.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		t.form = f
	}

	if t.form.State == huh.StateCompleted {
		return t.saveDraft()
	}
	return t, cmd
}

func (t timelineModel) saveDraft() (timelineModel, tea.Cmd) {
	d := t.ctrl.Draft()
	d.Title = t.fv.title
	d.Start = t.fv.start
	d.End = t.fv.end
	d.Description = t.fv.description
	d.Category = store.Category(t.fv.category)
	t.ctrl.SetDraft(d)

	res, err := t.ctrl.Save()
	t.formActive = false
	t.form = nil
	if err != nil {
		if errors.Is(err, interaction.ErrReadOnly) {
			t.ctrl.Cancel()
			return t, status("Read-only timeline")
		}
		var cmd tea.Cmd
		t, cmd = t.openForm()
		return t, tea.Batch(cmd, errStatus("Save failed", err))
	}

	t.fv.end = res.Draft.End
	t.raised = res.Entry.ID
	t.setEntries(res.Entries)

	text := fmt.Sprintf("Saved %q", res.Entry.Title)
	if res.Corrected {
		text = fmt.Sprintf("Saved %q (end corrected to %s)", res.Entry.Title, res.Draft.End)
	}
	return t, tea.Batch(status(text), entriesCmd(res.Entries))
}

func (t timelineModel) deleteDraft() (timelineModel, tea.Cmd) {
	entries, err := t.ctrl.Delete()
	if err != nil {
		if errors.Is(err, interaction.ErrCreateMode) {
			return t, status("Nothing to delete yet")
		}
		t.ctrl.Cancel()
		t.formActive = false
		t.form = nil
		return t, errStatus("Delete failed", err)
	}
	t.formActive = false
	t.form = nil
	t.raised = ""
	t.setEntries(entries)
	return t, tea.Batch(status("Entry deleted"), entriesCmd(entries))
}

func entriesCmd(entries []store.TimeEntry) tea.Cmd {
	return func() tea.Msg { return entriesMsg{entries: entries} }
}

func (t timelineModel) title() string {
	title := t.day.Date.Format("Mon, Jan 2 2006")
	if t.sched.IsToday(t.day.Date) {
		title += " · today"
	}
	if t.readOnly {
		title += " · read-only"
	}
	return titleStyle.Render(title) + "  " + highlightStyle.Render(formatSeconds(t.day.TotalSeconds()))
}

func (t timelineModel) view() string {
	w := max(t.width-4, 20)
	if t.formActive && t.form != nil {
		return activePanelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, t.title(), "", t.form.View(),
				mutedStyle.Render("esc: cancel  ctrl+d: delete")),
		)
	}

	rows := []string{t.title()}
	cellWidth := max(w-gutterWidth-2, 8)
	last := min(t.scroll+t.bodyRows(), t.rowsPerDay())
	for r := t.scroll; r < last; r++ {
		rows = append(rows, t.renderRow(r, cellWidth))
	}
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (t timelineModel) renderRow(r, cellWidth int) string {
	top, bottom := t.rowY(r), t.rowY(r+1)
	minute := r * t.cfg.RowMinutes

	marker := " "
	if r == t.cursor {
		marker = selectedItemStyle.Render(">")
	}
	label := "      "
	if minute%60 == 0 {
		label = calendar.FormatMinute(minute) + " "
	}
	isNow := t.day.HasCursor && t.day.CursorY >= top && t.day.CursorY < bottom
	if isNow {
		label = nowStyle.Render(calendar.FormatMinute(t.sched.Cal.MinuteOfDay(t.sched.Clock.Now())) + "▶")
	} else {
		label = gutterStyle.Render(label)
	}
	gutter := marker + label

	if g, ok := t.ctrl.Ghost(); ok && g.Top < bottom && g.Top+g.Height > top {
		return gutter + ghostStyle.Render(strings.Repeat("░", cellWidth))
	}

	b, n, ok := t.blockAt(r)
	if !ok {
		if isNow {
			return gutter + nowStyle.Render(strings.Repeat("─", cellWidth))
		}
		return gutter + mutedStyle.Render("┊")
	}

	extra := ""
	if n > 1 {
		extra = fmt.Sprintf(" +%d", n-1)
	}
	text := "▌"
	if b.Top >= top {
		e := b.Entry
		span := calendar.FormatHHMM(t.sched.Cal.In(e.Start())) + "-" + calendar.FormatHHMM(t.sched.Cal.In(e.End()))
		text = "▌ " + truncate(e.Title, cellWidth-len(span)-len(extra)-4) + "  " + span
	}
	cell := blockStyle(b.Entry.Category, b.Entry.ID == t.raised).Render(padRight(text, cellWidth-len(extra)))
	return gutter + cell + mutedStyle.Render(extra)
}
