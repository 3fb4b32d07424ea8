// Package interaction is the gesture state machine behind the day timeline:
// drag on empty space to create an entry, click a block to edit it.
package interaction

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/sadopc/chronomark/internal/calendar"
	"github.com/sadopc/chronomark/internal/geometry"
	"github.com/sadopc/chronomark/internal/store"
)

// PlaceholderTitle replaces a blank title on save.
const PlaceholderTitle = "New Entry"

// DefaultDragThreshold is the travel, in pixels, a drag must exceed to open
// a create draft.
const DefaultDragThreshold = 10.0

// CorrectionSpan is added to the start when a draft ends at or before it.
const CorrectionSpan = 15 * time.Minute

var (
	ErrReadOnly   = errors.New("timeline is read-only")
	ErrNotEditing = errors.New("no draft is open")
	ErrCreateMode = errors.New("draft has not been saved yet")
	ErrBadTime    = errors.New("invalid draft time")
)

type State int

const (
	Idle State = iota
	Dragging
	Editing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case Editing:
		return "editing"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Writer is the write side of the entry store. A Controller without one is
// read-only.
type Writer interface {
	Put(e store.TimeEntry) ([]store.TimeEntry, error)
	Remove(id string) ([]store.TimeEntry, error)
}

// Draft is the form being edited. Start and End are "HH:MM" on the
// controller's date. An empty ID means create mode.
type Draft struct {
	ID          string
	Title       string
	Description string
	Start       string
	End         string
	Category    store.Category
}

// IsNew reports whether the draft will create a new entry.
func (d Draft) IsNew() bool { return d.ID == "" }

// Ghost is the preview rectangle of a drag in progress.
type Ghost struct {
	Top    float64
	Height float64
}

// SaveResult describes a committed draft.
type SaveResult struct {
	Entry   store.TimeEntry
	Entries []store.TimeEntry
	// Corrected is set when the end time was moved to start+15m. Draft then
	// carries the corrected End so the form can show it.
	Corrected bool
	Draft     Draft
}

type Controller struct {
	scale     geometry.Scale
	cal       calendar.Calendar
	threshold float64
	writer    Writer
	newID     func() string

	date     time.Time
	state    State
	anchorY  float64
	currentY float64
	draft    Draft
}

// Option configures a Controller.
type Option func(*Controller)

// WithDragThreshold overrides DefaultDragThreshold.
func WithDragThreshold(px float64) Option {
	return func(c *Controller) { c.threshold = px }
}

// WithCalendar overrides the local calendar.
func WithCalendar(cal calendar.Calendar) Option {
	return func(c *Controller) { c.cal = cal }
}

// WithIDSource overrides calendar.NewID for fresh entries.
func WithIDSource(fn func() string) Option {
	return func(c *Controller) { c.newID = fn }
}

// New returns an idle controller for date. A nil writer makes it read-only.
func New(scale geometry.Scale, date time.Time, w Writer, opts ...Option) *Controller {
	c := &Controller{
		scale:     scale,
		cal:       calendar.Local(),
		threshold: DefaultDragThreshold,
		writer:    w,
		newID:     calendar.NewID,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.date = c.cal.StartOfDay(date)
	return c
}

func (c *Controller) State() State     { return c.state }
func (c *Controller) Date() time.Time  { return c.date }
func (c *Controller) ReadOnly() bool   { return c.writer == nil }
func (c *Controller) Draft() Draft     { return c.draft }
func (c *Controller) SetDraft(d Draft) { c.draft = d }

// SetDate switches the viewed day. Any open gesture or draft is dropped.
func (c *Controller) SetDate(date time.Time) {
	c.date = c.cal.StartOfDay(date)
	c.reset()
}

// PointerDown starts a drag at y. It reports false when the timeline is
// read-only or a gesture is already in progress.
func (c *Controller) PointerDown(y float64) bool {
	if c.writer == nil || c.state != Idle {
		return false
	}
	y = c.clamp(y)
	c.state = Dragging
	c.anchorY, c.currentY = y, y
	return true
}

// PointerMove tracks the drag. Ignored outside Dragging.
func (c *Controller) PointerMove(y float64) {
	if c.state != Dragging {
		return
	}
	c.currentY = c.clamp(y)
}

// MoveAnchor re-plants the drag anchor at y. Ignored outside Dragging.
func (c *Controller) MoveAnchor(y float64) {
	if c.state != Dragging {
		return
	}
	c.anchorY = c.clamp(y)
}

// PointerUp ends the drag. A span larger than the drag threshold opens a
// create draft and reports true; anything shorter is a stray click.
func (c *Controller) PointerUp() bool {
	if c.state != Dragging {
		return false
	}
	if math.Abs(c.currentY-c.anchorY) <= c.threshold {
		c.reset()
		return false
	}

	startMin, endMin := c.scale.YSpanToTimeOfDay(c.anchorY, c.currentY)
	endMin = min(endMin, geometry.MinutesPerDay-1)
	c.reset()
	c.state = Editing
	c.draft = Draft{
		Start: calendar.FormatMinute(startMin),
		End:   calendar.FormatMinute(endMin),
	}
	return true
}

// Ghost returns the drag preview while Dragging.
func (c *Controller) Ghost() (Ghost, bool) {
	if c.state != Dragging {
		return Ghost{}, false
	}
	return Ghost{
		Top:    math.Min(c.anchorY, c.currentY),
		Height: math.Abs(c.currentY - c.anchorY),
	}, true
}

// EntryClick opens e for editing. A drag started by the same gesture is
// abandoned. Read-only timelines may still open entries; saving them fails.
func (c *Controller) EntryClick(e store.TimeEntry) bool {
	if c.state == Editing {
		return false
	}
	c.reset()
	c.state = Editing
	c.draft = Draft{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Start:       calendar.FormatHHMM(c.cal.In(e.Start())),
		End:         calendar.FormatHHMM(c.cal.In(e.End())),
		Category:    e.Category,
	}
	return true
}

// Cancel closes the draft without writing anything.
func (c *Controller) Cancel() {
	if c.state == Editing {
		c.reset()
	}
}

// Save validates the draft, commits it, and returns to Idle. On error the
// draft stays open.
func (c *Controller) Save() (SaveResult, error) {
	if c.state != Editing {
		return SaveResult{}, ErrNotEditing
	}
	if c.writer == nil {
		return SaveResult{}, ErrReadOnly
	}

	start, err := c.combine(c.draft.Start)
	if err != nil {
		return SaveResult{}, fmt.Errorf("save draft start: %w", err)
	}
	end, err := c.combine(c.draft.End)
	if err != nil {
		return SaveResult{}, fmt.Errorf("save draft end: %w", err)
	}

	draft := c.draft
	corrected := false
	if !end.After(start) {
		end = start.Add(CorrectionSpan)
		draft.End = calendar.FormatHHMM(end)
		corrected = true
	}
	// The form shows the correction even if the write below fails.
	c.draft = draft

	id := draft.ID
	if id == "" {
		id = c.newID()
	}
	title := strings.TrimSpace(draft.Title)
	if title == "" {
		title = PlaceholderTitle
	}
	e := store.TimeEntry{
		ID:          id,
		Title:       title,
		Description: draft.Description,
		StartTime:   start.UnixMilli(),
		EndTime:     end.UnixMilli(),
		Category:    draft.Category,
	}
	e.Duration = e.DerivedDuration()

	entries, err := c.writer.Put(e)
	if err != nil {
		return SaveResult{}, fmt.Errorf("save draft: %w", err)
	}
	c.reset()
	return SaveResult{Entry: e, Entries: entries, Corrected: corrected, Draft: draft}, nil
}

// Delete removes the entry being edited. Create-mode drafts cannot be deleted.
func (c *Controller) Delete() ([]store.TimeEntry, error) {
	if c.state != Editing {
		return nil, ErrNotEditing
	}
	if c.draft.IsNew() {
		return nil, ErrCreateMode
	}
	if c.writer == nil {
		return nil, ErrReadOnly
	}
	entries, err := c.writer.Remove(c.draft.ID)
	if err != nil {
		return nil, fmt.Errorf("delete draft %s: %w", c.draft.ID, err)
	}
	c.reset()
	return entries, nil
}

func (c *Controller) combine(hhmm string) (time.Time, error) {
	h, m, err := calendar.ParseHHMM(hhmm)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %w", ErrBadTime, err)
	}
	return c.cal.At(c.date, h, m), nil
}

func (c *Controller) clamp(y float64) float64 {
	return math.Max(0, math.Min(y, c.scale.TotalHeight()))
}

func (c *Controller) reset() {
	c.state = Idle
	c.anchorY, c.currentY = 0, 0
	c.draft = Draft{}
}
