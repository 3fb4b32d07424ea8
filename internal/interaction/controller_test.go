package interaction

import (
	"errors"
	"testing"
	"time"

	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/sadopc/chronomark/internal/calendar"
	"github.com/sadopc/chronomark/internal/geometry"
	"github.com/sadopc/chronomark/internal/store"
)

var day = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	log, _ := logtest.NewNullLogger()
	s, err := store.NewMemory(log)
	if err != nil {
		t.Fatalf("NewMemory: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func newTestController(t *testing.T, w Writer) *Controller {
	t.Helper()
	n := 0
	return New(geometry.DefaultScale, day.Add(13*time.Hour), w,
		WithCalendar(calendar.Calendar{Loc: time.UTC}),
		WithIDSource(func() string {
			n++
			return "new-" + string(rune('0'+n))
		}),
	)
}

// ==========================================================================
// Drag to create
// ==========================================================================

func TestDragCreatesDraft(t *testing.T) {
	c := newTestController(t, newTestStore(t))

	if !c.PointerDown(900) {
		t.Fatal("PointerDown should start a drag")
	}
	c.PointerMove(960)
	c.PointerMove(810) // drag upward past the anchor
	if g, ok := c.Ghost(); !ok || g.Top != 810 || g.Height != 90 {
		t.Errorf("Ghost = %+v, %v", g, ok)
	}
	if !c.PointerUp() {
		t.Fatal("PointerUp should open a draft")
	}
	if c.State() != Editing {
		t.Fatalf("state = %v, want editing", c.State())
	}
	d := c.Draft()
	if !d.IsNew() || d.Start != "09:00" || d.End != "10:00" || d.Title != "" {
		t.Errorf("draft = %+v", d)
	}
}

func TestDragBelowThresholdIsClick(t *testing.T) {
	c := newTestController(t, newTestStore(t))
	c.PointerDown(500)
	c.PointerMove(510) // exactly the threshold
	if c.PointerUp() {
		t.Error("a 10px drag should not open a draft")
	}
	if c.State() != Idle {
		t.Errorf("state = %v, want idle", c.State())
	}
	if _, ok := c.Ghost(); ok {
		t.Error("no ghost expected when idle")
	}
}

func TestReadOnlyNeverDrags(t *testing.T) {
	c := newTestController(t, nil)
	if c.PointerDown(100) {
		t.Error("read-only controller entered dragging")
	}
	c.PointerMove(400)
	if c.PointerUp() || c.State() != Idle {
		t.Errorf("state = %v, want idle", c.State())
	}
}

func TestDragClampsToDay(t *testing.T) {
	c := newTestController(t, newTestStore(t))
	c.PointerDown(2100)
	c.PointerMove(5000)
	c.PointerUp()
	if d := c.Draft(); d.Start != "23:20" || d.End != "23:59" {
		t.Errorf("draft = %+v, want 23:20-23:59", d)
	}
}

func TestMoveAnchor(t *testing.T) {
	c := newTestController(t, newTestStore(t))
	c.MoveAnchor(300)
	if c.State() != Idle {
		t.Fatalf("state = %v, want idle", c.State())
	}

	c.PointerDown(922.5)
	c.PointerMove(855)
	c.MoveAnchor(855)
	if g, _ := c.Ghost(); g.Height != 0 {
		t.Errorf("ghost height = %v, want 0", g.Height)
	}
	if c.PointerUp() {
		t.Error("anchor moved onto the pointer should read as a click")
	}

	c.PointerDown(900)
	c.MoveAnchor(922.5)
	c.PointerMove(855)
	if !c.PointerUp() {
		t.Fatal("expected a draft")
	}
	if d := c.Draft(); d.Start != "09:30" || d.End != "10:15" {
		t.Errorf("draft = %+v, want 09:30-10:15", d)
	}
}

// ==========================================================================
// Click to edit
// ==========================================================================

func TestEntryClickSeedsDraft(t *testing.T) {
	c := newTestController(t, newTestStore(t))
	e := store.TimeEntry{
		ID: "abc", Title: "Write", Description: "draft chapter", Category: store.CategoryWork,
		StartTime: day.Add(14*time.Hour + 5*time.Minute).UnixMilli(),
		EndTime:   day.Add(15*time.Hour + 45*time.Minute).UnixMilli(),
	}
	if !c.EntryClick(e) {
		t.Fatal("EntryClick should open the draft")
	}
	want := Draft{ID: "abc", Title: "Write", Description: "draft chapter", Start: "14:05", End: "15:45", Category: store.CategoryWork}
	if c.Draft() != want {
		t.Errorf("draft = %+v, want %+v", c.Draft(), want)
	}
}

func TestEntryClickSuppressesDrag(t *testing.T) {
	c := newTestController(t, newTestStore(t))
	c.PointerDown(100)
	c.EntryClick(store.TimeEntry{ID: "x", StartTime: day.UnixMilli(), EndTime: day.Add(time.Hour).UnixMilli()})
	c.PointerMove(600)
	if c.PointerUp() {
		t.Error("drag continued after entry click")
	}
	if c.State() != Editing || c.Draft().ID != "x" {
		t.Errorf("state = %v draft = %+v", c.State(), c.Draft())
	}
}

// ==========================================================================
// Save
// ==========================================================================

func TestSaveCreate(t *testing.T) {
	s := newTestStore(t)
	c := newTestController(t, s)
	c.PointerDown(810)
	c.PointerMove(900)
	c.PointerUp()

	d := c.Draft()
	d.Title = "  "
	d.Description = "notes"
	c.SetDraft(d)

	res, err := c.Save()
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if res.Entry.ID != "new-1" || res.Entry.Title != PlaceholderTitle {
		t.Errorf("entry = %+v", res.Entry)
	}
	if res.Entry.Duration != 3600 || res.Corrected {
		t.Errorf("duration = %d corrected = %v", res.Entry.Duration, res.Corrected)
	}
	if c.State() != Idle {
		t.Errorf("state = %v, want idle", c.State())
	}
	list, _ := s.List()
	if len(list) != 1 || list[0].ID != "new-1" || len(res.Entries) != 1 {
		t.Errorf("store = %+v", list)
	}
}

func TestSaveAutoCorrectsEnd(t *testing.T) {
	s := newTestStore(t)
	c := newTestController(t, s)
	c.PointerDown(0)
	c.PointerMove(100)
	c.PointerUp()
	c.SetDraft(Draft{Title: "Standup", Start: "09:00", End: "08:00"})

	res, err := c.Save()
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !res.Corrected || res.Draft.End != "09:15" {
		t.Errorf("corrected = %v end = %q, want true 09:15", res.Corrected, res.Draft.End)
	}
	wantEnd := day.Add(9*time.Hour + 15*time.Minute).UnixMilli()
	if res.Entry.EndTime != wantEnd || res.Entry.Duration != 900 {
		t.Errorf("end = %d duration = %d, want %d 900", res.Entry.EndTime, res.Entry.Duration, wantEnd)
	}
}

func TestSaveEqualTimesCorrected(t *testing.T) {
	c := newTestController(t, newTestStore(t))
	c.EntryClick(store.TimeEntry{ID: "e", StartTime: day.UnixMilli(), EndTime: day.Add(time.Hour).UnixMilli()})
	d := c.Draft()
	d.Start, d.End = "23:50", "23:50"
	c.SetDraft(d)
	res, err := c.Save()
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if res.Draft.End != "00:05" || res.Entry.Duration != 900 {
		t.Errorf("end = %q duration = %d", res.Draft.End, res.Entry.Duration)
	}
}

func TestSaveEditPreservesIdentity(t *testing.T) {
	s := newTestStore(t)
	orig := store.TimeEntry{ID: "keep", Title: "Old", StartTime: day.Add(9 * time.Hour).UnixMilli(), EndTime: day.Add(10 * time.Hour).UnixMilli()}
	other := store.TimeEntry{ID: "other", Title: "Other", StartTime: day.Add(11 * time.Hour).UnixMilli(), EndTime: day.Add(12 * time.Hour).UnixMilli()}
	s.Put(orig)
	s.Put(other)

	c := newTestController(t, s)
	c.EntryClick(orig)
	d := c.Draft()
	d.Title = "New"
	d.End = "10:30"
	c.SetDraft(d)
	if _, err := c.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	list, _ := s.List()
	if len(list) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(list))
	}
	for _, e := range list {
		if e.ID == "keep" && (e.Title != "New" || e.Duration != 5400) {
			t.Errorf("edited entry = %+v", e)
		}
		if e.ID == "other" && e.Title != "Other" {
			t.Errorf("unrelated entry changed: %+v", e)
		}
	}
}

func TestSaveBadTimeKeepsDraft(t *testing.T) {
	c := newTestController(t, newTestStore(t))
	c.EntryClick(store.TimeEntry{ID: "e", StartTime: day.UnixMilli(), EndTime: day.Add(time.Hour).UnixMilli()})
	d := c.Draft()
	d.Start = "25:00"
	c.SetDraft(d)
	if _, err := c.Save(); !errors.Is(err, ErrBadTime) {
		t.Errorf("Save error = %v, want ErrBadTime", err)
	}
	if c.State() != Editing {
		t.Errorf("state = %v, want editing", c.State())
	}
}

func TestSaveReadOnly(t *testing.T) {
	c := newTestController(t, nil)
	c.EntryClick(store.TimeEntry{ID: "e", StartTime: day.UnixMilli(), EndTime: day.Add(time.Hour).UnixMilli()})
	if _, err := c.Save(); !errors.Is(err, ErrReadOnly) {
		t.Errorf("Save error = %v, want ErrReadOnly", err)
	}
}

func TestSaveNotEditing(t *testing.T) {
	c := newTestController(t, newTestStore(t))
	if _, err := c.Save(); !errors.Is(err, ErrNotEditing) {
		t.Errorf("Save error = %v, want ErrNotEditing", err)
	}
}

// ==========================================================================
// Cancel / Delete
// ==========================================================================

func TestCancelWritesNothing(t *testing.T) {
	s := newTestStore(t)
	c := newTestController(t, s)
	c.PointerDown(0)
	c.PointerMove(300)
	c.PointerUp()
	c.Cancel()
	if c.State() != Idle {
		t.Errorf("state = %v, want idle", c.State())
	}
	if list, _ := s.List(); len(list) != 0 {
		t.Errorf("cancel wrote %d entries", len(list))
	}
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)
	a := store.TimeEntry{ID: "a", Title: "A", StartTime: day.Add(9 * time.Hour).UnixMilli(), EndTime: day.Add(10 * time.Hour).UnixMilli()}
	b := store.TimeEntry{ID: "b", Title: "B", StartTime: day.Add(9 * time.Hour).UnixMilli(), EndTime: day.Add(10 * time.Hour).UnixMilli()}
	s.Put(a)
	s.Put(b)

	c := newTestController(t, s)
	c.EntryClick(a)
	entries, err := c.Delete()
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(entries) != 1 || entries[0].ID != "b" {
		t.Errorf("entries after delete = %+v", entries)
	}
	if c.State() != Idle {
		t.Errorf("state = %v, want idle", c.State())
	}
}

func TestDeleteCreateMode(t *testing.T) {
	c := newTestController(t, newTestStore(t))
	c.PointerDown(0)
	c.PointerMove(300)
	c.PointerUp()
	if _, err := c.Delete(); !errors.Is(err, ErrCreateMode) {
		t.Errorf("Delete error = %v, want ErrCreateMode", err)
	}
}

func TestSetDateResets(t *testing.T) {
	c := newTestController(t, newTestStore(t))
	c.PointerDown(0)
	c.SetDate(day.AddDate(0, 0, 1).Add(5 * time.Hour))
	if c.State() != Idle {
		t.Errorf("state = %v, want idle", c.State())
	}
	if !c.Date().Equal(day.AddDate(0, 0, 1)) {
		t.Errorf("date = %v", c.Date())
	}
}
