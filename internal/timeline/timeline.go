// Package timeline lays out one calendar day of entries on the vertical
// time axis and tracks the live "now" cursor.
//
// Overlapping entries are not repositioned: they render as overlapping
// blocks and the pointed-at block is raised above its neighbours.
package timeline

import (
	"sort"
	"time"

	"github.com/sadopc/chronomark/internal/calendar"
	"github.com/sadopc/chronomark/internal/geometry"
	"github.com/sadopc/chronomark/internal/store"
)

// DefaultTickInterval is how often the now cursor is recomputed.
const DefaultTickInterval = time.Minute

// Block is an entry placed on the timeline.
type Block struct {
	Entry  store.TimeEntry
	Top    float64
	Height float64
}

// Bottom is the y just past the block.
func (b Block) Bottom() float64 { return b.Top + b.Height }

// Contains reports whether y falls inside the block.
func (b Block) Contains(y float64) bool {
	return y >= b.Top && y < b.Bottom()
}

// Scheduler produces day layouts. Its clock and calendar are injected so a
// fixed date can be pinned in tests.
type Scheduler struct {
	Scale        geometry.Scale
	Cal          calendar.Calendar
	Clock        calendar.Clock
	TickInterval time.Duration
}

// New returns a Scheduler on the system clock and local calendar.
func New(scale geometry.Scale) *Scheduler {
	return &Scheduler{
		Scale:        scale,
		Cal:          calendar.Local(),
		Clock:        calendar.SystemClock{},
		TickInterval: DefaultTickInterval,
	}
}

// EntriesForDay keeps entries whose start falls within date's local day,
// 00:00:00.000 through 23:59:59.999. Where an entry ends does not matter.
// The input order is preserved.
func (s *Scheduler) EntriesForDay(all []store.TimeEntry, date time.Time) []store.TimeEntry {
	from := s.Cal.StartOfDay(date).UnixMilli()
	to := s.Cal.EndOfDay(date).UnixMilli()

	var out []store.TimeEntry
	for _, e := range all {
		if e.StartTime >= from && e.StartTime <= to {
			out = append(out, e)
		}
	}
	return out
}

// Layout places each entry independently, in ascending start order so later
// entries draw over earlier ones.
func (s *Scheduler) Layout(day []store.TimeEntry) []Block {
	blocks := make([]Block, 0, len(day))
	for _, e := range day {
		blocks = append(blocks, Block{
			Entry:  e,
			Top:    s.Scale.TimeOfDayToY(s.Cal.In(e.Start())),
			Height: s.Scale.DurationToHeight(e.Duration),
		})
	}
	sort.SliceStable(blocks, func(i, j int) bool {
		return blocks[i].Entry.StartTime < blocks[j].Entry.StartTime
	})
	return blocks
}

// IsToday reports whether date is the clock's current calendar day.
func (s *Scheduler) IsToday(date time.Time) bool {
	return s.Cal.SameDay(s.Clock.Now(), date)
}

// LiveCursor returns the y of the current time when date is today.
func (s *Scheduler) LiveCursor(date time.Time) (float64, bool) {
	now := s.Clock.Now()
	if !s.Cal.SameDay(now, date) {
		return 0, false
	}
	return s.Scale.TimeOfDayToY(s.Cal.In(now)), true
}

// HitTest returns the block drawn on top at y. The raised block, if it is
// under y, wins; otherwise the last drawn block does.
func HitTest(blocks []Block, y float64, raisedID string) (Block, bool) {
	var (
		hit   Block
		found bool
	)
	for _, b := range blocks {
		if !b.Contains(y) {
			continue
		}
		if raisedID != "" && b.Entry.ID == raisedID {
			return b, true
		}
		hit, found = b, true
	}
	return hit, found
}

// HitSpan is HitTest over the span [y0, y1), for callers such as a terminal
// row that cover more than a single point.
func HitSpan(blocks []Block, y0, y1 float64, raisedID string) (Block, int, bool) {
	var (
		hit   Block
		count int
	)
	raisedHit := false
	for _, b := range blocks {
		if b.Top >= y1 || b.Bottom() <= y0 {
			continue
		}
		count++
		if raisedHit {
			continue
		}
		hit = b
		if raisedID != "" && b.Entry.ID == raisedID {
			raisedHit = true
		}
	}
	return hit, count, count > 0
}

// Day is everything needed to render one date.
type Day struct {
	Date      time.Time
	Entries   []store.TimeEntry
	Blocks    []Block
	CursorY   float64
	HasCursor bool
}

// Day filters, lays out and positions the cursor for date.
func (s *Scheduler) Day(all []store.TimeEntry, date time.Time) Day {
	entries := s.EntriesForDay(all, date)
	y, ok := s.LiveCursor(date)
	return Day{
		Date:      s.Cal.StartOfDay(date),
		Entries:   entries,
		Blocks:    s.Layout(entries),
		CursorY:   y,
		HasCursor: ok,
	}
}

// TotalSeconds sums the durations of the day's entries.
func (d Day) TotalSeconds() int64 {
	var total int64
	for _, e := range d.Entries {
		total += e.Duration
	}
	return total
}
