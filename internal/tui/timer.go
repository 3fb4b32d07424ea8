package tui

import (
	"errors"
	"strings"
	"time"

	"github.com/sadopc/chronomark/internal/calendar"
	"github.com/sadopc/chronomark/internal/store"
)

// UntitledTask names a quick-marked entry saved without a title.
const UntitledTask = "Untitled task"

var errTimerStopped = errors.New("timer is not running")

// timerState tracks the current state of the quick-mark stopwatch.
type timerState int

const (
	timerStopped timerState = iota
	timerRunning
	// timerMarked means stopped with an unsaved span waiting for a title.
	timerMarked
)

// timerModel measures one activity; nothing is written until the marked
// span is saved.
type timerModel struct {
	store *store.Store
	clock calendar.Clock

	state     timerState
	startTime time.Time
	endTime   time.Time
	elapsed   time.Duration
}

func newTimerModel(s *store.Store, clock calendar.Clock) timerModel {
	return timerModel{
		store: s,
		clock: clock,
		state: timerStopped,
	}
}

func (t *timerModel) start() {
	if t.state == timerRunning {
		return
	}
	t.state = timerRunning
	t.startTime = t.clock.Now()
	t.endTime = time.Time{}
	t.elapsed = 0
}

// mark stops the stopwatch and keeps the span for saving.
func (t *timerModel) mark() error {
	if t.state != timerRunning {
		return errTimerStopped
	}
	t.endTime = t.clock.Now()
	t.elapsed = t.endTime.Sub(t.startTime)
	t.state = timerMarked
	return nil
}

func (t *timerModel) discard() {
	t.state = timerStopped
	t.elapsed = 0
	t.startTime, t.endTime = time.Time{}, time.Time{}
}

// save writes the marked span as a new entry. Durations are floored to
// whole seconds; spans shorter than a second are widened to one.
func (t *timerModel) save(title, description string, cat store.Category) (store.TimeEntry, []store.TimeEntry, error) {
	if t.state != timerMarked {
		return store.TimeEntry{}, nil, errTimerStopped
	}
	title = strings.TrimSpace(title)
	if title == "" {
		title = UntitledTask
	}
	start := t.startTime.Truncate(time.Second)
	end := t.endTime.Truncate(time.Second)
	if !end.After(start) {
		end = start.Add(time.Second)
	}

	e := store.TimeEntry{
		ID:          calendar.NewID(),
		Title:       title,
		Description: description,
		StartTime:   start.UnixMilli(),
		EndTime:     end.UnixMilli(),
		Category:    cat,
	}
	entries, err := t.store.Put(e)
	if err != nil {
		return store.TimeEntry{}, nil, err
	}
	e.Duration = e.DerivedDuration()
	t.discard()
	return e, entries, nil
}

func (t *timerModel) tick() {
	if t.state == timerRunning {
		t.elapsed = t.clock.Now().Sub(t.startTime)
	}
}

func (t timerModel) running() bool { return t.state == timerRunning }
func (t timerModel) marked() bool  { return t.state == timerMarked }

func (t timerModel) currentElapsed() time.Duration {
	switch t.state {
	case timerRunning:
		return t.clock.Now().Sub(t.startTime)
	case timerMarked:
		return t.elapsed
	}
	return 0
}
