package store

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrEmptyID      = errors.New("entry has no id")
	ErrInvalidRange = errors.New("entry must end after it starts")
)

// List returns every entry, newest start first. The slice is a fresh copy.
func (s *Store) List() ([]TimeEntry, error) {
	entries, err := s.readEntries(s.db)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	sortEntries(entries)
	return entries, nil
}

// Put inserts e, or replaces the entry with the same id in place, and returns
// the full collection. Duration is always recomputed from the time bounds.
func (s *Store) Put(e TimeEntry) ([]TimeEntry, error) {
	if e.ID == "" {
		return nil, fmt.Errorf("put entry: %w", ErrEmptyID)
	}
	if e.EndTime <= e.StartTime {
		return nil, fmt.Errorf("put entry %s: %w", e.ID, ErrInvalidRange)
	}
	e.Duration = e.DerivedDuration()

	entries, err := s.mutate(func(current []TimeEntry) ([]TimeEntry, error) {
		for i := range current {
			if current[i].ID == e.ID {
				current[i] = e
				return current, nil
			}
		}
		return append(current, e), nil
	})
	if err != nil {
		return nil, fmt.Errorf("put entry %s: %w", e.ID, err)
	}
	return entries, nil
}

// Remove deletes the entry with the given id. Unknown ids are not an error.
func (s *Store) Remove(id string) ([]TimeEntry, error) {
	entries, err := s.mutate(func(current []TimeEntry) ([]TimeEntry, error) {
		kept := current[:0]
		for _, e := range current {
			if e.ID != id {
				kept = append(kept, e)
			}
		}
		return kept, nil
	})
	if err != nil {
		return nil, fmt.Errorf("remove entry %s: %w", id, err)
	}
	return entries, nil
}

// Clear empties the persisted collection.
func (s *Store) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM slots WHERE key = ?`, EntriesSlot); err != nil {
		return fmt.Errorf("clear entries: %w", err)
	}
	return nil
}

// Recent returns at most n entries, newest first.
func (s *Store) Recent(n int) ([]TimeEntry, error) {
	entries, err := s.List()
	if err != nil {
		return nil, err
	}
	if n >= 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries, nil
}

func sortEntries(entries []TimeEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].StartTime > entries[j].StartTime
	})
}

func cloneEntries(entries []TimeEntry) []TimeEntry {
	out := make([]TimeEntry, len(entries))
	copy(out, entries)
	return out
}
