package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryRow(query string, args ...any) *sql.Row
	Exec(query string, args ...any) (sql.Result, error)
}

// readEntries loads the entries slot. A missing slot is an empty collection;
// so is one holding data that does not decode, which is logged and otherwise
// ignored.
func (s *Store) readEntries(q querier) ([]TimeEntry, error) {
	var raw string
	err := q.QueryRow(`SELECT value FROM slots WHERE key = ?`, EntriesSlot).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return []TimeEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read slot %q: %w", EntriesSlot, err)
	}

	var entries []TimeEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		s.log.WithError(err).WithField("slot", EntriesSlot).Warn("unparseable entry data, treating as empty")
		return []TimeEntry{}, nil
	}
	if entries == nil {
		entries = []TimeEntry{}
	}
	return entries, nil
}

func (s *Store) writeEntries(q querier, entries []TimeEntry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode entries: %w", err)
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err = q.Exec(
		`INSERT INTO slots (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		EntriesSlot, string(data), now,
	)
	if err != nil {
		return fmt.Errorf("write slot %q: %w", EntriesSlot, err)
	}
	return nil
}

// mutate runs read-modify-write of the whole entries slot in one transaction.
func (s *Store) mutate(fn func([]TimeEntry) ([]TimeEntry, error)) ([]TimeEntry, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	current, err := s.readEntries(tx)
	if err != nil {
		return nil, err
	}
	updated, err := fn(current)
	if err != nil {
		return nil, err
	}
	sortEntries(updated)
	if err := s.writeEntries(tx, updated); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return cloneEntries(updated), nil
}
