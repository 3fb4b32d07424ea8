// Package export writes the entry collection to CSV or JSON files.
package export

import (
	"fmt"
	"strings"

	"github.com/sadopc/chronomark/internal/store"
)

type Format string

const (
	CSV  Format = "csv"
	JSON Format = "json"
)

// ParseFormat accepts "csv" or "json" in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case CSV, JSON:
		return f, nil
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

// Write exports entries to path in format f.
func Write(f Format, entries []store.TimeEntry, path string) error {
	switch f {
	case CSV:
		return ToCSV(entries, path)
	case JSON:
		return ToJSON(entries, path)
	}
	return fmt.Errorf("unknown export format %q", f)
}

// DefaultFileName is "chronomark-<stamp>.<ext>".
func DefaultFileName(f Format, stamp string) string {
	return fmt.Sprintf("chronomark-%s.%s", stamp, f)
}
