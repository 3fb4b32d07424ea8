package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/chronomark/internal/store"
)

type jsonExport struct {
	ExportedAt string      `json:"exported_at"`
	Count      int         `json:"count"`
	TotalSec   int64       `json:"total_seconds"`
	Entries    []jsonEntry `json:"entries"`
}

type jsonEntry struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Category    string `json:"category,omitempty"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	DurationSec int64  `json:"duration_seconds"`
	Duration    string `json:"duration"`
	Description string `json:"description,omitempty"`
}

func ToJSON(entries []store.TimeEntry, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(entries),
	}

	for _, e := range entries {
		export.TotalSec += e.Duration
		export.Entries = append(export.Entries, jsonEntry{
			ID:          e.ID,
			Title:       e.Title,
			Category:    string(e.Category),
			StartTime:   e.Start().Local().Format(time.RFC3339),
			EndTime:     e.End().Local().Format(time.RFC3339),
			DurationSec: e.Duration,
			Duration:    formatDuration(e.Duration),
			Description: e.Description,
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
