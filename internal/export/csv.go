package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/sadopc/chronomark/internal/store"
)

var csvHeader = []string{"ID", "Title", "Category", "Start", "End", "Duration (s)", "Duration", "Description"}

func ToCSV(entries []store.TimeEntry, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(csvHeader); err != nil {
		return err
	}

	for _, e := range entries {
		row := []string{
			e.ID,
			e.Title,
			string(e.Category),
			e.Start().Local().Format(time.RFC3339),
			e.End().Local().Format(time.RFC3339),
			strconv.FormatInt(e.Duration, 10),
			formatDuration(e.Duration),
			e.Description,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func formatDuration(secs int64) string {
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
