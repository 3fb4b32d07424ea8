package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sadopc/chronomark/internal/store"
)

func sampleData() []store.TimeEntry {
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	return []store.TimeEntry{
		{
			ID:          "b2",
			Title:       "Deep work",
			Description: "worked on feature",
			StartTime:   base.Add(2 * time.Hour).UnixMilli(),
			EndTime:     base.Add(3 * time.Hour).UnixMilli(),
			Duration:    3600,
			Category:    store.CategoryWork,
		},
		{
			ID:        "a1",
			Title:     "Reading",
			StartTime: base.UnixMilli(),
			EndTime:   base.Add(30 * time.Minute).UnixMilli(),
			Duration:  1800,
		},
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	return records
}

// ============================================================
// CSV
// ============================================================

func TestToCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.csv")
	if err := ToCSV(sampleData(), path); err != nil {
		t.Fatalf("ToCSV: %v", err)
	}

	records := readCSV(t, path)
	if len(records) != 3 {
		t.Fatalf("expected 3 rows (1 header + 2 data), got %d", len(records))
	}
	for i, h := range csvHeader {
		if records[0][i] != h {
			t.Fatalf("header[%d] = %q, want %q", i, records[0][i], h)
		}
	}

	row := records[1]
	if row[0] != "b2" || row[1] != "Deep work" || row[2] != "work" {
		t.Fatalf("row = %v", row)
	}
	if row[5] != "3600" || row[6] != "01:00:00" {
		t.Fatalf("durations = %q %q", row[5], row[6])
	}
	if row[7] != "worked on feature" {
		t.Fatalf("Description = %q", row[7])
	}
	start, err := time.Parse(time.RFC3339, row[3])
	if err != nil || start.UnixMilli() != sampleData()[0].StartTime {
		t.Fatalf("Start = %q (%v)", row[3], err)
	}
	if records[2][2] != "" {
		t.Fatalf("uncategorized entry should have empty category, got %q", records[2][2])
	}
}

func TestToCSVEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := ToCSV(nil, path); err != nil {
		t.Fatal(err)
	}
	if records := readCSV(t, path); len(records) != 1 {
		t.Fatalf("expected 1 row (header only), got %d", len(records))
	}
}

func TestToCSVBadPath(t *testing.T) {
	if err := ToCSV(nil, "/nonexistent/dir/file.csv"); err == nil {
		t.Fatal("expected error for bad path")
	}
}

func TestToCSVSpecialCharacters(t *testing.T) {
	entries := sampleData()[:1]
	entries[0].Title = `Title "Special"`
	entries[0].Description = `notes with "quotes" and, commas`
	path := filepath.Join(t.TempDir(), "special.csv")

	if err := ToCSV(entries, path); err != nil {
		t.Fatal(err)
	}
	records := readCSV(t, path)
	if records[1][1] != `Title "Special"` {
		t.Fatalf("title mangled: %q", records[1][1])
	}
	if records[1][7] != `notes with "quotes" and, commas` {
		t.Fatalf("description mangled: %q", records[1][7])
	}
}

// ============================================================
// JSON
// ============================================================

func TestToJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.json")
	if err := ToJSON(sampleData(), path); err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var result jsonExport
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if result.Count != 2 || len(result.Entries) != 2 {
		t.Fatalf("count = %d entries = %d, want 2", result.Count, len(result.Entries))
	}
	if result.TotalSec != 5400 {
		t.Fatalf("total_seconds = %d, want 5400", result.TotalSec)
	}
	if result.ExportedAt == "" {
		t.Fatal("exported_at should not be empty")
	}

	e := result.Entries[0]
	if e.ID != "b2" || e.Title != "Deep work" || e.Category != "work" {
		t.Fatalf("entry = %+v", e)
	}
	if e.DurationSec != 3600 || e.Duration != "01:00:00" {
		t.Fatalf("durations = %d %q", e.DurationSec, e.Duration)
	}
}

func TestToJSONEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	if err := ToJSON(nil, path); err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(path)
	var result jsonExport
	json.Unmarshal(data, &result)

	if result.Count != 0 {
		t.Fatalf("count = %d, want 0", result.Count)
	}
	if result.Entries != nil {
		t.Fatal("entries should be nil/null for empty export")
	}
}

func TestToJSONBadPath(t *testing.T) {
	if err := ToJSON(nil, "/nonexistent/dir/file.json"); err == nil {
		t.Fatal("expected error for bad path")
	}
}

// ============================================================
// Format
// ============================================================

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"csv", CSV, false},
		{"JSON", JSON, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestWriteDispatch(t *testing.T) {
	dir := t.TempDir()
	for _, f := range []Format{CSV, JSON} {
		path := filepath.Join(dir, DefaultFileName(f, "20260310"))
		if err := Write(f, sampleData(), path); err != nil {
			t.Fatalf("Write(%s): %v", f, err)
		}
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("missing %s: %v", path, err)
		}
	}
	if err := Write("xml", nil, filepath.Join(dir, "x")); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		secs int64
		want string
	}{
		{0, "00:00:00"},
		{59, "00:00:59"},
		{3661, "01:01:01"},
		{36000, "10:00:00"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.secs); got != tt.want {
			t.Errorf("formatDuration(%d) = %q, want %q", tt.secs, got, tt.want)
		}
	}
}
