package store

import "time"

// Category is a display-only classification tag.
type Category string

const (
	CategoryWork     Category = "work"
	CategoryPersonal Category = "personal"
	CategoryStudy    Category = "study"
	CategoryWaste    Category = "waste"
	CategoryOther    Category = "other"
)

// Categories lists every valid category in display order.
var Categories = []Category{CategoryWork, CategoryPersonal, CategoryStudy, CategoryWaste, CategoryOther}

// TimeEntry is one recorded activity. Times are epoch milliseconds so the
// persisted JSON matches the slot format exactly.
type TimeEntry struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	StartTime   int64    `json:"startTime"`
	EndTime     int64    `json:"endTime"`
	Duration    int64    `json:"duration"` // seconds
	Category    Category `json:"category,omitempty"`
}

func (e TimeEntry) Start() time.Time { return time.UnixMilli(e.StartTime) }
func (e TimeEntry) End() time.Time   { return time.UnixMilli(e.EndTime) }

// DerivedDuration is (EndTime-StartTime)/1000 in whole seconds.
func (e TimeEntry) DerivedDuration() int64 {
	return (e.EndTime - e.StartTime) / 1000
}

type Setting struct {
	Key   string
	Value string
}
