// Package history sums entry durations into week, month and year buckets
// and handles drill-down and prev/next navigation between them.
package history

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/sadopc/chronomark/internal/calendar"
	"github.com/sadopc/chronomark/internal/store"
)

type Granularity int

const (
	Day Granularity = iota
	Week
	Month
	Year
)

var granularityNames = map[Granularity]string{
	Day:   "day",
	Week:  "week",
	Month: "month",
	Year:  "year",
}

func (g Granularity) String() string {
	if s, ok := granularityNames[g]; ok {
		return s
	}
	return fmt.Sprintf("Granularity(%d)", int(g))
}

// ParseGranularity accepts "day", "week", "month" or "year".
func ParseGranularity(s string) (Granularity, error) {
	for g, name := range granularityNames {
		if strings.EqualFold(s, name) {
			return g, nil
		}
	}
	return 0, fmt.Errorf("unknown granularity %q", s)
}

// Bucket is one summed span, [Start, End).
type Bucket struct {
	Label   string
	Start   time.Time
	End     time.Time
	Seconds int64
}

// Hours is Seconds in hours, rounded to one decimal.
func (b Bucket) Hours() float64 {
	return math.Round(float64(b.Seconds)/3600*10) / 10
}

func (b Bucket) contains(ms int64) bool {
	return ms >= b.Start.UnixMilli() && ms < b.End.UnixMilli()
}

// Aggregator buckets entries using the rules of Cal.
type Aggregator struct {
	Cal calendar.Calendar
}

// New returns an Aggregator on the local calendar.
func New() Aggregator {
	return Aggregator{Cal: calendar.Local()}
}

// Range returns the span [start, end) covered by g around ref.
func (a Aggregator) Range(ref time.Time, g Granularity) (time.Time, time.Time) {
	switch g {
	case Week:
		start := a.Cal.WeekStart(ref)
		return start, start.AddDate(0, 0, 7)
	case Month:
		start := a.Cal.MonthStart(ref)
		return start, start.AddDate(0, 1, 0)
	case Year:
		start := a.Cal.YearStart(ref)
		return start, start.AddDate(1, 0, 0)
	default:
		start := a.Cal.StartOfDay(ref)
		return start, start.AddDate(0, 0, 1)
	}
}

// Buckets returns the ordered summary series for ref at granularity g:
// 7 Monday-first days for Week, 7-day runs from the 1st for Month (the last
// may be shorter), 12 months for Year, and a single bucket for Day.
// Each entry counts in full toward the bucket its start falls in.
func (a Aggregator) Buckets(all []store.TimeEntry, ref time.Time, g Granularity) []Bucket {
	buckets := a.layout(ref, g)
	for _, e := range all {
		for i := range buckets {
			if buckets[i].contains(e.StartTime) {
				buckets[i].Seconds += e.Duration
				break
			}
		}
	}
	return buckets
}

func (a Aggregator) layout(ref time.Time, g Granularity) []Bucket {
	start, end := a.Range(ref, g)
	var buckets []Bucket
	switch g {
	case Week:
		for i := 0; i < 7; i++ {
			d := start.AddDate(0, 0, i)
			buckets = append(buckets, Bucket{Label: d.Format("Mon"), Start: d, End: d.AddDate(0, 0, 1)})
		}
	case Month:
		for i, d := 0, start; d.Before(end); i, d = i+1, d.AddDate(0, 0, 7) {
			to := d.AddDate(0, 0, 7)
			if to.After(end) {
				to = end
			}
			buckets = append(buckets, Bucket{Label: fmt.Sprintf("W%d", i+1), Start: d, End: to})
		}
	case Year:
		for i := 0; i < 12; i++ {
			m := start.AddDate(0, i, 0)
			buckets = append(buckets, Bucket{Label: m.Format("Jan"), Start: m, End: m.AddDate(0, 1, 0)})
		}
	default:
		buckets = append(buckets, Bucket{Label: start.Format("Mon 2"), Start: start, End: end})
	}
	return buckets
}

// Total sums every bucket.
func Total(buckets []Bucket) int64 {
	var total int64
	for _, b := range buckets {
		total += b.Seconds
	}
	return total
}

// DrillDown narrows one level: year to the bucket's month, month to the
// bucket's week, week to the bucket's day. It reports false at Day.
func (a Aggregator) DrillDown(g Granularity, b Bucket) (Granularity, time.Time, bool) {
	switch g {
	case Year:
		return Month, a.Cal.MonthStart(b.Start), true
	case Month:
		return Week, a.Cal.StartOfDay(b.Start), true
	case Week:
		return Day, a.Cal.StartOfDay(b.Start), true
	}
	return g, b.Start, false
}

// Navigate steps ref by delta units of g. Month and year steps keep the day
// of month where it exists and clamp it to the month's end otherwise.
func (a Aggregator) Navigate(ref time.Time, g Granularity, delta int) time.Time {
	switch g {
	case Week:
		return ref.AddDate(0, 0, 7*delta)
	case Month:
		return a.addMonths(ref, delta)
	case Year:
		return a.addMonths(ref, 12*delta)
	default:
		return ref.AddDate(0, 0, delta)
	}
}

func (a Aggregator) addMonths(ref time.Time, n int) time.Time {
	ref = a.Cal.In(ref)
	first := a.Cal.MonthStart(ref).AddDate(0, n, 0)
	day := min(ref.Day(), a.Cal.DaysInMonth(first))
	return first.AddDate(0, 0, day-1).Add(ref.Sub(a.Cal.StartOfDay(ref)))
}

// Title is the header for ref at granularity g.
func (a Aggregator) Title(ref time.Time, g Granularity) string {
	start, end := a.Range(ref, g)
	switch g {
	case Week:
		last := end.AddDate(0, 0, -1)
		return fmt.Sprintf("%s - %s", start.Format("Jan 2"), last.Format("Jan 2, 2006"))
	case Month:
		return start.Format("January 2006")
	case Year:
		return start.Format("2006")
	default:
		return start.Format("Monday, January 2, 2006")
	}
}
