package history

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/sadopc/chronomark/internal/calendar"
	"github.com/sadopc/chronomark/internal/store"
)

var utc = Aggregator{Cal: calendar.Calendar{Loc: time.UTC}}

func entryAt(id string, start time.Time, seconds int64) store.TimeEntry {
	return store.TimeEntry{
		ID:        id,
		StartTime: start.UnixMilli(),
		EndTime:   start.Add(time.Duration(seconds) * time.Second).UnixMilli(),
		Duration:  seconds,
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ==========================================================================
// Week
// ==========================================================================

func TestWeekOneHourPerDay(t *testing.T) {
	monday := date(2026, 3, 9)
	var all []store.TimeEntry
	for i := 0; i < 7; i++ {
		all = append(all, entryAt(string(rune('a'+i)), monday.AddDate(0, 0, i).Add(10*time.Hour), 3600))
	}
	// Noise from the neighbouring weeks.
	all = append(all, entryAt("prev-sun", monday.Add(-time.Minute), 3600))
	all = append(all, entryAt("next-mon", monday.AddDate(0, 0, 7), 3600))

	for i := 0; i < 7; i++ {
		ref := monday.AddDate(0, 0, i).Add(17 * time.Hour)
		buckets := utc.Buckets(all, ref, Week)
		if len(buckets) != 7 {
			t.Fatalf("ref %s: %d buckets, want 7", ref.Weekday(), len(buckets))
		}
		if buckets[0].Label != "Mon" || buckets[6].Label != "Sun" {
			t.Errorf("ref %s: labels %s..%s, want Mon..Sun", ref.Weekday(), buckets[0].Label, buckets[6].Label)
		}
		var sum float64
		for _, b := range buckets {
			if b.Hours() != 1.0 {
				t.Errorf("ref %s: bucket %s = %v hours, want 1.0", ref.Weekday(), b.Label, b.Hours())
			}
			sum += b.Hours()
		}
		if sum != 7.0 {
			t.Errorf("ref %s: week sum = %v, want 7.0", ref.Weekday(), sum)
		}
	}
}

func TestEntryCountsTowardStartBucket(t *testing.T) {
	monday := date(2026, 3, 9)
	// Starts Monday 23:00, runs 3h into Tuesday.
	all := []store.TimeEntry{entryAt("late", monday.Add(23*time.Hour), 3*3600)}
	buckets := utc.Buckets(all, monday, Week)
	if buckets[0].Seconds != 3*3600 || buckets[1].Seconds != 0 {
		t.Errorf("Mon = %d Tue = %d, want 10800 0", buckets[0].Seconds, buckets[1].Seconds)
	}
}

func newYork(t *testing.T) (Aggregator, *time.Location) {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	return Aggregator{Cal: calendar.Calendar{Loc: loc}}, loc
}

// Clocks in New York jump forward on Sun Mar 8 2026, so that day is 23h long.
func TestWeekAcrossDaylightSaving(t *testing.T) {
	ny, loc := newYork(t)
	at := func(d, h, m int) time.Time { return time.Date(2026, 3, d, h, m, 0, 0, loc) }

	all := []store.TimeEntry{
		entryAt("sat", at(7, 23, 30), 1800),
		entryAt("sun-late", at(8, 23, 30), 1800),
		entryAt("next-mon", at(9, 0, 30), 1800),
	}
	buckets := ny.Buckets(all, at(5, 12, 0), Week)

	sun := buckets[6]
	if !sun.Start.Equal(at(8, 0, 0)) || !sun.End.Equal(at(9, 0, 0)) {
		t.Fatalf("Sun = [%v, %v), want local midnights", sun.Start, sun.End)
	}
	if got := sun.End.Sub(sun.Start); got != 23*time.Hour {
		t.Errorf("Sun spans %v, want 23h", got)
	}
	if buckets[5].Seconds != 1800 || sun.Seconds != 1800 {
		t.Errorf("Sat = %d Sun = %d, want 1800 1800", buckets[5].Seconds, sun.Seconds)
	}
	if total := Total(buckets); total != 3600 {
		t.Errorf("week total = %d, want 3600 (next Monday excluded)", total)
	}
}

func TestMonthAcrossDaylightSaving(t *testing.T) {
	ny, loc := newYork(t)
	at := func(d, h, m int) time.Time { return time.Date(2026, 3, d, h, m, 0, 0, loc) }

	all := []store.TimeEntry{entryAt("w3-early", at(15, 0, 30), 3600)}
	buckets := ny.Buckets(all, at(20, 9, 0), Month)

	for i, d := range []int{1, 8, 15, 22, 29} {
		if !buckets[i].Start.Equal(at(d, 0, 0)) {
			t.Errorf("%s starts %v, want Mar %d 00:00", buckets[i].Label, buckets[i].Start, d)
		}
	}
	if buckets[1].Seconds != 0 || buckets[2].Seconds != 3600 {
		t.Errorf("W2 = %d W3 = %d, want 0 3600", buckets[1].Seconds, buckets[2].Seconds)
	}
}

// ==========================================================================
// Month
// ==========================================================================

func TestMonthBuckets(t *testing.T) {
	tests := []struct {
		ref      time.Time
		count    int
		lastDays int
	}{
		{date(2026, 2, 14), 4, 7},
		{date(2026, 3, 1), 5, 3},
		{date(2026, 4, 30), 5, 2},
		{date(2024, 2, 29), 5, 1},
	}
	for _, tt := range tests {
		buckets := utc.Buckets(nil, tt.ref, Month)
		if len(buckets) != tt.count {
			t.Errorf("%s: %d buckets, want %d", tt.ref.Format("2006-01"), len(buckets), tt.count)
			continue
		}
		last := buckets[len(buckets)-1]
		if days := int(last.End.Sub(last.Start).Hours() / 24); days != tt.lastDays {
			t.Errorf("%s: last bucket %d days, want %d", tt.ref.Format("2006-01"), days, tt.lastDays)
		}
		if buckets[0].Label != "W1" {
			t.Errorf("first label = %s, want W1", buckets[0].Label)
		}
	}
}

func TestMonthAssignment(t *testing.T) {
	all := []store.TimeEntry{
		entryAt("d7", date(2026, 3, 7).Add(23*time.Hour), 1800),
		entryAt("d8", date(2026, 3, 8), 3600),
		entryAt("d31", date(2026, 3, 31).Add(12*time.Hour), 7200),
		entryAt("apr", date(2026, 4, 1), 3600),
	}
	buckets := utc.Buckets(all, date(2026, 3, 20), Month)
	want := []int64{1800, 3600, 0, 0, 7200}
	for i, w := range want {
		if buckets[i].Seconds != w {
			t.Errorf("W%d = %d, want %d", i+1, buckets[i].Seconds, w)
		}
	}
}

// ==========================================================================
// Year
// ==========================================================================

func TestYearJune(t *testing.T) {
	all := []store.TimeEntry{
		entryAt("june", date(2026, 6, 15).Add(9*time.Hour), 5400),
		entryAt("jan", date(2026, 1, 1), 600),
		entryAt("dec", date(2026, 12, 31).Add(23*time.Hour), 1200),
		entryAt("last-year", date(2025, 12, 31), 9999),
	}
	buckets := utc.Buckets(all, date(2026, 3, 3), Year)
	if len(buckets) != 12 {
		t.Fatalf("%d buckets, want 12", len(buckets))
	}
	if buckets[5].Label != "Jun" || buckets[5].Seconds != 5400 {
		t.Errorf("June bucket = %+v", buckets[5])
	}
	for i, b := range buckets {
		if i != 0 && i != 5 && i != 11 && b.Seconds != 0 {
			t.Errorf("bucket %s = %d, want 0", b.Label, b.Seconds)
		}
	}
	if got := Total(buckets); got != 5400+600+1200 {
		t.Errorf("Total = %d, want 7200", got)
	}
}

func TestHoursRounding(t *testing.T) {
	tests := []struct {
		seconds int64
		want    float64
	}{
		{0, 0},
		{3600, 1},
		{5400, 1.5},
		{1000, 0.3},
		{179, 0},
		{200, 0.1},
	}
	for _, tt := range tests {
		if got := (Bucket{Seconds: tt.seconds}).Hours(); got != tt.want {
			t.Errorf("Hours(%d) = %v, want %v", tt.seconds, got, tt.want)
		}
	}
}

// ==========================================================================
// Drill-down / navigation
// ==========================================================================

func TestDrillDown(t *testing.T) {
	year := utc.Buckets(nil, date(2026, 1, 1), Year)
	g, ref, ok := utc.DrillDown(Year, year[5])
	if !ok || g != Month || !ref.Equal(date(2026, 6, 1)) {
		t.Errorf("year drill = %v %v %v", g, ref, ok)
	}

	month := utc.Buckets(nil, ref, Month)
	g, ref, ok = utc.DrillDown(Month, month[2])
	if !ok || g != Week || !ref.Equal(date(2026, 6, 15)) {
		t.Errorf("month drill = %v %v %v", g, ref, ok)
	}

	week := utc.Buckets(nil, ref, Week)
	g, ref, ok = utc.DrillDown(Week, week[3])
	if !ok || g != Day || !ref.Equal(date(2026, 6, 18)) {
		t.Errorf("week drill = %v %v %v", g, ref, ok)
	}

	if _, _, ok := utc.DrillDown(Day, Bucket{Start: ref}); ok {
		t.Error("day should not drill further")
	}
}

func TestNavigate(t *testing.T) {
	tests := []struct {
		name  string
		ref   time.Time
		g     Granularity
		delta int
		want  time.Time
	}{
		{"day back", date(2026, 3, 1), Day, -1, date(2026, 2, 28)},
		{"week forward", date(2026, 3, 10), Week, 1, date(2026, 3, 17)},
		{"month clamps", date(2026, 1, 31), Month, 1, date(2026, 2, 28)},
		{"month back across year", date(2026, 1, 15), Month, -1, date(2025, 12, 15)},
		{"leap year", date(2024, 2, 29), Year, 1, date(2025, 2, 28)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := utc.Navigate(tt.ref, tt.g, tt.delta); !got.Equal(tt.want) {
				t.Errorf("Navigate = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTitle(t *testing.T) {
	ref := date(2026, 3, 11)
	tests := []struct {
		g    Granularity
		want string
	}{
		{Day, "Wednesday, March 11, 2026"},
		{Week, "Mar 9 - Mar 15, 2026"},
		{Month, "March 2026"},
		{Year, "2026"},
	}
	for _, tt := range tests {
		if got := utc.Title(ref, tt.g); got != tt.want {
			t.Errorf("Title(%v) = %q, want %q", tt.g, got, tt.want)
		}
	}
}

func TestParseGranularity(t *testing.T) {
	g, err := ParseGranularity("Month")
	if err != nil || g != Month {
		t.Errorf("ParseGranularity(Month) = %v, %v", g, err)
	}
	if _, err := ParseGranularity("decade"); err == nil {
		t.Error("expected error for unknown granularity")
	}
}
