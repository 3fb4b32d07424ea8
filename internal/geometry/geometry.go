// Package geometry maps wall-clock time of day onto the timeline's vertical
// coordinate space and back. A day spans 24*60 minutes; y grows downward
// from midnight.
package geometry

import (
	"math"
	"time"
)

const MinutesPerDay = 24 * 60

// Scale holds the timeline's conversion constants.
type Scale struct {
	PixelsPerMinute float64
	// MinBlockHeight keeps very short entries clickable.
	MinBlockHeight float64
}

// DefaultScale is 1.5px per minute with a 20px minimum block.
var DefaultScale = Scale{PixelsPerMinute: 1.5, MinBlockHeight: 20}

// TimeOfDayToY returns the offset of t's hour and minute. Seconds are ignored.
// t should already be in the zone the timeline is drawn in.
func (s Scale) TimeOfDayToY(t time.Time) float64 {
	return s.MinuteToY(t.Hour()*60 + t.Minute())
}

// MinuteToY returns the offset of a minute of the day.
func (s Scale) MinuteToY(minuteOfDay int) float64 {
	return float64(minuteOfDay) * s.PixelsPerMinute
}

// DurationToHeight returns the block height for a duration in seconds.
func (s Scale) DurationToHeight(seconds int64) float64 {
	h := float64(seconds) / 60 * s.PixelsPerMinute
	return math.Max(h, s.MinBlockHeight)
}

// YToMinute floors y to a whole minute of the day.
func (s Scale) YToMinute(y float64) int {
	// The epsilon absorbs float error so MinuteToY(m) maps back to m.
	return int(math.Floor(y/s.PixelsPerMinute + 1e-9))
}

// YSpanToTimeOfDay converts a vertical span into start and end minutes of
// the day. The span may be given in either order.
func (s Scale) YSpanToTimeOfDay(y0, y1 float64) (startMinute, endMinute int) {
	lo, hi := math.Min(y0, y1), math.Max(y0, y1)
	return s.YToMinute(lo), s.YToMinute(hi)
}

// TotalHeight is the height of the full 24h span.
func (s Scale) TotalHeight() float64 {
	return s.MinuteToY(MinutesPerDay)
}
