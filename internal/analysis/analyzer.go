// Package analysis asks a language model for a short written review of the
// user's recent entries.
package analysis

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sadopc/chronomark/internal/calendar"
	"github.com/sadopc/chronomark/internal/store"
)

// MaxEntries caps how many of the most recent entries go into the prompt.
const MaxEntries = 30

// Fixed replies shown instead of a model answer.
const (
	NoDataMessage     = "No entries to analyze yet."
	EmptyReplyMessage = "Could not generate an analysis report."
	FailureMessage    = "Could not reach the analysis service."
)

const systemPrompt = "You are a helpful productivity coach. Keep answers concise and encouraging."

// Completer sends one system+user prompt pair and returns the reply text.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

type Analyzer struct {
	completer Completer
	clock     calendar.Clock
	cal       calendar.Calendar
	log       logrus.FieldLogger
}

// NewAnalyzer wraps c. A nil log falls back to the logrus standard logger.
func NewAnalyzer(c Completer, clock calendar.Clock, cal calendar.Calendar, log logrus.FieldLogger) *Analyzer {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if clock == nil {
		clock = calendar.SystemClock{}
	}
	return &Analyzer{
		completer: c,
		clock:     clock,
		cal:       cal,
		log:       log.WithField("component", "analysis"),
	}
}

// Analyze returns prose about entries, which must be newest first. It never
// fails: no entries gives NoDataMessage and any error gives FailureMessage.
// Requests are not retried.
func (a *Analyzer) Analyze(ctx context.Context, entries []store.TimeEntry) string {
	if len(entries) == 0 {
		return NoDataMessage
	}
	if a.completer == nil {
		a.log.Warn("analysis requested but no completer is configured")
		return FailureMessage
	}

	prompt := BuildPrompt(entries, a.clock.Now(), a.cal)
	reply, err := a.completer.Complete(ctx, systemPrompt, prompt)
	if err != nil {
		a.log.WithError(err).WithField("entries", min(len(entries), MaxEntries)).Error("analysis failed")
		return FailureMessage
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return EmptyReplyMessage
	}
	return reply
}

// BuildPrompt renders at most MaxEntries entries, one per line, as
// `- 2026-03-10: "title" 45 min`.
func BuildPrompt(entries []store.TimeEntry, today time.Time, cal calendar.Calendar) string {
	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Today is %s.\n\n", today.Format("2006-01-02"))
	fmt.Fprintf(&b, "Here are the user's most recent time entries (up to %d):\n", MaxEntries)
	for _, e := range entries {
		minutes := int64(math.Round(float64(e.Duration) / 60))
		fmt.Fprintf(&b, "- %s: %q %d min\n", cal.In(e.Start()).Format("2006-01-02"), e.Title, minutes)
	}
	b.WriteString("\nGive a short, encouraging and insightful summary of how they spend their time. ")
	b.WriteString("Point out patterns such as long focus blocks, fragmented time or late-night work. ")
	b.WriteString("Keep it within three paragraphs and use Markdown.")
	return b.String()
}
