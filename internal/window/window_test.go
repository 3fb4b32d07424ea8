package window

import (
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
)

type recorder struct {
	calls []string
}

func (r *recorder) EnterCompact()  { r.calls = append(r.calls, "compact") }
func (r *recorder) EnterExpanded() { r.calls = append(r.calls, "expanded") }
func (r *recorder) RequestMode(m Mode) {
	r.calls = append(r.calls, "request:"+m.String())
}

func TestShellToggle(t *testing.T) {
	rec := &recorder{}
	s := NewShell(rec, Expanded)

	if got := s.Toggle(); got != Compact {
		t.Fatalf("Toggle = %v, want compact", got)
	}
	if got := s.Toggle(); got != Expanded {
		t.Fatalf("Toggle = %v, want expanded", got)
	}

	want := []string{"request:compact", "compact", "request:expanded", "expanded"}
	if len(rec.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", rec.calls, want)
	}
	for i := range want {
		if rec.calls[i] != want[i] {
			t.Errorf("calls[%d] = %s, want %s", i, rec.calls[i], want[i])
		}
	}
}

func TestShellSetSameModeIsSilent(t *testing.T) {
	rec := &recorder{}
	s := NewShell(rec, Compact)
	s.Set(Compact)
	if len(rec.calls) != 0 {
		t.Errorf("unexpected calls %v", rec.calls)
	}
}

func TestShellNilController(t *testing.T) {
	s := NewShell(nil, Expanded)
	if s.Toggle() != Compact || s.Mode() != Compact {
		t.Error("toggle with nil controller failed")
	}
}

func TestLogController(t *testing.T) {
	log, hook := logtest.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)

	s := NewShell(NewLogController(log), Expanded)
	s.Toggle()

	entries := hook.AllEntries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 log entries, got %d", len(entries))
	}
	if entries[0].Data["mode"] != "compact" || entries[0].Data["component"] != "window" {
		t.Errorf("first entry data = %v", entries[0].Data)
	}
	if entries[1].Message != "enter compact mode" {
		t.Errorf("second message = %q", entries[1].Message)
	}
}
