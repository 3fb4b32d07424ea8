// Package window is the capability the UI uses to tell the hosting window
// which layout is showing. Signals are fire-and-forget: nothing in the UI
// depends on how a Controller reacts.
package window

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

type Mode int

const (
	Expanded Mode = iota
	Compact
)

func (m Mode) String() string {
	switch m {
	case Expanded:
		return "expanded"
	case Compact:
		return "compact"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Controller receives layout signals.
type Controller interface {
	EnterCompact()
	EnterExpanded()
	RequestMode(m Mode)
}

// Nop ignores every signal.
type Nop struct{}

func (Nop) EnterCompact()      {}
func (Nop) EnterExpanded()     {}
func (Nop) RequestMode(_ Mode) {}

// LogController records each signal at debug level.
type LogController struct {
	log logrus.FieldLogger
}

func NewLogController(log logrus.FieldLogger) *LogController {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &LogController{log: log.WithField("component", "window")}
}

func (c *LogController) EnterCompact()  { c.log.Debug("enter compact mode") }
func (c *LogController) EnterExpanded() { c.log.Debug("enter expanded mode") }

func (c *LogController) RequestMode(m Mode) {
	c.log.WithField("mode", m.String()).Debug("mode switch requested")
}

// Shell tracks the current mode and emits signals on changes.
type Shell struct {
	ctrl Controller
	mode Mode
}

// NewShell starts in mode. A nil controller is replaced by Nop.
func NewShell(ctrl Controller, mode Mode) *Shell {
	if ctrl == nil {
		ctrl = Nop{}
	}
	return &Shell{ctrl: ctrl, mode: mode}
}

func (s *Shell) Mode() Mode { return s.mode }

// Toggle flips between compact and expanded and returns the new mode.
func (s *Shell) Toggle() Mode {
	if s.mode == Compact {
		return s.Set(Expanded)
	}
	return s.Set(Compact)
}

// Set switches to m. Setting the current mode emits nothing.
func (s *Shell) Set(m Mode) Mode {
	if m == s.mode {
		return m
	}
	s.mode = m
	s.ctrl.RequestMode(m)
	switch m {
	case Compact:
		s.ctrl.EnterCompact()
	case Expanded:
		s.ctrl.EnterExpanded()
	}
	return m
}
