package tui

import (
	"time"

	"github.com/psehgal/inboxzero/triage"
)

// A new unread message arrived from the monitor.
type NewMessageMsg triage.RawMessage

// An error occurred, typically from a command.
type ErrorMsg struct{ Err error }

func (e ErrorMsg) Error() string { return e.Err.Error() }

// A message for timed status updates.
type StatusTickMsg struct{ Time time.Time }

// The monitor channel closed; no more messages will arrive.
type MonitorStoppedMsg struct{}

// Clear a temporary status message after a timeout.
type clearTempStatusMsg struct{}

// A triage cycle finished Begin: either awaiting confirmation or errored.
type cycleReadyMsg struct{ cycle *triage.Cycle }

// A pending plan was confirmed or rejected and the cycle is done.
type cycleFinishedMsg struct {
	cycle *triage.Cycle
	entry triage.AuditEntry
}
