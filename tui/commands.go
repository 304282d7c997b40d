package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/psehgal/inboxzero/triage"
)

// waitForMessageCmd listens on the monitor channel and re-queues itself
// until the channel is closed.
func waitForMessageCmd(msgChan <-chan triage.RawMessage) tea.Cmd {
	return func() tea.Msg {
		raw, ok := <-msgChan
		if !ok {
			return MonitorStoppedMsg{}
		}
		return NewMessageMsg(raw)
	}
}

// statusTickCmd creates a ticker for updating the status bar periodically.
func statusTickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return StatusTickMsg{Time: t}
	})
}

// beginCycleCmd runs one message through normalize/classify/plan off the
// update loop. The classify call carries its own bounded timeout.
func beginCycleCmd(orc *triage.Orchestrator, raw triage.RawMessage, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return cycleReadyMsg{cycle: orc.Begin(ctx, raw)}
	}
}

// confirmCmd executes the pending plan.
func confirmCmd(orc *triage.Orchestrator, c *triage.Cycle, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		entry, err := orc.Confirm(ctx, c)
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return cycleFinishedMsg{cycle: c, entry: entry}
	}
}

// rejectCmd discards the pending plan.
func rejectCmd(orc *triage.Orchestrator, c *triage.Cycle) tea.Cmd {
	return func() tea.Msg {
		entry, err := orc.Reject(c)
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return cycleFinishedMsg{cycle: c, entry: entry}
	}
}
