package triage

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

type harness struct {
	orc       *Orchestrator
	mailbox   *fakeMailbox
	reasoner  *fakeReasoner
	auditLog  *AuditLog
	reminders *ReminderBook
}

func newHarness(response string, reasonerErr error) *harness {
	mb := &fakeMailbox{}
	r := &fakeReasoner{response: response, err: reasonerErr}
	auditLog := NewAuditLog()
	reminders := NewReminderBook()
	executor := NewExecutor(mb, auditLog, reminders, nil)
	return &harness{
		orc:       NewOrchestrator(NewClassifier(r), executor, auditLog, nil),
		mailbox:   mb,
		reasoner:  r,
		auditLog:  auditLog,
		reminders: reminders,
	}
}

func rawContractMessage() RawMessage {
	return RawMessage{
		ID:       "m1",
		ThreadID: "t1",
		Headers: map[string]string{
			"From":    "Alice <alice@example.com>",
			"Subject": "Contract renewal - please advise",
		},
		Body:         "Can you confirm the renewal terms by EOD?",
		InternalDate: 1700000000000,
	}
}

// Scenario A: URGENT with a reply draft, confirmed.
func TestCycleUrgentConfirmedCreatesDraft(t *testing.T) {
	t.Parallel()

	h := newHarness(`{"version":1,"category":"URGENT","rationale":"client needs an answer","reply_draft":"Thanks, reviewing and will respond by EOD."}`, nil)

	c := h.orc.Begin(context.Background(), rawContractMessage())
	if c.State != StateAwaitingConfirmation {
		t.Fatalf("state: got %v, want AwaitingConfirmation", c.State)
	}
	if c.Plan.Kind != ActionCreateDraft {
		t.Fatalf("plan kind: got %q, want CreateDraft", c.Plan.Kind)
	}

	entry, err := h.orc.Confirm(context.Background(), c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.State != StateDone {
		t.Fatalf("state: got %v, want Done", c.State)
	}
	if h.mailbox.draftCalls != 1 {
		t.Errorf("draft calls: got %d, want 1", h.mailbox.draftCalls)
	}
	if h.mailbox.lastBody != "Thanks, reviewing and will respond by EOD." {
		t.Errorf("draft body: got %q", h.mailbox.lastBody)
	}
	if entry.Outcome != OutcomeSucceeded {
		t.Errorf("Outcome: got %q, want Succeeded", entry.Outcome)
	}
}

// Scenario B: FYI, confirmed, one archive call.
func TestCycleFYIConfirmedArchives(t *testing.T) {
	t.Parallel()

	h := newHarness(`{"version":1,"category":"FYI","rationale":"newsletter, nothing to do"}`, nil)

	c := h.orc.Begin(context.Background(), rawContractMessage())
	if c.Plan.Kind != ActionArchive {
		t.Fatalf("plan kind: got %q, want Archive", c.Plan.Kind)
	}
	if c.Plan.Payload != "" {
		t.Errorf("Archive payload: got %q, want empty", c.Plan.Payload)
	}

	if _, err := h.orc.Confirm(context.Background(), c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.mailbox.archiveCalls != 1 {
		t.Errorf("archive calls: got %d, want 1", h.mailbox.archiveCalls)
	}
}

// Scenario C: SPAM rejected, zero provider calls, one Skipped entry.
func TestCycleSpamRejectedIssuesNoCalls(t *testing.T) {
	t.Parallel()

	h := newHarness(`{"version":1,"category":"SPAM","rationale":"promotional blast"}`, nil)

	c := h.orc.Begin(context.Background(), rawContractMessage())
	if c.Plan.Kind != ActionTrash {
		t.Fatalf("plan kind: got %q, want Trash", c.Plan.Kind)
	}

	entry, err := h.orc.Reject(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.State != StateDone {
		t.Fatalf("state: got %v, want Done", c.State)
	}
	if calls := h.mailbox.draftCalls + h.mailbox.archiveCalls + h.mailbox.trashCalls; calls != 0 {
		t.Fatalf("provider calls after rejection: got %d, want 0", calls)
	}
	if entry.Outcome != OutcomeSkipped {
		t.Errorf("Outcome: got %q, want Skipped", entry.Outcome)
	}
	if h.auditLog.Len() != 1 {
		t.Errorf("audit entries: got %d, want 1", h.auditLog.Len())
	}
}

// Scenario D: out-of-set category ends the cycle at Errored with no plan.
func TestCycleUnknownCategoryErrors(t *testing.T) {
	t.Parallel()

	h := newHarness(`{"version":1,"category":"Maybe","rationale":"unsure"}`, nil)

	c := h.orc.Begin(context.Background(), rawContractMessage())
	if c.State != StateErrored {
		t.Fatalf("state: got %v, want Errored", c.State)
	}
	if c.Stage != StageClassify {
		t.Errorf("stage: got %q, want classify", c.Stage)
	}
	if !errors.Is(c.Err, ErrUnparsableResponse) {
		t.Errorf("err: got %v, want ErrUnparsableResponse", c.Err)
	}
	if c.Plan.Kind != "" {
		t.Errorf("no plan should be constructed, got %q", c.Plan.Kind)
	}
	if h.auditLog.Len() != 1 {
		t.Errorf("audit entries: got %d, want 1 Failed", h.auditLog.Len())
	}
}

func TestCycleMalformedMessageErrors(t *testing.T) {
	t.Parallel()

	h := newHarness(`{"version":1,"category":"FYI","rationale":"x"}`, nil)

	raw := rawContractMessage()
	delete(raw.Headers, "From")
	c := h.orc.Begin(context.Background(), raw)
	if c.State != StateErrored || c.Stage != StageNormalize {
		t.Fatalf("state/stage: got %v/%q, want Errored/normalize", c.State, c.Stage)
	}
	if !errors.Is(c.Err, ErrMalformedMessage) {
		t.Errorf("err: got %v", c.Err)
	}
	if h.reasoner.lastInput != "" {
		t.Error("classifier must not be called for a malformed message")
	}
}

func TestCycleServiceUnavailableErrors(t *testing.T) {
	t.Parallel()

	h := newHarness("", fmt.Errorf("dial tcp: timeout"))

	c := h.orc.Begin(context.Background(), rawContractMessage())
	if c.State != StateErrored || c.Stage != StageClassify {
		t.Fatalf("state/stage: got %v/%q, want Errored/classify", c.State, c.Stage)
	}
	if !errors.Is(c.Err, ErrServiceUnavailable) {
		t.Errorf("err: got %v", c.Err)
	}
}

// A provider failure during execution still finishes the cycle at Done.
func TestCycleProviderFailureStillReachesDone(t *testing.T) {
	t.Parallel()

	h := newHarness(`{"version":1,"category":"SPAM","rationale":"junk"}`, nil)
	h.mailbox.failWith = fmt.Errorf("%w: 503", ErrProviderCall)

	c := h.orc.Begin(context.Background(), rawContractMessage())
	entry, err := h.orc.Confirm(context.Background(), c)
	if err != nil {
		t.Fatalf("Confirm must not propagate provider errors, got %v", err)
	}
	if c.State != StateDone {
		t.Fatalf("state: got %v, want Done", c.State)
	}
	if entry.Outcome != OutcomeFailed {
		t.Errorf("Outcome: got %q, want Failed", entry.Outcome)
	}
}

func TestConfirmOutsideGateIsRefused(t *testing.T) {
	t.Parallel()

	h := newHarness(`{"version":1,"category":"Maybe"}`, nil)
	c := h.orc.Begin(context.Background(), rawContractMessage()) // Errored

	if _, err := h.orc.Confirm(context.Background(), c); err == nil {
		t.Error("Confirm on an errored cycle should fail")
	}
	if _, err := h.orc.Reject(c); err == nil {
		t.Error("Reject on an errored cycle should fail")
	}
}

// A follow-up cycle records a reminder and never touches the mailbox.
func TestCycleFollowUpRecordsReminder(t *testing.T) {
	t.Parallel()

	h := newHarness(`{"version":1,"category":"FOLLOW_UP","rationale":"chase the renewal next week"}`, nil)

	c := h.orc.Begin(context.Background(), rawContractMessage())
	if c.Plan.Kind != ActionScheduleFollowUp {
		t.Fatalf("plan kind: got %q", c.Plan.Kind)
	}
	if _, err := h.orc.Confirm(context.Background(), c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls := h.mailbox.draftCalls + h.mailbox.archiveCalls + h.mailbox.trashCalls; calls != 0 {
		t.Errorf("provider calls: got %d, want 0", calls)
	}
	if got := h.reminders.Reminders(); len(got) != 1 || got[0].Task != "chase the renewal next week" {
		t.Errorf("reminders: got %+v", got)
	}
}
