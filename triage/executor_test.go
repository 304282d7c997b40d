package triage

import (
	"context"
	"fmt"
	"testing"
)

// fakeMailbox counts provider calls and can be told to fail.
type fakeMailbox struct {
	draftCalls   int
	archiveCalls int
	trashCalls   int
	failWith     error

	lastThreadID string
	lastBody     string
}

func (f *fakeMailbox) CreateDraft(_ context.Context, threadID, to, subject, body string) (string, error) {
	f.draftCalls++
	f.lastThreadID = threadID
	f.lastBody = body
	if f.failWith != nil {
		return "", f.failWith
	}
	return "draft-1", nil
}

func (f *fakeMailbox) Archive(_ context.Context, messageID string) error {
	f.archiveCalls++
	return f.failWith
}

func (f *fakeMailbox) Trash(_ context.Context, messageID string) error {
	f.trashCalls++
	return f.failWith
}

func newTestExecutor(mb *fakeMailbox) (*Executor, *AuditLog, *ReminderBook) {
	auditLog := NewAuditLog()
	reminders := NewReminderBook()
	return NewExecutor(mb, auditLog, reminders, nil), auditLog, reminders
}

func TestExecuteCreateDraft(t *testing.T) {
	t.Parallel()

	mb := &fakeMailbox{}
	e, auditLog, _ := newTestExecutor(mb)

	entry := e.Execute(context.Background(), ActionPlan{
		Kind:    ActionCreateDraft,
		Message: testMessage(),
		Payload: "Thanks, reviewing and will respond by EOD.",
	})

	if mb.draftCalls != 1 {
		t.Fatalf("draft calls: got %d, want 1", mb.draftCalls)
	}
	if mb.lastThreadID != "t1" {
		t.Errorf("threadID: got %q, want t1", mb.lastThreadID)
	}
	if entry.Outcome != OutcomeSucceeded {
		t.Errorf("Outcome: got %q, want Succeeded", entry.Outcome)
	}
	if auditLog.Len() != 1 {
		t.Errorf("audit entries: got %d, want 1", auditLog.Len())
	}
}

func TestExecuteArchiveAndTrashIssueOneCallEach(t *testing.T) {
	t.Parallel()

	mb := &fakeMailbox{}
	e, _, _ := newTestExecutor(mb)

	e.Execute(context.Background(), ActionPlan{Kind: ActionArchive, Message: testMessage()})
	e.Execute(context.Background(), ActionPlan{Kind: ActionTrash, Message: testMessage()})

	if mb.archiveCalls != 1 || mb.trashCalls != 1 {
		t.Fatalf("calls: archive=%d trash=%d, want 1 each", mb.archiveCalls, mb.trashCalls)
	}
}

func TestExecuteProviderFailureBecomesFailedEntry(t *testing.T) {
	t.Parallel()

	mb := &fakeMailbox{failWith: fmt.Errorf("%w: 403 insufficient scope", ErrProviderCall)}
	e, auditLog, _ := newTestExecutor(mb)

	entry := e.Execute(context.Background(), ActionPlan{Kind: ActionTrash, Message: testMessage()})

	if entry.Outcome != OutcomeFailed {
		t.Fatalf("Outcome: got %q, want Failed", entry.Outcome)
	}
	if auditLog.Len() != 1 {
		t.Errorf("audit entries: got %d, want 1", auditLog.Len())
	}
	if entry.Detail == "" {
		t.Error("Failed entry should carry the provider error text")
	}
}

func TestExecuteScheduleFollowUpTouchesNoMailbox(t *testing.T) {
	t.Parallel()

	mb := &fakeMailbox{}
	e, _, reminders := newTestExecutor(mb)

	entry := e.Execute(context.Background(), ActionPlan{
		Kind:    ActionScheduleFollowUp,
		Message: testMessage(),
		Payload: "chase invoice next week",
	})

	if mb.draftCalls+mb.archiveCalls+mb.trashCalls != 0 {
		t.Fatal("follow-up must not issue provider calls")
	}
	if entry.Outcome != OutcomeSucceeded {
		t.Errorf("Outcome: got %q, want Succeeded", entry.Outcome)
	}
	got := reminders.Reminders()
	if len(got) != 1 || got[0].Task != "chase invoice next week" {
		t.Errorf("reminders: got %+v", got)
	}
}

func TestReplySubject(t *testing.T) {
	t.Parallel()

	cases := []struct{ in, want string }{
		{"Contract renewal", "Re: Contract renewal"},
		{"Re: Contract renewal", "Re: Contract renewal"},
		{"", "Re:"},
	}
	for _, tc := range cases {
		if got := replySubject(tc.in); got != tc.want {
			t.Errorf("replySubject(%q): got %q, want %q", tc.in, got, tc.want)
		}
	}
}
