package triage

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Mailbox is the provider surface the executor mutates. Each call must be
// idempotent at the provider level; the executor issues at most one call
// per execution and relies on that guarantee rather than enforcing it.
type Mailbox interface {
	CreateDraft(ctx context.Context, threadID, to, subject, body string) (string, error)
	Archive(ctx context.Context, messageID string) error
	Trash(ctx context.Context, messageID string) error
}

// Executor performs planned actions against the mailbox and records every
// attempt in the audit log. Provider failures never escape its boundary:
// they come back as Failed entries so the orchestrator can always finish
// a cycle and show an outcome.
type Executor struct {
	mailbox   Mailbox
	auditLog  *AuditLog
	reminders *ReminderBook
	logger    *zap.Logger
}

func NewExecutor(mailbox Mailbox, auditLog *AuditLog, reminders *ReminderBook, logger *zap.Logger) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{mailbox: mailbox, auditLog: auditLog, reminders: reminders, logger: logger}
}

// Execute performs exactly one provider call for mailbox-mutating kinds.
// ScheduleFollowUp only appends to the reminder book.
func (e *Executor) Execute(ctx context.Context, plan ActionPlan) AuditEntry {
	msg := plan.Message

	var detail string
	var err error
	switch plan.Kind {
	case ActionCreateDraft:
		var draftID string
		draftID, err = e.mailbox.CreateDraft(ctx, msg.ThreadID, msg.Sender, replySubject(msg.Subject), plan.Payload)
		if err == nil {
			detail = fmt.Sprintf("draft %s created", draftID)
		}

	case ActionArchive:
		err = e.mailbox.Archive(ctx, msg.ID)
		if err == nil {
			detail = "removed from inbox"
		}

	case ActionTrash:
		err = e.mailbox.Trash(ctx, msg.ID)
		if err == nil {
			detail = "moved to trash"
		}

	case ActionScheduleFollowUp:
		e.reminders.Add(msg.ID, plan.Payload)
		detail = fmt.Sprintf("follow-up recorded: %s", plan.Payload)

	default:
		err = fmt.Errorf("%w: unknown action kind %q", ErrProviderCall, plan.Kind)
	}

	if err != nil {
		e.logger.Warn("action failed",
			zap.String("message_id", msg.ID),
			zap.String("action", string(plan.Kind)),
			zap.Error(err))
		return e.auditLog.Append(msg.ID, plan.Kind, OutcomeFailed, err.Error())
	}

	e.logger.Info("action executed",
		zap.String("message_id", msg.ID),
		zap.String("action", string(plan.Kind)))
	return e.auditLog.Append(msg.ID, plan.Kind, OutcomeSucceeded, detail)
}

func replySubject(subject string) string {
	if subject == "" {
		return "Re:"
	}
	if len(subject) >= 3 && (subject[:3] == "Re:" || subject[:3] == "RE:") {
		return subject
	}
	return "Re: " + subject
}
