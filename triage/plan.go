package triage

import (
	"fmt"
	"strings"
)

// ActionKind is the closed set of executable actions.
type ActionKind string

const (
	ActionCreateDraft      ActionKind = "CreateDraft"
	ActionArchive          ActionKind = "Archive"
	ActionTrash            ActionKind = "Trash"
	ActionScheduleFollowUp ActionKind = "ScheduleFollowUp"
)

// ActionPlan is the single concrete instruction derived from a Decision.
// It is consumed exactly once by the executor, or discarded on rejection.
type ActionPlan struct {
	Kind    ActionKind
	Message Message
	Payload string // draft body for CreateDraft, task text for ScheduleFollowUp
}

// followUpExcerptLen bounds the body excerpt used as a follow-up task when
// the classifier gave no rationale.
const followUpExcerptLen = 120

// BuildPlan maps a Decision onto one ActionPlan. The mapping over the
// category set is total and deterministic; there are no side effects and
// the mailbox is never touched here.
func BuildPlan(decision Decision, msg Message) (ActionPlan, error) {
	switch decision.Category {
	case CategoryUrgent:
		if decision.ReplyDraft == "" {
			return ActionPlan{}, fmt.Errorf("%w: URGENT decision for message %s has no reply draft", ErrIncompletePlan, msg.ID)
		}
		return ActionPlan{Kind: ActionCreateDraft, Message: msg, Payload: decision.ReplyDraft}, nil

	case CategoryFYI:
		return ActionPlan{Kind: ActionArchive, Message: msg}, nil

	case CategorySpam:
		return ActionPlan{Kind: ActionTrash, Message: msg}, nil

	case CategoryFollowUp:
		task := decision.Rationale
		if task == "" {
			task = bodyExcerpt(msg.BodyText)
		}
		if task == "" {
			return ActionPlan{}, fmt.Errorf("%w: FOLLOW_UP decision for message %s has no task text", ErrIncompletePlan, msg.ID)
		}
		return ActionPlan{Kind: ActionScheduleFollowUp, Message: msg, Payload: task}, nil

	default:
		// Unreachable for Decisions produced by ParseDecision; kept so a
		// hand-built Decision cannot slip through as a no-op.
		return ActionPlan{}, fmt.Errorf("%w: unknown category %q", ErrIncompletePlan, decision.Category)
	}
}

func bodyExcerpt(body string) string {
	excerpt := strings.Join(strings.Fields(body), " ")
	if len(excerpt) > followUpExcerptLen {
		excerpt = excerpt[:followUpExcerptLen-3] + "..."
	}
	return excerpt
}
