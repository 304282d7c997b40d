// Package triage implements the per-message triage pipeline: normalize a
// raw mailbox message, classify it through an external reasoning service,
// derive one bounded action plan, and execute the plan against the mailbox
// behind an explicit human confirmation gate. All side effects land in an
// append-only session audit log.
package triage

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// State of one triage cycle.
type State int

const (
	StateIdle State = iota
	StateNormalizing
	StateClassifying
	StateAwaitingConfirmation
	StateExecuting
	StateDone
	StateErrored
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateNormalizing:
		return "Normalizing"
	case StateClassifying:
		return "Classifying"
	case StateAwaitingConfirmation:
		return "AwaitingConfirmation"
	case StateExecuting:
		return "Executing"
	case StateDone:
		return "Done"
	case StateErrored:
		return "Errored"
	}
	return "Unknown"
}

// Stage names the pipeline step a failure occurred in, for display.
type Stage string

const (
	StageNormalize Stage = "normalize"
	StageClassify  Stage = "classify"
	StagePlan      Stage = "plan"
)

// Cycle holds the state of one message moving through the pipeline. A cycle
// ends in Done or Errored; the orchestrator then returns to Idle for the
// next message.
type Cycle struct {
	State    State
	Message  Message
	Decision Decision
	Plan     ActionPlan
	Stage    Stage // set when Errored
	Err      error // set when Errored
}

// Orchestrator sequences normalizer, classifier, planner, and executor for
// one message at a time. It never batches across messages; the display
// layer drives Confirm/Reject at the confirmation gate.
type Orchestrator struct {
	classifier *Classifier
	executor   *Executor
	auditLog   *AuditLog
	logger     *zap.Logger
}

func NewOrchestrator(classifier *Classifier, executor *Executor, auditLog *AuditLog, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		classifier: classifier,
		executor:   executor,
		auditLog:   auditLog,
		logger:     logger,
	}
}

// Begin runs one message through normalization, classification, and
// planning. The returned cycle is either AwaitingConfirmation with a plan
// attached, or Errored with stage and cause. A failed cycle gets a Failed
// audit entry; no plan derived from a failed classification is ever kept.
func (o *Orchestrator) Begin(ctx context.Context, raw RawMessage) *Cycle {
	c := &Cycle{State: StateNormalizing}

	msg, err := Normalize(raw)
	if err != nil {
		return o.fail(c, raw.ID, StageNormalize, err)
	}
	c.Message = msg

	c.State = StateClassifying
	decision, err := o.classifier.Classify(ctx, msg)
	if err != nil {
		return o.fail(c, msg.ID, StageClassify, err)
	}
	c.Decision = decision

	plan, err := BuildPlan(decision, msg)
	if err != nil {
		return o.fail(c, msg.ID, StagePlan, err)
	}
	c.Plan = plan

	c.State = StateAwaitingConfirmation
	o.logger.Info("cycle awaiting confirmation",
		zap.String("message_id", msg.ID),
		zap.String("category", string(decision.Category)),
		zap.String("action", string(plan.Kind)))
	return c
}

// Confirm executes the pending plan. Valid only in AwaitingConfirmation.
// The cycle always reaches Done: the executor converts provider failures
// into Failed audit entries instead of raising.
func (o *Orchestrator) Confirm(ctx context.Context, c *Cycle) (AuditEntry, error) {
	if c.State != StateAwaitingConfirmation {
		return AuditEntry{}, errors.New("confirm: cycle is not awaiting confirmation")
	}
	c.State = StateExecuting
	entry := o.executor.Execute(ctx, c.Plan)
	c.State = StateDone
	return entry, nil
}

// Reject discards the pending plan without any provider call and records a
// Skipped audit entry. Valid only in AwaitingConfirmation.
func (o *Orchestrator) Reject(c *Cycle) (AuditEntry, error) {
	if c.State != StateAwaitingConfirmation {
		return AuditEntry{}, errors.New("reject: cycle is not awaiting confirmation")
	}
	entry := o.auditLog.Append(c.Message.ID, c.Plan.Kind, OutcomeSkipped, "rejected at confirmation gate")
	c.State = StateDone
	o.logger.Info("plan rejected", zap.String("message_id", c.Message.ID))
	return entry, nil
}

func (o *Orchestrator) fail(c *Cycle, messageID string, stage Stage, err error) *Cycle {
	c.State = StateErrored
	c.Stage = stage
	c.Err = err
	o.auditLog.Append(messageID, "", OutcomeFailed, string(stage)+": "+err.Error())
	o.logger.Warn("cycle errored",
		zap.String("message_id", messageID),
		zap.String("stage", string(stage)),
		zap.Error(err))
	return c
}
