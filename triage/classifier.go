package triage

import (
	"context"
	"fmt"
	"strings"
)

// Reasoner is the external reasoning service. The response is untrusted
// free-form text; the classifier validates every field before anything
// downstream may act on it.
type Reasoner interface {
	Complete(ctx context.Context, instruction, input string) (string, error)
}

// classifyInstruction is the fixed contract sent with every message. The
// taxonomy and output shape are part of the pipeline's invariants; only the
// message fields vary per call.
const classifyInstruction = `You are an inbox triage assistant. You will receive one email
(subject, sender, body). Classify it into exactly one category:

- URGENT: requires an immediate reply.
- FYI: informational, no reply needed, can be archived.
- SPAM: unwanted, junk, or promotional.
- FOLLOW_UP: requires a future action or reminder.

Respond with a single JSON object and nothing else:
{
  "version": 1,
  "category": "URGENT" | "FYI" | "SPAM" | "FOLLOW_UP",
  "rationale": "one or two sentences explaining the classification",
  "reply_draft": "for URGENT only: the full body of a short, polite reply; otherwise an empty string"
}`

// Classifier sends messages to the reasoning service and turns responses
// into validated Decisions.
type Classifier struct {
	reasoner Reasoner
}

func NewClassifier(r Reasoner) *Classifier {
	return &Classifier{reasoner: r}
}

// Classify produces a Decision for one message. Transport failures wrap
// ErrServiceUnavailable; contract violations wrap ErrUnparsableResponse.
func (c *Classifier) Classify(ctx context.Context, msg Message) (Decision, error) {
	var input strings.Builder
	fmt.Fprintf(&input, "Subject: %s\n", msg.Subject)
	fmt.Fprintf(&input, "From: %s\n", msg.Sender)
	fmt.Fprintf(&input, "Body:\n%s\n", msg.BodyText)

	raw, err := c.reasoner.Complete(ctx, classifyInstruction, input.String())
	if err != nil {
		return Decision{}, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	return ParseDecision(raw)
}
