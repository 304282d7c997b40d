package triage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

// fakeReasoner returns a canned response or error and records its input.
type fakeReasoner struct {
	response  string
	err       error
	lastInput string
}

func (f *fakeReasoner) Complete(_ context.Context, _, input string) (string, error) {
	f.lastInput = input
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func testMessage() Message {
	return Message{
		ID:       "m1",
		ThreadID: "t1",
		Sender:   "Alice <alice@example.com>",
		Subject:  "Contract renewal - please advise",
		BodyText: "Can you confirm by EOD?",
	}
}

func TestClassifySendsMessageFields(t *testing.T) {
	t.Parallel()

	r := &fakeReasoner{response: `{"version":1,"category":"FYI","rationale":"ok"}`}
	c := NewClassifier(r)

	if _, err := c.Classify(context.Background(), testMessage()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"Contract renewal", "alice@example.com", "Can you confirm by EOD?"} {
		if !strings.Contains(r.lastInput, want) {
			t.Errorf("classifier input missing %q:\n%s", want, r.lastInput)
		}
	}
}

func TestClassifyServiceFailure(t *testing.T) {
	t.Parallel()

	r := &fakeReasoner{err: fmt.Errorf("connection refused")}
	c := NewClassifier(r)

	_, err := c.Classify(context.Background(), testMessage())
	if !errors.Is(err, ErrServiceUnavailable) {
		t.Fatalf("expected ErrServiceUnavailable, got %v", err)
	}
}

func TestClassifyUnknownCategoryIsNeverDefaulted(t *testing.T) {
	t.Parallel()

	r := &fakeReasoner{response: `{"version":1,"category":"Maybe","rationale":"unsure"}`}
	c := NewClassifier(r)

	_, err := c.Classify(context.Background(), testMessage())
	if !errors.Is(err, ErrUnparsableResponse) {
		t.Fatalf("expected ErrUnparsableResponse, got %v", err)
	}
}
