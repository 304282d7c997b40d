package triage

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestNormalizeMissingID(t *testing.T) {
	t.Parallel()

	_, err := Normalize(RawMessage{
		Headers: map[string]string{"From": "alice@example.com"},
		Body:    "hello",
	})
	if !errors.Is(err, ErrMalformedMessage) {
		t.Fatalf("expected ErrMalformedMessage, got %v", err)
	}
}

func TestNormalizeMissingSender(t *testing.T) {
	t.Parallel()

	_, err := Normalize(RawMessage{
		ID:      "m1",
		Headers: map[string]string{"Subject": "no sender"},
	})
	if !errors.Is(err, ErrMalformedMessage) {
		t.Fatalf("expected ErrMalformedMessage, got %v", err)
	}
}

func TestNormalizePlainText(t *testing.T) {
	t.Parallel()

	msg, err := Normalize(RawMessage{
		ID:       "m1",
		ThreadID: "t1",
		Headers: map[string]string{
			"From":    "  Alice <alice@example.com>  ",
			"Subject": " Weekly report ",
		},
		Snippet:      "Weekly report attached",
		Body:         "Hi,\r\n\r\n\r\n\r\nPlease   find\tthe report attached.\r\n",
		InternalDate: 1700000000000,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if msg.Sender != "Alice <alice@example.com>" {
		t.Errorf("Sender: got %q", msg.Sender)
	}
	if msg.Subject != "Weekly report" {
		t.Errorf("Subject: got %q", msg.Subject)
	}
	want := "Hi,\n\nPlease find the report attached."
	if msg.BodyText != want {
		t.Errorf("BodyText: got %q, want %q", msg.BodyText, want)
	}
	if got := msg.ReceivedAt; !got.Equal(time.UnixMilli(1700000000000)) {
		t.Errorf("ReceivedAt: got %v", got)
	}
}

func TestNormalizeHTMLBody(t *testing.T) {
	t.Parallel()

	msg, err := Normalize(RawMessage{
		ID:         "m2",
		Headers:    map[string]string{"From": "bob@example.com"},
		Body:       "<html><body><p>Hello <b>World</b></p></body></html>",
		BodyIsHTML: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(msg.BodyText, "<") {
		t.Errorf("BodyText still contains markup: %q", msg.BodyText)
	}
	if !strings.Contains(msg.BodyText, "Hello World") {
		t.Errorf("BodyText lost visible text: %q", msg.BodyText)
	}
}

func TestNormalizeEmptyBodyIsValid(t *testing.T) {
	t.Parallel()

	msg, err := Normalize(RawMessage{
		ID:      "m3",
		Headers: map[string]string{"From": "carol@example.com"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg.BodyText != "" {
		t.Errorf("BodyText: got %q, want empty string", msg.BodyText)
	}
}

func TestReceivedTimeFallsBackToDateHeader(t *testing.T) {
	t.Parallel()

	msg, err := Normalize(RawMessage{
		ID: "m4",
		Headers: map[string]string{
			"From": "dave@example.com",
			"Date": "Mon, 02 Jan 2006 15:04:05 -0700",
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg.ReceivedAt.IsZero() {
		t.Error("ReceivedAt should be parsed from Date header")
	}
}
