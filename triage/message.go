package triage

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jaytaylor/html2text"
)

// RawMessage is one provider fetch result before normalization. The gmail
// package builds these from API responses; nothing in this package depends
// on the provider's wire types.
type RawMessage struct {
	ID           string
	ThreadID     string
	Headers      map[string]string // canonical header names: From, Subject, Date
	Snippet      string
	Body         string // decoded body, best available part
	BodyIsHTML   bool
	InternalDate int64 // ms since epoch, provider-assigned
}

// Message is one mailbox item under triage. Created by Normalize, immutable
// afterwards, and alive only for the duration of one cycle.
type Message struct {
	ID         string
	ThreadID   string
	Sender     string
	Subject    string
	Snippet    string
	BodyText   string // always plain text; empty string is valid
	ReceivedAt time.Time
}

var (
	spaceRuns = regexp.MustCompile(`[ \t]+`)
	blankRuns = regexp.MustCompile(`\n{3,}`)
)

// Normalize converts a raw provider message into a canonical Message.
// It fails wrapping ErrMalformedMessage when the id or sender is absent.
// HTML bodies are reduced to their visible text; whitespace is collapsed.
func Normalize(raw RawMessage) (Message, error) {
	if raw.ID == "" {
		return Message{}, fmt.Errorf("%w: missing message id", ErrMalformedMessage)
	}
	sender := raw.Headers["From"]
	if strings.TrimSpace(sender) == "" {
		return Message{}, fmt.Errorf("%w: message %s has no From header", ErrMalformedMessage, raw.ID)
	}

	body := raw.Body
	if raw.BodyIsHTML && body != "" {
		text, err := html2text.FromString(body, html2text.Options{TextOnly: true})
		if err != nil {
			// A broken HTML body is not a malformed message; fall back
			// to the snippet so the classifier still sees something.
			body = raw.Snippet
		} else {
			body = text
		}
	}

	return Message{
		ID:         raw.ID,
		ThreadID:   raw.ThreadID,
		Sender:     strings.TrimSpace(sender),
		Subject:    strings.TrimSpace(raw.Headers["Subject"]),
		Snippet:    raw.Snippet,
		BodyText:   collapseWhitespace(body),
		ReceivedAt: receivedTime(raw),
	}, nil
}

// collapseWhitespace trims each line, squeezes runs of spaces and tabs, and
// limits consecutive blank lines to one.
func collapseWhitespace(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = spaceRuns.ReplaceAllString(s, " ")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	s = strings.Join(lines, "\n")
	s = blankRuns.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// receivedTime prefers the provider's internal date and falls back to the
// Date header for providers that omit it.
func receivedTime(raw RawMessage) time.Time {
	if raw.InternalDate > 0 {
		return time.UnixMilli(raw.InternalDate)
	}
	if v := raw.Headers["Date"]; v != "" {
		for _, layout := range []string{time.RFC1123Z, time.RFC1123, "Mon, 2 Jan 2006 15:04:05 -0700"} {
			if t, err := time.Parse(layout, v); err == nil {
				return t
			}
		}
	}
	return time.Time{}
}
