package gmail

import (
	"encoding/base64"
	"strings"

	"google.golang.org/api/gmail/v1"

	"github.com/psehgal/inboxzero/triage"
)

// ToRawMessage converts one Gmail API message into the provider-neutral
// shape the triage pipeline normalizes. Header names are canonicalized so
// the normalizer never sees Gmail-specific casing.
func ToRawMessage(msg *gmail.Message) triage.RawMessage {
	raw := triage.RawMessage{
		ID:           msg.Id,
		ThreadID:     msg.ThreadId,
		Snippet:      msg.Snippet,
		InternalDate: msg.InternalDate,
		Headers:      map[string]string{},
	}
	if msg.Payload == nil {
		return raw
	}
	for _, header := range msg.Payload.Headers {
		switch strings.ToLower(header.Name) {
		case "from":
			raw.Headers["From"] = header.Value
		case "subject":
			raw.Headers["Subject"] = header.Value
		case "date":
			raw.Headers["Date"] = header.Value
		}
	}
	raw.Body, raw.BodyIsHTML = extractBody(msg.Payload)
	return raw
}

// extractBody picks the best available body part: text/plain anywhere in
// the part tree wins, then text/html, then nothing. Gmail encodes part
// data as URL-safe base64.
func extractBody(payload *gmail.MessagePart) (string, bool) {
	if body := findPart(payload, "text/plain"); body != "" {
		return body, false
	}
	if body := findPart(payload, "text/html"); body != "" {
		return body, true
	}
	return "", false
}

func findPart(part *gmail.MessagePart, mimeType string) string {
	if part == nil {
		return ""
	}
	if strings.EqualFold(part.MimeType, mimeType) && part.Body != nil && part.Body.Data != "" {
		data, err := base64.URLEncoding.DecodeString(part.Body.Data)
		if err != nil {
			return ""
		}
		return string(data)
	}
	for _, p := range part.Parts {
		lower := strings.ToLower(p.MimeType)
		if strings.HasPrefix(lower, "text/") || strings.HasPrefix(lower, "multipart/") {
			if body := findPart(p, mimeType); body != "" {
				return body
			}
		}
	}
	// Simple messages carry the body directly on the payload with no
	// declared mime type match above.
	if part.MimeType == "" && part.Body != nil && part.Body.Data != "" {
		data, err := base64.URLEncoding.DecodeString(part.Body.Data)
		if err == nil {
			return string(data)
		}
	}
	return ""
}
