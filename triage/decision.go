package triage

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Category is the closed set of triage intents. Anything else coming back
// from the reasoning service is a classification failure, not a default.
type Category string

const (
	CategoryUrgent   Category = "URGENT"
	CategoryFYI      Category = "FYI"
	CategorySpam     Category = "SPAM"
	CategoryFollowUp Category = "FOLLOW_UP"
)

// decisionSchemaVersion is pinned in the instruction sent to the reasoning
// service and validated on the way back, so a silently changed prompt or
// model cannot smuggle a different shape through.
const decisionSchemaVersion = 1

// Decision is the classifier's structured output for one Message.
type Decision struct {
	Category   Category
	Rationale  string
	ReplyDraft string // set only for URGENT
}

// decisionWire mirrors the JSON the reasoning service is instructed to emit.
type decisionWire struct {
	Version    int    `json:"version"`
	Category   string `json:"category"`
	Rationale  string `json:"rationale"`
	ReplyDraft string `json:"reply_draft"`
}

// ParseDecision validates a raw reasoning-service response against the
// decision contract. Every violation wraps ErrUnparsableResponse.
func ParseDecision(raw string) (Decision, error) {
	payload := stripCodeFence(raw)
	if strings.TrimSpace(payload) == "" {
		return Decision{}, fmt.Errorf("%w: empty response", ErrUnparsableResponse)
	}

	var wire decisionWire
	if err := json.Unmarshal([]byte(payload), &wire); err != nil {
		return Decision{}, fmt.Errorf("%w: %v", ErrUnparsableResponse, err)
	}
	if wire.Version != decisionSchemaVersion {
		return Decision{}, fmt.Errorf("%w: schema version %d, want %d", ErrUnparsableResponse, wire.Version, decisionSchemaVersion)
	}

	category := Category(strings.ToUpper(strings.TrimSpace(wire.Category)))
	switch category {
	case CategoryUrgent, CategoryFYI, CategorySpam, CategoryFollowUp:
	default:
		return Decision{}, fmt.Errorf("%w: category %q outside closed set", ErrUnparsableResponse, wire.Category)
	}

	d := Decision{
		Category:  category,
		Rationale: strings.TrimSpace(wire.Rationale),
	}
	if category == CategoryUrgent {
		d.ReplyDraft = strings.TrimSpace(wire.ReplyDraft)
	}
	return d, nil
}

// stripCodeFence removes a surrounding markdown fence, which some models
// wrap around JSON output despite instructions.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
