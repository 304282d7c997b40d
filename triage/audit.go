package triage

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Outcome of one execution attempt.
type Outcome string

const (
	OutcomeSucceeded Outcome = "Succeeded"
	OutcomeFailed    Outcome = "Failed"
	OutcomeSkipped   Outcome = "Skipped"
)

// AuditEntry records one executed, failed, or rejected action. Entries are
// never mutated after append.
type AuditEntry struct {
	ID        string
	MessageID string
	Action    ActionKind
	Outcome   Outcome
	Detail    string
	Timestamp time.Time
}

// AuditLog is the process-wide, append-only session trail. It is owned by
// the caller (main) and injected into the executor and orchestrator, so
// tests can use a fresh log per case.
type AuditLog struct {
	mu      sync.RWMutex
	entries []AuditEntry
}

func NewAuditLog() *AuditLog {
	return &AuditLog{}
}

// Append records one entry, stamping id and timestamp, and returns the
// stored value.
func (l *AuditLog) Append(messageID string, action ActionKind, outcome Outcome, detail string) AuditEntry {
	entry := AuditEntry{
		ID:        uuid.NewString(),
		MessageID: messageID,
		Action:    action,
		Outcome:   outcome,
		Detail:    detail,
		Timestamp: time.Now(),
	}
	l.mu.Lock()
	l.entries = append(l.entries, entry)
	l.mu.Unlock()
	return entry
}

// Entries returns a copy of the log in append order.
func (l *AuditLog) Entries() []AuditEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]AuditEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l *AuditLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}
