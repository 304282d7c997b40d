package triage

import (
	"sync"
	"time"
)

// Reminder is a local follow-up task surfaced in the display layer. It has
// no mailbox-side effect and lives only for the session.
type Reminder struct {
	MessageID string
	Task      string
	CreatedAt time.Time
}

// ReminderBook is the in-session, append-only collection of follow-ups.
type ReminderBook struct {
	mu        sync.RWMutex
	reminders []Reminder
}

func NewReminderBook() *ReminderBook {
	return &ReminderBook{}
}

func (b *ReminderBook) Add(messageID, task string) Reminder {
	r := Reminder{MessageID: messageID, Task: task, CreatedAt: time.Now()}
	b.mu.Lock()
	b.reminders = append(b.reminders, r)
	b.mu.Unlock()
	return r
}

// Reminders returns a copy in creation order.
func (b *ReminderBook) Reminders() []Reminder {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]Reminder, len(b.reminders))
	copy(out, b.reminders)
	return out
}
