package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/psehgal/inboxzero/triage"
)

// truncate shortens a string to a max length, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 0 {
		return ""
	}
	if maxLen < 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// formatMessageDate formats the date for display in the message list.
func formatMessageDate(t time.Time) string {
	if t.IsZero() {
		return "???"
	}
	now := time.Now()
	if t.Year() == now.Year() && t.Month() == now.Month() && t.Day() == now.Day() {
		return t.Local().Format("15:04")
	}
	return t.Local().Format("Jan02")
}

// senderShort strips the address part from a From header for list display.
func senderShort(from string) string {
	if idx := strings.Index(from, "<"); idx > 0 {
		from = strings.TrimSpace(from[:idx])
	}
	if from == "" {
		return "(Unknown Sender)"
	}
	return from
}

// formatListItem formats a single message as a two-line list entry.
func formatListItem(raw triage.RawMessage, isSelected bool, textWidth int) string {
	subject := raw.Headers["Subject"]
	if subject == "" {
		subject = "(No Subject)"
	}

	marker := "  "
	subjectStyle := NormalSubjectStyle
	secondaryStyle := NormalSecondaryTextStyle
	blockStyle := ListItemStyle
	if isSelected {
		marker = SelectedMarkerStyle.Render("> ")
		subjectStyle = SelectedSubjectStyle
		secondaryStyle = SelectedSecondaryStyle
		blockStyle = SelectedListItemStyle
	}

	dateStr := formatMessageDate(time.UnixMilli(raw.InternalDate))
	from := senderShort(raw.Headers["From"])
	maxFromLen := textWidth - len(dateStr) - 1
	if maxFromLen < 1 {
		from = ""
	} else {
		from = truncate(from, maxFromLen)
	}

	line1 := marker + subjectStyle.Render(fmt.Sprintf("%-*s", textWidth, truncate(subject, textWidth)))
	line2 := "  " + secondaryStyle.Render(fmt.Sprintf("%-*s", textWidth, strings.TrimSpace(from+" "+dateStr)))
	return blockStyle.Render(line1 + "\n" + line2)
}

// categoryLabel renders a category for the triage pane.
func categoryLabel(c triage.Category) string {
	switch c {
	case triage.CategoryUrgent:
		return "URGENT: needs a reply"
	case triage.CategoryFYI:
		return "FYI: informational"
	case triage.CategorySpam:
		return "SPAM: junk or promotional"
	case triage.CategoryFollowUp:
		return "FOLLOW-UP: needs future action"
	}
	return string(c)
}

// actionLabel describes a planned action for confirmation.
func actionLabel(plan triage.ActionPlan) string {
	switch plan.Kind {
	case triage.ActionCreateDraft:
		return fmt.Sprintf("Create a reply draft to %s", senderShort(plan.Message.Sender))
	case triage.ActionArchive:
		return "Archive (remove from inbox)"
	case triage.ActionTrash:
		return "Move to trash"
	case triage.ActionScheduleFollowUp:
		return "Record a follow-up reminder (no mailbox change)"
	}
	return string(plan.Kind)
}
