// Package tui renders the triage session in the terminal: the unread list,
// a message preview, the triage pane with the confirmation gate, and views
// over the session audit log and follow-up reminders.
package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/psehgal/inboxzero/triage"
)

type viewState int

const (
	viewLoading viewState = iota
	viewDashboard
	viewTriage
	viewAudit
	viewReminders
)

const (
	listItemHeight      = 3
	minListPaneWidth    = 30
	minPreviewPaneWidth = 40
)

type Model struct {
	orc             *triage.Orchestrator
	auditLog        *triage.AuditLog
	reminders       *triage.ReminderBook
	msgChan         <-chan triage.RawMessage
	pollInterval    time.Duration
	classifyTimeout time.Duration

	messages    []triage.RawMessage
	selectedIdx int
	viewportTop int

	currentView viewState
	cycle       *triage.Cycle
	lastEntry   *triage.AuditEntry
	triageBusy  bool

	width, height int
	statusBarText string
	statusIsError bool
	statusIsTemp  bool

	err         error
	monitorDone bool
}

func NewInitialModel(orc *triage.Orchestrator, auditLog *triage.AuditLog, reminders *triage.ReminderBook, msgChan <-chan triage.RawMessage, pollInterval, classifyTimeout time.Duration) Model {
	return Model{
		orc:             orc,
		auditLog:        auditLog,
		reminders:       reminders,
		msgChan:         msgChan,
		pollInterval:    pollInterval,
		classifyTimeout: classifyTimeout,
		currentView:     viewLoading,
		statusBarText:   "Initializing, connecting to Gmail...",
		messages:        []triage.RawMessage{},
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		waitForMessageCmd(m.msgChan),
		statusTickCmd(1*time.Second),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ensureSelectedVisible()
		if m.currentView == viewLoading && m.width > 0 {
			if len(m.messages) > 0 || m.monitorDone {
				m.currentView = viewDashboard
				m.setStandardStatus()
			} else {
				m.updateStatusBar("Waiting for unread messages...")
			}
		}

	case tea.KeyMsg:
		return m.handleKey(msg)

	case NewMessageMsg:
		raw := triage.RawMessage(msg)
		m.addMessage(raw)
		if m.currentView == viewLoading && m.width > 0 {
			m.currentView = viewDashboard
			m.setStandardStatus()
		} else {
			m.showTemporaryStatus(fmt.Sprintf("New: %s", truncate(raw.Headers["Subject"], 30)), 4*time.Second, &cmds)
		}
		m.ensureSelectedVisible()
		cmds = append(cmds, waitForMessageCmd(m.msgChan))

	case MonitorStoppedMsg:
		m.monitorDone = true
		if m.currentView == viewLoading {
			m.currentView = viewDashboard
		}
		if !m.statusIsTemp {
			m.setStandardStatus()
		}

	case cycleReadyMsg:
		m.triageBusy = false
		m.cycle = msg.cycle
		if m.cycle.State == triage.StateErrored {
			m.updateStatusError(fmt.Sprintf("Triage failed at %s: %v", m.cycle.Stage, m.cycle.Err))
		} else {
			m.updateStatusBar("Awaiting confirmation. [Y]:Execute [N]:Reject")
		}

	case cycleFinishedMsg:
		m.triageBusy = false
		entry := msg.entry
		m.lastEntry = &entry
		if entry.Outcome == triage.OutcomeSucceeded &&
			(entry.Action == triage.ActionArchive || entry.Action == triage.ActionTrash) {
			m.removeMessage(entry.MessageID)
		}
		m.setStandardStatus()

	case ErrorMsg:
		m.err = msg.Err
		m.updateStatusError(fmt.Sprintf("Error: %v", msg.Err))

	case StatusTickMsg:
		if !m.statusIsTemp && m.currentView == viewDashboard {
			m.setStandardStatus()
		}
		cmds = append(cmds, statusTickCmd(1*time.Second))

	case clearTempStatusMsg:
		if m.statusIsTemp {
			m.statusIsTemp = false
			m.setStandardStatus()
		}
	}

	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.currentView {
	case viewLoading:
		if key == "q" {
			return m, tea.Quit
		}

	case viewDashboard:
		switch key {
		case "q":
			return m, tea.Quit
		case "up", "k":
			if m.selectedIdx > 0 {
				m.selectedIdx--
				m.ensureSelectedVisible()
			}
		case "down", "j":
			if m.selectedIdx < len(m.messages)-1 {
				m.selectedIdx++
				m.ensureSelectedVisible()
			}
		case "enter", "t":
			if len(m.messages) > 0 && m.selectedIdx >= 0 && m.selectedIdx < len(m.messages) {
				raw := m.messages[m.selectedIdx]
				m.currentView = viewTriage
				m.cycle = nil
				m.lastEntry = nil
				m.triageBusy = true
				m.updateStatusBar(fmt.Sprintf("Classifying: %s ...", truncate(raw.Headers["Subject"], 40)))
				return m, beginCycleCmd(m.orc, raw, m.classifyTimeout)
			}
		case "a":
			m.currentView = viewAudit
			m.setStandardStatus()
		case "r":
			m.currentView = viewReminders
			m.setStandardStatus()
		}

	case viewTriage:
		if m.triageBusy {
			break
		}
		awaiting := m.cycle != nil && m.cycle.State == triage.StateAwaitingConfirmation
		switch key {
		case "y", "Y":
			if awaiting {
				m.triageBusy = true
				m.updateStatusBar("Executing...")
				return m, confirmCmd(m.orc, m.cycle, m.classifyTimeout)
			}
		case "n", "N":
			if awaiting {
				m.triageBusy = true
				return m, rejectCmd(m.orc, m.cycle)
			}
		case "esc", "q":
			if awaiting {
				// Leaving the pane is an explicit rejection: the plan is
				// discarded, never silently kept around.
				m.triageBusy = true
				return m, rejectCmd(m.orc, m.cycle)
			}
			m.currentView = viewDashboard
			m.cycle = nil
			m.lastEntry = nil
			m.setStandardStatus()
		}

	case viewAudit, viewReminders:
		switch key {
		case "esc", "q":
			m.currentView = viewDashboard
			m.setStandardStatus()
		}
	}

	return m, nil
}

func (m *Model) addMessage(raw triage.RawMessage) {
	oldSelectedID := ""
	if len(m.messages) > 0 && m.selectedIdx >= 0 && m.selectedIdx < len(m.messages) {
		oldSelectedID = m.messages[m.selectedIdx].ID
	}

	m.messages = append(m.messages, raw)
	sort.SliceStable(m.messages, func(i, j int) bool {
		return m.messages[i].InternalDate > m.messages[j].InternalDate
	})

	m.selectedIdx = 0
	if oldSelectedID != "" {
		for i, r := range m.messages {
			if r.ID == oldSelectedID {
				m.selectedIdx = i
				break
			}
		}
	}
}

func (m *Model) removeMessage(id string) {
	for i, r := range m.messages {
		if r.ID == id {
			m.messages = append(m.messages[:i], m.messages[i+1:]...)
			break
		}
	}
	if m.selectedIdx >= len(m.messages) {
		m.selectedIdx = len(m.messages) - 1
	}
	if m.selectedIdx < 0 {
		m.selectedIdx = 0
	}
	m.ensureSelectedVisible()
}

func (m *Model) showTemporaryStatus(text string, duration time.Duration, cmds *[]tea.Cmd) {
	m.statusBarText = text
	m.statusIsError = false
	m.statusIsTemp = true
	*cmds = append(*cmds, tea.Tick(duration, func(t time.Time) tea.Msg {
		return clearTempStatusMsg{}
	}))
}

func (m *Model) updateStatusBar(text string) {
	m.statusBarText = text
	m.statusIsError = false
	m.statusIsTemp = false
}

func (m *Model) updateStatusError(text string) {
	m.statusBarText = text
	m.statusIsError = true
	m.statusIsTemp = false
}

func (m *Model) setStandardStatus() {
	if m.statusIsTemp {
		return
	}

	monitorStatus := "Watching"
	if m.monitorDone {
		monitorStatus = "Monitor Off"
	}
	statusMsg := fmt.Sprintf(" %s (Poll: %v) | %s | %d unread | %d actions ",
		monitorStatus, m.pollInterval, time.Now().Format("15:04:05"), len(m.messages), m.auditLog.Len())

	keyHints := "[Q/Ctrl+C]:Quit"
	switch m.currentView {
	case viewDashboard:
		keyHints += " | [↑↓/jk]:Nav | [Enter]:Triage | [A]:Audit | [R]:Reminders"
	case viewTriage:
		if m.cycle != nil && m.cycle.State == triage.StateAwaitingConfirmation {
			keyHints = "[Y]:Execute | [N]:Reject"
		} else {
			keyHints = "[Esc]:Back"
		}
	case viewAudit, viewReminders:
		keyHints = "[Esc]:Back"
	}
	m.updateStatusBar(statusMsg + "| " + keyHints)
}

func (m *Model) ensureSelectedVisible() {
	if len(m.messages) == 0 {
		m.viewportTop = 0
		return
	}

	itemsThatFit := m.numItemsThatFit()
	if itemsThatFit <= 0 {
		m.viewportTop = m.selectedIdx
		return
	}

	if m.selectedIdx < m.viewportTop {
		m.viewportTop = m.selectedIdx
	} else if m.selectedIdx >= m.viewportTop+itemsThatFit {
		m.viewportTop = m.selectedIdx - itemsThatFit + 1
	}

	if m.viewportTop < 0 {
		m.viewportTop = 0
	}
	maxTop := len(m.messages) - itemsThatFit
	if maxTop < 0 {
		maxTop = 0
	}
	if m.viewportTop > maxTop {
		m.viewportTop = maxTop
	}
}

func (m Model) numItemsThatFit() int {
	statusBarHeight := 1
	titleHeight := lipgloss.Height(ListTitleStyle.Render(" "))
	available := m.height - statusBarHeight - titleHeight
	if available < 0 {
		available = 0
	}
	return available / listItemHeight
}

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing terminal size..."
	}

	statusBarHeight := 1
	contentHeight := m.height - statusBarHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	var mainView string
	switch m.currentView {
	case viewLoading:
		loadingText := "Waiting for unread messages..."
		if m.statusBarText != "" && m.statusBarText != "Initializing, connecting to Gmail..." {
			loadingText = m.statusBarText
		}
		mainView = lipgloss.Place(m.width, contentHeight, lipgloss.Center, lipgloss.Center, loadingText)
	case viewDashboard:
		mainView = m.renderDashboard(contentHeight)
	case viewTriage:
		mainView = m.renderTriagePane(m.width, contentHeight)
	case viewAudit:
		mainView = m.renderAuditPane(m.width, contentHeight)
	case viewReminders:
		mainView = m.renderReminderPane(m.width, contentHeight)
	}

	return AppStyle.Render(lipgloss.JoinVertical(lipgloss.Left, mainView, m.renderStatusBar()))
}

func (m Model) renderDashboard(contentHeight int) string {
	listWidth := int(float64(m.width) * 0.35)
	if listWidth < minListPaneWidth {
		listWidth = minListPaneWidth
	}
	if listWidth > m.width-minPreviewPaneWidth && m.width > minPreviewPaneWidth {
		listWidth = m.width - minPreviewPaneWidth
	}
	if listWidth < 0 {
		listWidth = 0
	}
	if listWidth > m.width {
		listWidth = m.width
	}
	previewWidth := m.width - listWidth
	if previewWidth < 0 {
		previewWidth = 0
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderMessageList(listWidth, contentHeight),
		m.renderPreviewPane(previewWidth, contentHeight),
	)
}

func (m Model) renderMessageList(paneWidth, paneHeight int) string {
	title := ListTitleStyle.Render("Unread")
	textWidth := paneWidth - 6
	if textWidth < 10 {
		textWidth = 10
	}

	numItems := 0
	itemsHeight := paneHeight - lipgloss.Height(title)
	if itemsHeight > 0 {
		numItems = itemsHeight / listItemHeight
	}

	start := m.viewportTop
	end := start + numItems
	if start > len(m.messages) {
		start = len(m.messages)
	}
	if end > len(m.messages) {
		end = len(m.messages)
	}
	if end < start {
		end = start
	}

	var items []string
	for i := start; i < end; i++ {
		items = append(items, formatListItem(m.messages[i], i == m.selectedIdx, textWidth))
	}

	body := strings.Join(items, "\n\n")
	if len(m.messages) == 0 {
		body = NormalSecondaryTextStyle.Render(" Inbox zero. Nothing unread.")
	}
	return ListStyle.Width(paneWidth).Height(paneHeight).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, body))
}

func (m Model) renderPreviewPane(paneWidth, paneHeight int) string {
	if paneWidth <= 0 || paneHeight <= 0 {
		return ""
	}

	styledTitle := TitleStyle.Render("Preview")
	var content string
	if len(m.messages) == 0 || m.selectedIdx < 0 || m.selectedIdx >= len(m.messages) {
		content = "\n[inboxzero]\n\nNo message selected or list is empty."
	} else {
		raw := m.messages[m.selectedIdx]
		styledTitle = TitleStyle.Render(fmt.Sprintf("Preview: %s", truncate(raw.Headers["Subject"], paneWidth-20)))

		var b strings.Builder
		b.WriteString(fmt.Sprintf("%s %s\n", HeaderKeyStyle.Render("From:"), HeaderValStyle.Render(truncate(raw.Headers["From"], paneWidth-10))))
		b.WriteString(fmt.Sprintf("%s %s\n", HeaderKeyStyle.Render("Date:"), HeaderValStyle.Render(formatMessageDate(time.UnixMilli(raw.InternalDate)))))
		b.WriteString(fmt.Sprintf("%s %s\n", HeaderKeyStyle.Render("Subject:"), HeaderValStyle.Render(truncate(raw.Headers["Subject"], paneWidth-12))))
		b.WriteString("\n" + strings.Repeat("─", paneWidth/2) + "\n")
		b.WriteString(BodyStyle.Render(raw.Snippet))
		b.WriteString("\n\n" + NormalSecondaryTextStyle.Render("[Enter] to triage this message"))
		content = b.String()
	}

	boxed := lipgloss.NewStyle().
		Width(paneWidth - ContentBoxStyle.GetHorizontalPadding()).
		MaxHeight(paneHeight - lipgloss.Height(styledTitle) - ContentBoxStyle.GetVerticalPadding()).
		Render(content)
	return ContentBoxStyle.Width(paneWidth).Height(paneHeight).Render(
		lipgloss.JoinVertical(lipgloss.Top, styledTitle, boxed))
}

func (m Model) renderTriagePane(paneWidth, paneHeight int) string {
	styledTitle := TitleStyle.Render("Triage")
	var b strings.Builder

	switch {
	case m.triageBusy && m.cycle == nil:
		b.WriteString("\nClassifying message...\n")

	case m.cycle == nil:
		b.WriteString("\nNo triage in progress.\n")

	case m.cycle.State == triage.StateErrored:
		b.WriteString(fmt.Sprintf("%s %s\n\n", HeaderKeyStyle.Render("Stage:"), string(m.cycle.Stage)))
		b.WriteString(FailedStyle.Render(fmt.Sprintf("Cycle errored: %v", m.cycle.Err)))
		b.WriteString("\n\nNo action was planned or executed for this message.")

	default:
		msg := m.cycle.Message
		b.WriteString(fmt.Sprintf("%s %s\n", HeaderKeyStyle.Render("From:"), HeaderValStyle.Render(msg.Sender)))
		b.WriteString(fmt.Sprintf("%s %s\n\n", HeaderKeyStyle.Render("Subject:"), HeaderValStyle.Render(msg.Subject)))
		b.WriteString(fmt.Sprintf("%s %s\n", HeaderKeyStyle.Render("Category:"), CategoryStyle.Render(categoryLabel(m.cycle.Decision.Category))))
		if m.cycle.Decision.Rationale != "" {
			b.WriteString(fmt.Sprintf("%s %s\n", HeaderKeyStyle.Render("Why:"), m.cycle.Decision.Rationale))
		}
		b.WriteString(fmt.Sprintf("\n%s %s\n", HeaderKeyStyle.Render("Planned action:"), ActionStyle.Render(actionLabel(m.cycle.Plan))))
		if m.cycle.Plan.Kind == triage.ActionCreateDraft || m.cycle.Plan.Kind == triage.ActionScheduleFollowUp {
			b.WriteString("\n" + strings.Repeat("─", paneWidth/2) + "\n")
			b.WriteString(BodyStyle.Render(m.cycle.Plan.Payload) + "\n")
		}

		switch {
		case m.lastEntry != nil:
			b.WriteString("\n" + strings.Repeat("─", paneWidth/2) + "\n")
			b.WriteString(renderOutcome(*m.lastEntry))
		case m.triageBusy:
			b.WriteString("\nExecuting...")
		case m.cycle.State == triage.StateAwaitingConfirmation:
			b.WriteString("\nExecute this action? " + HeaderKeyStyle.Render("[Y]es / [N]o"))
		}
	}

	boxed := lipgloss.NewStyle().
		Width(paneWidth - ContentBoxStyle.GetHorizontalPadding()).
		MaxHeight(paneHeight - lipgloss.Height(styledTitle) - ContentBoxStyle.GetVerticalPadding()).
		Render(b.String())
	return ContentBoxStyle.Width(paneWidth).Height(paneHeight).Render(
		lipgloss.JoinVertical(lipgloss.Top, styledTitle, boxed))
}

func renderOutcome(entry triage.AuditEntry) string {
	switch entry.Outcome {
	case triage.OutcomeSucceeded:
		return SucceededStyle.Render(fmt.Sprintf("✓ %s: %s", entry.Action, entry.Detail))
	case triage.OutcomeFailed:
		return FailedStyle.Render(fmt.Sprintf("✗ %s failed: %s", entry.Action, entry.Detail))
	case triage.OutcomeSkipped:
		return SkippedStyle.Render(fmt.Sprintf("– %s skipped: %s", entry.Action, entry.Detail))
	}
	return string(entry.Outcome)
}

func (m Model) renderAuditPane(paneWidth, paneHeight int) string {
	styledTitle := TitleStyle.Render("Session Audit Log")
	entries := m.auditLog.Entries()

	var b strings.Builder
	if len(entries) == 0 {
		b.WriteString("\nNo actions this session.")
	}
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		b.WriteString(fmt.Sprintf("%s  %s  %s\n",
			NormalSecondaryTextStyle.Render(e.Timestamp.Format("15:04:05")),
			renderOutcome(e),
			NormalSecondaryTextStyle.Render("msg "+truncate(e.MessageID, 12))))
	}

	boxed := lipgloss.NewStyle().
		Width(paneWidth - ContentBoxStyle.GetHorizontalPadding()).
		MaxHeight(paneHeight - lipgloss.Height(styledTitle) - ContentBoxStyle.GetVerticalPadding()).
		Render(b.String())
	return ContentBoxStyle.Width(paneWidth).Height(paneHeight).Render(
		lipgloss.JoinVertical(lipgloss.Top, styledTitle, boxed))
}

func (m Model) renderReminderPane(paneWidth, paneHeight int) string {
	styledTitle := TitleStyle.Render("Follow-up Reminders")
	reminders := m.reminders.Reminders()

	var b strings.Builder
	if len(reminders) == 0 {
		b.WriteString("\nNo follow-ups recorded this session.")
	}
	for _, r := range reminders {
		b.WriteString(fmt.Sprintf("%s  %s\n",
			NormalSecondaryTextStyle.Render(r.CreatedAt.Format("15:04:05")),
			r.Task))
	}

	boxed := lipgloss.NewStyle().
		Width(paneWidth - ContentBoxStyle.GetHorizontalPadding()).
		MaxHeight(paneHeight - lipgloss.Height(styledTitle) - ContentBoxStyle.GetVerticalPadding()).
		Render(b.String())
	return ContentBoxStyle.Width(paneWidth).Height(paneHeight).Render(
		lipgloss.JoinVertical(lipgloss.Top, styledTitle, boxed))
}

func (m Model) renderStatusBar() string {
	styleToUse := StatusBarNormalStyle
	if m.statusIsError {
		styleToUse = StatusBarErrorStyle
	} else if m.statusIsTemp {
		styleToUse = StatusBarSuccessStyle
	}
	return styleToUse.Width(m.width).Render(truncate(m.statusBarText, m.width))
}
