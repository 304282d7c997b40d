package tui

import "github.com/charmbracelet/lipgloss"

var (
	AppStyle = lipgloss.NewStyle().Padding(0, 0)

	// Message list
	ListItemStyle         = lipgloss.NewStyle().PaddingLeft(1).PaddingRight(1)
	SelectedListItemStyle = ListItemStyle

	NormalSubjectStyle       = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "0", Dark: "15"})
	NormalSecondaryTextStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "240", Dark: "244"})
	SelectedSubjectStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("231")).Bold(true)
	SelectedSecondaryStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("189"))
	SelectedMarkerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("99")).Bold(true)

	ListStyle      = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, true, false, false).BorderForeground(lipgloss.Color("240")).PaddingRight(1)
	ListTitleStyle = lipgloss.NewStyle().Bold(true).MarginBottom(1).MarginLeft(1).Foreground(lipgloss.Color("63"))

	// Preview, triage, audit, reminder panes
	ContentBoxStyle = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), true).Padding(0, 1)
	TitleStyle      = lipgloss.NewStyle().Bold(true).Background(lipgloss.Color("63")).Foreground(lipgloss.Color("255")).Padding(0, 1)
	HeaderKeyStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	HeaderValStyle  = lipgloss.NewStyle()
	BodyStyle       = lipgloss.NewStyle().MarginTop(1)

	// Triage pane accents
	CategoryStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	ActionStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	SucceededStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	FailedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	SkippedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))

	// Status bar
	StatusBarSuccessStyle = lipgloss.NewStyle().Background(lipgloss.Color("28")).Foreground(lipgloss.Color("255")).Padding(0, 1)
	StatusBarNormalStyle  = lipgloss.NewStyle().Background(lipgloss.Color("235")).Foreground(lipgloss.Color("250")).Padding(0, 1)
	StatusBarErrorStyle   = lipgloss.NewStyle().Background(lipgloss.Color("196")).Foreground(lipgloss.Color("255")).Padding(0, 1)
)
