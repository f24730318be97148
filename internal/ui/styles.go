package ui

import "github.com/charmbracelet/lipgloss"

var (
	// Color palette
	colorPrimary   = lipgloss.Color("#6BBF59") // Forest green
	colorSecondary = lipgloss.Color("#C9A227") // Trail gold
	colorDanger    = lipgloss.Color("#FF6B6B") // Red for closures and danger
	colorWarning   = lipgloss.Color("#FFD93D") // Yellow for caution
	colorInfo      = lipgloss.Color("#87CEEB") // Sky blue for information
	colorSuccess   = lipgloss.Color("#6BCF7F") // Green
	colorMuted     = lipgloss.Color("#6C757D") // Gray
	colorBorder    = lipgloss.Color("#3E7C3A") // Border green

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Bold(true)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	// Alert category styles
	alertCriticalStyle = lipgloss.NewStyle().
				Foreground(colorDanger).
				Bold(true)

	alertCautionStyle = lipgloss.NewStyle().
				Foreground(colorWarning).
				Bold(true)

	alertInfoStyle = lipgloss.NewStyle().
			Foreground(colorInfo)

	favoriteStyle = lipgloss.NewStyle().
			Foreground(colorSecondary).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorDanger).
			Bold(true)

	// Help text style
	helpStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(1, 0)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	successStyle = lipgloss.NewStyle().
			Foreground(colorSuccess)

	sectionHeaderStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true).
				Padding(0, 1).
				MarginTop(1)

	inputBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(1, 2).
			Width(64)

	columnStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1).
			MarginRight(1)

	emptyColumnStyle = lipgloss.NewStyle().
				Border(lipgloss.HiddenBorder()).
				Foreground(colorMuted).
				Padding(0, 1).
				MarginRight(1)
)
