package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Color palette - warm, photography-inspired
	primaryColor   = lipgloss.Color("#E8A87C") // warm orange
	secondaryColor = lipgloss.Color("#85DCB0") // mint green
	accentColor    = lipgloss.Color("#C38D9E") // dusty rose
	warningColor   = lipgloss.Color("#F6AE2D") // amber warning
	errorColor     = lipgloss.Color("#E85D75") // soft red
	mutedColor     = lipgloss.Color("#6B7280") // gray
	textColor      = lipgloss.Color("#F3F4F6") // light text
	dimTextColor   = lipgloss.Color("#9CA3AF") // dim text

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(dimTextColor).
			Italic(true)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(secondaryColor).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(mutedColor)

	fileNameStyle = lipgloss.NewStyle().
			Foreground(textColor)

	selectedStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)

	cursorStyle = lipgloss.NewStyle().
			Foreground(primaryColor)

	markStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	topStyle = lipgloss.NewStyle().
			Foreground(warningColor).
			Bold(true)

	rawFileStyle = lipgloss.NewStyle().
			Foreground(primaryColor)

	dateStyle = lipgloss.NewStyle().
			Foreground(dimTextColor)

	successStyle = lipgloss.NewStyle().
			Foreground(secondaryColor).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true)

	infoBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedColor).
			Padding(0, 1)

	statLabelStyle = lipgloss.NewStyle().
			Foreground(dimTextColor)

	statValueStyle = lipgloss.NewStyle().
			Foreground(textColor).
			Bold(true)

	promptStyle = lipgloss.NewStyle().
			Foreground(warningColor).
			Bold(true)

	spinnerStyle = lipgloss.NewStyle().
			Foreground(primaryColor)

	// Icon characters
	iconTop     = "★"
	iconMarked  = "●"
	iconCursor  = "›"
	iconRAW     = "◆"
	iconThumb   = "▣"
	iconSuccess = "✓"
	iconError   = "✗"
	iconFolder  = "📁"
)
