package theme

import (
	"charm.land/lipgloss/v2"
)

// Color palette: calm blues for a test setting.
var (
	Primary   = lipgloss.Color("#3B82F6") // Blue
	Secondary = lipgloss.Color("#0EA5E9") // Sky
	Accent    = lipgloss.Color("#F59E0B") // Amber
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#EF4444") // Red
	Warning   = lipgloss.Color("#EAB308") // Yellow
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	BgDark    = lipgloss.Color("#0F172A") // Navy
	BgCard    = lipgloss.Color("#1E293B") // Dark Slate
	Border    = lipgloss.Color("#334155") // Slate
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		Align(lipgloss.Center)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim).
			Align(lipgloss.Center)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Label = lipgloss.NewStyle().
		Foreground(TextDim).
		Bold(true)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	ErrorText = lipgloss.NewStyle().
			Foreground(Error)

	WarningText = lipgloss.NewStyle().
			Foreground(Warning)
)

// Layout
var (
	Card = lipgloss.NewStyle().
		Background(BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)

	Rule = lipgloss.NewStyle().
		Foreground(Border)
)

// States
var (
	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Unselected = lipgloss.NewStyle().
			Foreground(Text)

	Disabled = lipgloss.NewStyle().
			Foreground(Border)

	Correct = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Incorrect = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	Manual = lipgloss.NewStyle().
		Foreground(Accent).
		Bold(true)

	Level = lipgloss.NewStyle().
		Foreground(Accent).
		Bold(true)
)

// Components
var (
	ProgressFilled = lipgloss.NewStyle().
			Background(Secondary)

	ProgressEmpty = lipgloss.NewStyle().
			Background(Border)

	ButtonActive = lipgloss.NewStyle().
			Background(Primary).
			Foreground(Text).
			Bold(true).
			Padding(0, 2)

	ButtonInactive = lipgloss.NewStyle().
			Foreground(TextDim).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(0, 2)

	ButtonDisabled = lipgloss.NewStyle().
			Foreground(Border).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(0, 2)
)
