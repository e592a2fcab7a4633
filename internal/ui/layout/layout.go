package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/placement/internal/ui/theme"
)

const (
	MinWidth  = 80
	MinHeight = 24

	CompactHeightThreshold = 30
)

// Brand is shown at the left of the header.
const Brand = "English Placement"

// KeyHint represents a key binding hint shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// IsCompactHeight returns true if the terminal height is in compact range.
func IsCompactHeight(height int) bool {
	return height < CompactHeightThreshold
}

// IsTooSmall returns true if the terminal is below minimum size.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage renders the "terminal too small" message.
func RenderMinSizeMessage(width, height int) string {
	return lipgloss.NewStyle().
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Width(width).
		Height(height).
		Render(fmt.Sprintf(
			"Окно терминала слишком маленькое.\n\nМинимальный размер: %d x %d\n\nСейчас: %d x %d",
			MinWidth, MinHeight, width, height,
		))
}

// RenderHeader renders the header bar: brand, screen title and an
// optional status on the right (the learner's name during a test).
func RenderHeader(title, status string, width int) string {
	left := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true).
		Render("  " + Brand)

	center := lipgloss.NewStyle().
		Foreground(theme.Text).
		Render(title)

	right := lipgloss.NewStyle().
		Foreground(theme.Accent).
		Render(status)

	leftLen := lipgloss.Width(left)
	centerLen := lipgloss.Width(center)
	rightLen := lipgloss.Width(right)

	innerWidth := max(width-4, 0)

	leftGap := max((innerWidth-centerLen)/2-leftLen, 1)
	rightGap := max(innerWidth-leftLen-leftGap-centerLen-rightLen, 1)

	content := left + strings.Repeat(" ", leftGap) + center + strings.Repeat(" ", rightGap) + right

	return lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Render(content)
}

// RenderFooter renders the footer with key hints.
func RenderFooter(hints []KeyHint, width int) string {
	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		part := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(h.Key) +
			" " +
			lipgloss.NewStyle().Foreground(theme.TextDim).Render(h.Description)
		parts = append(parts, part)
	}

	return lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Render("  " + strings.Join(parts, "   "))
}

// RenderFrame composes the full frame: header + content + footer.
func RenderFrame(header, content, footer string, width, height int) string {
	contentHeight := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)

	styledContent := lipgloss.NewStyle().
		Width(width).
		Height(contentHeight).
		Render(content)

	return header + "\n" + styledContent + "\n" + footer
}

// Center renders s horizontally centered in width.
func Center(s string, width int) string {
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, s)
}

// Rule renders a horizontal separator.
func Rule(width int) string {
	return theme.Rule.Render(strings.Repeat("─", max(width, 0)))
}
