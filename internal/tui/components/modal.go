package components

import (
	"quicktransfer/internal/tui/styles"

	"github.com/charmbracelet/lipgloss"
)

// RenderModal draws a dialog with text and a key hint, centered in
// width x height.
func RenderModal(theme styles.Theme, title, text, hint string, width, height int) string {
	inner := width - 8
	if inner < 20 {
		inner = 20
	}
	body := lipgloss.JoinVertical(lipgloss.Left,
		theme.Title.Render(title),
		"",
		lipgloss.NewStyle().Width(min(inner, lipgloss.Width(text))).Render(text),
		"",
		theme.Help.Render(hint),
	)
	box := theme.Modal.Render(body)
	if width <= 0 || height <= 0 {
		return box
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
