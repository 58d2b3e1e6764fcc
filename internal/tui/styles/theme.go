package styles

import "github.com/charmbracelet/lipgloss"

// Theme defines the core UI styles
type Theme struct {
	App        lipgloss.Style
	Title      lipgloss.Style
	Path       lipgloss.Style
	Toolbar    lipgloss.Style
	Tile       lipgloss.Style
	Cursor     lipgloss.Style
	Selected   lipgloss.Style
	Unselected lipgloss.Style
	Panel      lipgloss.Style
	Modal      lipgloss.Style
	Error      lipgloss.Style
	Help       lipgloss.Style
}

type palette struct {
	accent, text, muted, selected, border, errorFg string
}

func newTheme(p palette) Theme {
	return Theme{
		App: lipgloss.NewStyle(),
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(p.accent)),
		Path: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.text)),
		Toolbar: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.muted)),
		Tile: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.text)),
		Cursor: lipgloss.NewStyle().
			Underline(true).
			Foreground(lipgloss.Color(p.accent)),
		Selected: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.selected)).
			Bold(true),
		Unselected: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.muted)),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(p.border)).
			Padding(0, 1),
		Modal: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color(p.accent)).
			Padding(0, 2),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.errorFg)),
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.muted)),
	}
}

var themes = map[string]Theme{
	"default": newTheme(palette{accent: "#7B61FF", text: "#DDDDDD", muted: "#5A9", selected: "#73F59F", border: "#7B61FF", errorFg: "#FF5F5F"}),
	"dark":    newTheme(palette{accent: "#81A1C1", text: "#ECEFF4", muted: "#626262", selected: "#A3BE8C", border: "#4C566A", errorFg: "#BF616A"}),
	"light":   newTheme(palette{accent: "#4F4FB7", text: "#1F1F1F", muted: "#666666", selected: "#00875A", border: "#959595", errorFg: "#D70000"}),
}

// ThemeFor returns the named theme, falling back to "default".
func ThemeFor(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return themes["default"]
}
