package components

import (
	"net/url"
	"os"
	"strings"

	"quicktransfer/internal/tui/styles"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Picker is the upload input: the user types or pastes local paths.
type Picker struct {
	input textinput.Model
}

func NewPicker() *Picker {
	ti := textinput.New()
	ti.Placeholder = "paths of files to upload"
	ti.Prompt = "upload> "
	ti.CharLimit = 4096
	return &Picker{input: ti}
}

// Focus starts accepting input.
func (p *Picker) Focus() tea.Cmd {
	return p.input.Focus()
}

// Reset clears the input and releases focus.
func (p *Picker) Reset() {
	p.input.Reset()
	p.input.Blur()
}

func (p *Picker) Value() string {
	return p.input.Value()
}

// SetWidth limits the visible input width.
func (p *Picker) SetWidth(w int) {
	p.input.Width = w
}

// Paths returns the entered paths.
func (p *Picker) Paths() []string {
	return SplitPaths(p.input.Value())
}

func (p *Picker) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return cmd
}

func (p *Picker) View(theme styles.Theme) string {
	return theme.Panel.Render(p.input.View() + "\n" + theme.Help.Render("enter upload • esc cancel"))
}

// SplitPaths turns typed or pasted text into file paths. Paths are
// separated by newlines or whitespace; quoted paths and file:// URLs, as
// file managers paste them, are accepted, and a line naming an existing
// file is kept whole even when it contains spaces.
func SplitPaths(text string) []string {
	var paths []string
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r", "\n"), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if p := cleanPath(line); exists(p) {
			paths = append(paths, p)
			continue
		}
		for _, field := range splitQuoted(line) {
			paths = append(paths, cleanPath(field))
		}
	}
	return paths
}

func splitQuoted(line string) []string {
	var (
		fields []string
		cur    strings.Builder
		quote  rune
	)
	flush := func() {
		if cur.Len() > 0 {
			fields = append(fields, cur.String())
			cur.Reset()
		}
	}
	escaped := false
	for _, r := range line {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case r == '\\' && quote != '\'':
			escaped = true
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote = r
		case r == ' ' || r == '\t':
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return fields
}

func cleanPath(p string) string {
	p = strings.Trim(p, `"'`)
	if strings.HasPrefix(p, "file://") {
		if u, err := url.Parse(p); err == nil {
			return u.Path
		}
	}
	return p
}

func exists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
