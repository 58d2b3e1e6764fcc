package components

import (
	"fmt"
	"strings"

	"quicktransfer/internal/browser"
	"quicktransfer/internal/tui/styles"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

type StatusBar struct {
	text    string
	style   lipgloss.Style
	spinner spinner.Model
	loading bool
}

func NewStatusBar(theme styles.Theme) *StatusBar {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = theme.Help

	return &StatusBar{
		style:   theme.Help,
		spinner: s,
	}
}

// SetLoading starts or stops the spinner. The returned command drives
// the animation and is nil when nothing changed.
func (s *StatusBar) SetLoading(loading bool) tea.Cmd {
	if loading == s.loading {
		return nil
	}
	s.loading = loading
	if loading {
		return s.spinner.Tick
	}
	return nil
}

func (s *StatusBar) Loading() bool {
	return s.loading
}

func (s *StatusBar) SetText(text string) {
	s.text = text
}

func (s *StatusBar) Text() string {
	return s.text
}

func (s *StatusBar) Update(msg tea.Msg) tea.Cmd {
	if s.loading {
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return cmd
	}
	return nil
}

// View renders mode, selection summary and the last message.
func (s *StatusBar) View(mode string, st browser.State) string {
	parts := []string{mode}
	if n := len(st.Selection); n > 0 {
		parts = append(parts, fmt.Sprintf("%d selected (%s)", n, humanize.Bytes(selectedBytes(st))))
	} else {
		parts = append(parts, fmt.Sprintf("%d items", len(st.Tiles)))
	}
	if st.View != browser.Idle && st.View != browser.Selecting {
		parts = append(parts, st.View.String())
	}
	if s.text != "" {
		parts = append(parts, s.text)
	}

	line := strings.Join(parts, " │ ")
	if s.loading {
		line = s.spinner.View() + " " + line
	}
	return s.style.Render(line)
}

func selectedBytes(st browser.State) uint64 {
	var total uint64
	for _, i := range st.Selection {
		if i < len(st.Tiles) && st.Tiles[i].Entry.Size != nil {
			total += uint64(*st.Tiles[i].Entry.Size)
		}
	}
	return total
}
