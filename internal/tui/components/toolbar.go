package components

import (
	"strings"

	"quicktransfer/internal/browser"
	"quicktransfer/internal/tui/styles"

	"github.com/mattn/go-runewidth"
)

// Button is a clickable label that raises an event.
type Button struct {
	Label string
	Kind  browser.EventKind
}

// Bar is a row of buttons separated by two spaces.
type Bar []Button

const buttonGap = 2

// ToolbarButtons are the actions above the grid.
var ToolbarButtons = Bar{
	{"⬆ Up", browser.EventUp},
	{"⟳ Refresh", browser.EventRefresh},
	{"⇪ Upload", browser.EventUpload},
	{"⇩ Download", browser.EventDownloadSelected},
	{"✕ Delete", browser.EventDeleteOne},
	{"✕ Delete selected", browser.EventDeleteSelected},
}

// MenuButtons are the context menu entries.
var MenuButtons = Bar{
	{"Download", browser.EventContextDownload},
	{"Delete", browser.EventContextDelete},
}

// At returns the button under column x.
func (b Bar) At(x int) (Button, bool) {
	pos := 0
	for _, btn := range b {
		w := runewidth.StringWidth("[" + btn.Label + "]")
		if x >= pos && x < pos+w {
			return btn, true
		}
		pos += w + buttonGap
	}
	return Button{}, false
}

// Render draws the bar on one line.
func (b Bar) Render(style styles.Theme) string {
	parts := make([]string, len(b))
	for i, btn := range b {
		parts[i] = "[" + btn.Label + "]"
	}
	return style.Toolbar.Render(strings.Join(parts, strings.Repeat(" ", buttonGap)))
}
