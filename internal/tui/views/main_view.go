package views

import (
	"fmt"
	"strings"

	"quicktransfer/internal/browser"
	"quicktransfer/internal/filetype"
	"quicktransfer/internal/tui/components"
	"quicktransfer/internal/tui/styles"
	"quicktransfer/pkg/types"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
)

// Screen rows of the fixed parts. The grid starts below the toolbar; the
// menu line, the player line, the status line and the help line follow it.
const (
	TitleRow   = 0
	PathRow    = 1
	ToolbarRow = 2
	HeaderRows = 3
	FooterRows = 4
)

// GridLayout returns where the grid sits for the current model size.
func GridLayout(m types.ModelReader) components.Layout {
	w, h := m.Size()
	return components.NewLayout(w, h-HeaderRows-FooterRows, HeaderRows, m.Cursor())
}

// MenuRow is the screen row of the context menu line.
func MenuRow(m types.ModelReader) int {
	return HeaderRows + GridLayout(m).Height()
}

// RenderMainView renders everything but the status, help and modals.
func RenderMainView(m types.ModelReader, theme styles.Theme) string {
	st := m.State()
	w, _ := m.Size()
	layout := GridLayout(m)

	var sb strings.Builder
	sb.WriteString(theme.Title.Render("QuickTransfer") + " " + theme.Help.Render(m.BaseURL()) + "\n")
	sb.WriteString(theme.Path.Render(runewidth.Truncate(displayPath(st.Path), w, "…")) + "\n")
	sb.WriteString(components.ToolbarButtons.Render(theme) + "\n")

	var body string
	if st.Viewer.Visible {
		body = renderViewer(st, theme)
	} else {
		body = components.RenderGrid(st.Tiles, m.Cursor(), layout, theme)
	}
	sb.WriteString(fit(body, layout.Height()) + "\n")

	if st.Menu.Visible {
		sb.WriteString(components.MenuButtons.Render(theme))
	}
	sb.WriteString("\n")
	sb.WriteString(renderOverlays(st.Overlays, theme, w))

	return theme.App.Render(sb.String())
}

// displayPath renders the current path with "/" for the root.
func displayPath(p string) string {
	return "/" + p
}

// fit pads or cuts s to exactly n lines.
func fit(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[:n]
	}
	for len(lines) < n {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func renderViewer(st browser.State, theme styles.Theme) string {
	v := st.Viewer
	var size string
	for _, e := range st.Images {
		if e.Name == v.Alt && e.Size != nil {
			size = " · " + humanize.Bytes(uint64(*e.Size))
		}
	}
	text := fmt.Sprintf("🖼  %s%s\n%d of %d\n%s", v.Alt, size, v.Index+1, len(st.Images), v.Src)
	return theme.Panel.Render(text) + "\n" + theme.Help.Render("← prev • → next • o open • esc close")
}

func renderOverlays(overlays []browser.Overlay, theme styles.Theme, width int) string {
	if len(overlays) == 0 {
		return ""
	}
	parts := make([]string, len(overlays))
	for i, o := range overlays {
		icon := filetype.Glyph(o.Kind)
		parts[i] = fmt.Sprintf("%s %s", icon, o.Title)
	}
	line := "▶ " + strings.Join(parts, "  ") + "  (esc closes newest)"
	return theme.Selected.Render(runewidth.Truncate(line, width, "…"))
}
