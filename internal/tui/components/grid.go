package components

import (
	"strings"

	"quicktransfer/internal/browser"
	"quicktransfer/internal/tui/styles"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
)

// Tile cell size in terminal cells.
const (
	TileWidth  = 18
	TileHeight = 3
)

const imageGlyph = "🖼"

// Layout places the tile grid on screen. Top is the first screen row of
// the grid; Rows is how many tile rows fit.
type Layout struct {
	Top      int
	Cols     int
	Rows     int
	FirstRow int
}

// NewLayout fits the grid into width x height cells starting at top,
// scrolled so that the cursor row is visible.
func NewLayout(width, height, top, cursor int) Layout {
	cols := width / TileWidth
	if cols < 1 {
		cols = 1
	}
	rows := height / TileHeight
	if rows < 1 {
		rows = 1
	}

	l := Layout{Top: top, Cols: cols, Rows: rows}
	if cursor >= 0 {
		if row := cursor / cols; row >= rows {
			l.FirstRow = row - rows + 1
		}
	}
	return l
}

// Height is the number of screen rows the grid occupies.
func (l Layout) Height() int {
	return l.Rows * TileHeight
}

// TileAt maps a screen position to a tile index.
func (l Layout) TileAt(x, y, count int) (int, bool) {
	if x < 0 || y < l.Top || y >= l.Top+l.Height() {
		return -1, false
	}
	col := x / TileWidth
	if col >= l.Cols {
		return -1, false
	}
	row := (y-l.Top)/TileHeight + l.FirstRow
	i := row*l.Cols + col
	if i >= count {
		return -1, false
	}
	return i, true
}

// Contains reports whether screen row y belongs to the grid area.
func (l Layout) Contains(y int) bool {
	return y >= l.Top && y < l.Top+l.Height()
}

// Label truncates name to fit width cells.
func Label(name string, width int) string {
	return runewidth.Truncate(name, width, "…")
}

// RenderGrid draws the visible part of tiles.
func RenderGrid(tiles []browser.Tile, cursor int, l Layout, theme styles.Theme) string {
	if len(tiles) == 0 {
		return theme.Unselected.Render("  (empty folder)")
	}

	var sb strings.Builder
	for row := l.FirstRow; row < l.FirstRow+l.Rows; row++ {
		start := row * l.Cols
		if start >= len(tiles) {
			break
		}
		end := start + l.Cols
		if end > len(tiles) {
			end = len(tiles)
		}

		lines := make([]strings.Builder, TileHeight)
		for _, t := range tiles[start:end] {
			cell := renderTile(t)
			style := theme.Tile
			switch {
			case t.Index == cursor && t.Selected:
				style = theme.Selected.Underline(true)
			case t.Index == cursor:
				style = theme.Cursor
			case t.Selected:
				style = theme.Selected
			}
			for i, text := range cell {
				lines[i].WriteString(style.Render(text))
			}
		}
		for i := range lines {
			sb.WriteString(lines[i].String())
			sb.WriteByte('\n')
		}
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

// renderTile returns the fixed-width lines of one cell.
func renderTile(t browser.Tile) [TileHeight]string {
	inner := TileWidth - 2

	mark := " "
	if t.Selected {
		mark = "✓"
	}
	glyph := t.Glyph
	if t.Thumbnail != "" {
		glyph = imageGlyph
	}

	detail := "folder"
	if !t.Entry.IsDir() {
		detail = string(t.Type())
		if t.Entry.Size != nil {
			detail = humanize.Bytes(uint64(*t.Entry.Size))
		}
	}

	return [TileHeight]string{
		pad(mark + " " + glyph),
		pad(" " + Label(t.Label, inner)),
		pad(" " + Label(detail, inner)),
	}
}

func pad(s string) string {
	return runewidth.FillRight(runewidth.Truncate(s, TileWidth, ""), TileWidth)
}
