package tui

import (
	"quicktransfer/internal/browser"
	"quicktransfer/internal/tui/components"
	"quicktransfer/internal/tui/views"
	"quicktransfer/pkg/types"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch m.Mode() {
	case types.Confirm:
		return m.handleConfirmKey(msg)
	case types.Alert:
		switch msg.String() {
		case "enter", "esc", " ", "y", "n":
			m.alerts = m.alerts[1:]
		}
		return nil
	case types.Picker:
		return m.handlePickerKey(msg)
	}

	if msg.Paste {
		return m.upload(components.SplitPaths(string(msg.Runes)))
	}

	st := m.ctrl.Snapshot()
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.shutdown()
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return nil
	case key.Matches(msg, m.keys.Escape):
		if st.View == browser.Idle || st.View == browser.Selecting {
			return m.dispatch(browser.Event{Kind: browser.EventClickOutside, Region: browser.RegionOther})
		}
		return m.dispatch(browser.Event{Kind: browser.EventKey, Key: browser.KeyEscape})
	}

	if st.Viewer.Visible {
		switch {
		case key.Matches(msg, m.keys.Left):
			return m.dispatch(browser.Event{Kind: browser.EventKey, Key: browser.KeyLeft})
		case key.Matches(msg, m.keys.Right):
			return m.dispatch(browser.Event{Kind: browser.EventKey, Key: browser.KeyRight})
		case key.Matches(msg, m.keys.External):
			return m.openImageExternally(st.Viewer.Src)
		}
		return nil
	}

	if st.Menu.Visible {
		switch {
		case key.Matches(msg, m.keys.Download):
			return m.dispatch(browser.Event{Kind: browser.EventContextDownload})
		case key.Matches(msg, m.keys.Delete):
			return m.dispatch(browser.Event{Kind: browser.EventContextDelete})
		}
	}

	layout := views.GridLayout(m)
	switch {
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-layout.Cols, len(st.Tiles))
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(layout.Cols, len(st.Tiles))
	case key.Matches(msg, m.keys.Left):
		m.moveCursor(-1, len(st.Tiles))
	case key.Matches(msg, m.keys.Right):
		m.moveCursor(1, len(st.Tiles))
	case key.Matches(msg, m.keys.Open):
		return m.dispatch(browser.Event{Kind: browser.EventDoubleClick, Index: m.cursor})
	case key.Matches(msg, m.keys.Select):
		return m.dispatch(browser.Event{Kind: browser.EventClickTile, Index: m.cursor, Modifier: true})
	case key.Matches(msg, m.keys.SelectOnly):
		return m.dispatch(browser.Event{Kind: browser.EventClickTile, Index: m.cursor})
	case key.Matches(msg, m.keys.Menu):
		x, y := m.tilePosition(layout)
		return m.dispatch(browser.Event{Kind: browser.EventRightClick, Index: m.cursor, X: x, Y: y})
	case key.Matches(msg, m.keys.Parent):
		return m.dispatch(browser.Event{Kind: browser.EventUp})
	case key.Matches(msg, m.keys.Refresh):
		return m.dispatch(browser.Event{Kind: browser.EventRefresh})
	case key.Matches(msg, m.keys.Upload):
		return m.trigger(browser.EventUpload)
	case key.Matches(msg, m.keys.Download):
		return m.dispatch(browser.Event{Kind: browser.EventDownloadSelected})
	case key.Matches(msg, m.keys.DeleteSelected):
		return m.dispatch(browser.Event{Kind: browser.EventDeleteSelected})
	case key.Matches(msg, m.keys.Delete):
		return m.dispatch(browser.Event{Kind: browser.EventDeleteOne})
	}
	return nil
}

func (m *Model) handleConfirmKey(msg tea.KeyMsg) tea.Cmd {
	var answer bool
	switch {
	case key.Matches(msg, m.keys.Confirm):
		answer = true
	case key.Matches(msg, m.keys.Cancel):
		answer = false
	default:
		return nil
	}
	m.confirm.Reply <- answer
	m.confirm = nil
	return nil
}

func (m *Model) handlePickerKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter:
		return m.upload(m.picker.Paths())
	case tea.KeyEsc:
		m.picker.Reset()
		m.picking = false
		return nil
	}
	return m.picker.Update(msg)
}

func (m *Model) moveCursor(delta, count int) {
	if count == 0 {
		m.cursor = 0
		return
	}
	c := m.cursor + delta
	if c < 0 || c >= count {
		return
	}
	m.cursor = c
}

// tilePosition is the screen cell of the cursor tile.
func (m *Model) tilePosition(l components.Layout) (int, int) {
	row := m.cursor/l.Cols - l.FirstRow
	return (m.cursor % l.Cols) * components.TileWidth, l.Top + row*components.TileHeight
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if m.Mode() != types.Normal || msg.Action != tea.MouseActionPress {
		return nil
	}

	st := m.ctrl.Snapshot()
	layout := views.GridLayout(m)

	switch msg.Button {
	case tea.MouseButtonWheelUp, tea.MouseButtonWheelDown:
		delta := layout.Cols
		kind := browser.EventNextImage
		if msg.Button == tea.MouseButtonWheelUp {
			delta, kind = -delta, browser.EventPrevImage
		}
		if st.Viewer.Visible {
			return m.dispatch(browser.Event{Kind: kind})
		}
		m.moveCursor(delta, len(st.Tiles))
		return m.dispatch(browser.Event{Kind: browser.EventScroll})
	}

	if st.Viewer.Visible {
		return nil
	}

	if i, ok := layout.TileAt(msg.X, msg.Y, len(st.Tiles)); ok {
		m.cursor = i
		switch msg.Button {
		case tea.MouseButtonLeft:
			return m.clickTile(i, msg.Ctrl || msg.Alt || msg.Shift)
		case tea.MouseButtonRight:
			return m.dispatch(browser.Event{Kind: browser.EventRightClick, Index: i, X: msg.X, Y: msg.Y})
		}
		return nil
	}

	if msg.Button != tea.MouseButtonLeft {
		return nil
	}

	switch {
	case msg.Y == views.ToolbarRow:
		cmd := m.dispatch(browser.Event{Kind: browser.EventClickOutside, Region: browser.RegionToolbar})
		if btn, ok := components.ToolbarButtons.At(msg.X); ok {
			return m.trigger(btn.Kind)
		}
		return cmd
	case st.Menu.Visible && msg.Y == views.MenuRow(m):
		if btn, ok := components.MenuButtons.At(msg.X); ok {
			return m.dispatch(browser.Event{Kind: btn.Kind})
		}
		return m.dispatch(browser.Event{Kind: browser.EventClickOutside, Region: browser.RegionMenu})
	case layout.Contains(msg.Y):
		return m.dispatch(browser.Event{Kind: browser.EventClickOutside, Region: browser.RegionGrid})
	}
	return m.dispatch(browser.Event{Kind: browser.EventClickOutside, Region: browser.RegionOther})
}

// clickTile turns a second press on the same tile within the double-click
// interval into a double click.
func (m *Model) clickTile(i int, modifier bool) tea.Cmd {
	now := m.now()
	if m.lastClick.index == i && now.Sub(m.lastClick.at) <= doubleClickInterval {
		m.lastClick = click{index: -1}
		return m.dispatch(browser.Event{Kind: browser.EventDoubleClick, Index: i})
	}
	m.lastClick = click{index: i, at: now}
	return m.dispatch(browser.Event{Kind: browser.EventClickTile, Index: i, Modifier: modifier})
}
