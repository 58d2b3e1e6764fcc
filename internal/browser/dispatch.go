package browser

import (
	"context"
	"fmt"

	"quicktransfer/internal/api"
)

// ViewState is the mode the UI is in, derived from the controller state.
type ViewState int

const (
	Idle ViewState = iota
	Selecting
	ContextMenuOpen
	ViewingImage
	PlayingMedia
)

func (v ViewState) String() string {
	switch v {
	case Idle:
		return "idle"
	case Selecting:
		return "selecting"
	case ContextMenuOpen:
		return "context-menu"
	case ViewingImage:
		return "viewing-image"
	case PlayingMedia:
		return "playing-media"
	}
	return fmt.Sprintf("ViewState(%d)", int(v))
}

// viewStateLocked picks the topmost mode: the image viewer covers
// everything, then media overlays, then the context menu.
func (c *Controller) viewStateLocked() ViewState {
	switch {
	case c.viewer.Visible:
		return ViewingImage
	case len(c.overlays) > 0:
		return PlayingMedia
	case c.menu.Visible:
		return ContextMenuOpen
	case len(c.selection) > 0:
		return Selecting
	}
	return Idle
}

// ViewState returns the current mode.
func (c *Controller) ViewState() ViewState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewStateLocked()
}

// Key is a keyboard key the controller reacts to.
type Key int

const (
	KeyOther Key = iota
	KeyLeft
	KeyRight
	KeyEscape
)

// EventKind identifies a user action.
type EventKind int

const (
	EventClickTile EventKind = iota
	EventClickOutside
	EventDoubleClick
	EventRightClick
	EventKey
	EventScroll
	EventResize
	EventNavigate
	EventUp
	EventRefresh
	EventUpload
	EventDownloadSelected
	EventDeleteOne
	EventDeleteSelected
	EventContextDownload
	EventContextDelete
	EventNextImage
	EventPrevImage
	EventCloseImage
	EventCloseOverlay
)

// Async reports whether handling the event may wait on the server or on
// the user, so front ends should not run it on their UI goroutine.
func (k EventKind) Async() bool {
	switch k {
	case EventDoubleClick, EventNavigate, EventUp, EventRefresh, EventUpload,
		EventDownloadSelected, EventDeleteOne, EventDeleteSelected,
		EventContextDownload, EventContextDelete:
		return true
	}
	return false
}

// Event is one user action. Only the fields relevant to Kind are read.
type Event struct {
	Kind      EventKind
	Index     int  // tile index
	Modifier  bool // ctrl/cmd held
	Region    Region
	X, Y      int
	Key       Key
	Path      string
	Files     []api.UploadFile
	OverlayID int
}

type handler func(ctx context.Context, ev Event) error

func (c *Controller) dispatchTable() map[EventKind]handler {
	immediate := func(f func(Event)) handler {
		return func(_ context.Context, ev Event) error {
			f(ev)
			return nil
		}
	}

	return map[EventKind]handler{
		EventClickTile:    immediate(func(ev Event) { c.ClickTile(ev.Index, ev.Modifier) }),
		EventClickOutside: immediate(func(ev Event) { c.ClickOutside(ev.Region) }),
		EventRightClick:   immediate(func(ev Event) { c.RightClick(ev.Index, ev.X, ev.Y) }),
		EventKey:          immediate(func(ev Event) { c.HandleKey(ev.Key) }),
		EventScroll:       immediate(func(Event) { c.HideMenu() }),
		EventResize:       immediate(func(Event) { c.HideMenu() }),
		EventNextImage:    immediate(func(Event) { c.NextImage() }),
		EventPrevImage:    immediate(func(Event) { c.PrevImage() }),
		EventCloseImage:   immediate(func(Event) { c.CloseImage() }),
		EventCloseOverlay: immediate(func(ev Event) { c.CloseOverlay(ev.OverlayID) }),

		EventDoubleClick: func(ctx context.Context, ev Event) error { return c.DoubleClick(ctx, ev.Index) },
		EventNavigate:    func(ctx context.Context, ev Event) error { return c.Navigate(ctx, ev.Path) },
		EventUp:          func(ctx context.Context, _ Event) error { return c.Up(ctx) },
		EventRefresh:     func(ctx context.Context, _ Event) error { return c.Refresh(ctx) },
		EventUpload:      func(ctx context.Context, ev Event) error { return c.Upload(ctx, ev.Files) },

		EventDownloadSelected: func(ctx context.Context, _ Event) error { return c.DownloadSelected(ctx) },
		EventDeleteOne:        func(ctx context.Context, _ Event) error { return c.DeleteOne(ctx) },
		EventDeleteSelected:   func(ctx context.Context, _ Event) error { return c.DeleteSelected(ctx) },
		EventContextDownload:  c.contextAction(c.ContextDownload),
		EventContextDelete:    c.contextAction(c.DeleteOne),
	}
}

// contextAction hides the menu before running a context menu entry.
func (c *Controller) contextAction(action func(context.Context) error) handler {
	return func(ctx context.Context, _ Event) error {
		c.HideMenu()
		return action(ctx)
	}
}

// Dispatch routes ev to its handler.
func (c *Controller) Dispatch(ctx context.Context, ev Event) error {
	h, ok := c.handlers[ev.Kind]
	if !ok {
		return fmt.Errorf("unknown event kind %d", ev.Kind)
	}
	return h(ctx, ev)
}

// HandleKey applies a key press. While the image viewer is open Left and
// Right navigate and Escape closes it. Otherwise Escape closes the newest
// media overlay, then the context menu; arrow keys are ignored.
func (c *Controller) HandleKey(k Key) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.viewer.Visible {
		switch k {
		case KeyLeft:
			if c.viewer.Index > 0 {
				c.openImageLocked(c.viewer.Index - 1)
			}
		case KeyRight:
			if c.viewer.Index < len(c.images)-1 {
				c.openImageLocked(c.viewer.Index + 1)
			}
		case KeyEscape:
			c.viewer = ImageViewer{Index: -1}
		}
		return
	}

	if k != KeyEscape {
		return
	}
	if c.closeNewestOverlayLocked() {
		return
	}
	c.menu.Visible = false
}
