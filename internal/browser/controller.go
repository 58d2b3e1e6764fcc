// Package browser is the file manager's UI controller. It owns the
// current path, the tile grid, the selection, the image viewer, the media
// overlays and the context menu, and reaches the outside world only
// through the collaborators in Deps, so any front end (or a test) can
// drive it with events.
package browser

import (
	"context"
	"sync"

	"quicktransfer/internal/api"
	"quicktransfer/internal/errors"
	"quicktransfer/internal/log"
)

// FileAPI is the file server as seen by the controller.
type FileAPI interface {
	List(ctx context.Context, path string) (*api.Listing, error)
	Upload(ctx context.Context, dir string, files []api.UploadFile) (*api.UploadResult, error)
	Delete(ctx context.Context, path string) (*api.DeleteResult, error)
	FileURL(path string) string
}

// Notifier shows a blocking message to the user.
type Notifier interface {
	Alert(msg string)
}

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(msg string) bool
}

// Downloader saves the file at url under filename.
type Downloader interface {
	TriggerDownload(url, filename string) error
}

// Opener shows url in a new browsing context.
type Opener interface {
	Open(url string) error
}

// Picker is the upload input; it is reset after every upload attempt.
type Picker interface {
	Reset()
}

// Deps are the controller's collaborators. API is required; the others
// fall back to implementations that only log.
type Deps struct {
	API        FileAPI
	Notifier   Notifier
	Confirmer  Confirmer
	Downloader Downloader
	Opener     Opener
	Picker     Picker
}

// ErrBusy is returned when an operation is requested while another one
// is waiting for the server.
var ErrBusy = errors.NewPrecondition("another operation is in progress")

// Controller holds the file manager state.
type Controller struct {
	deps     Deps
	handlers map[EventKind]handler

	mu            sync.Mutex
	path          string
	tiles         []Tile
	selection     []int
	images        []api.Entry
	viewer        ImageViewer
	overlays      []Overlay
	nextOverlayID int
	menu          ContextMenu
	busy          bool
}

// New creates a controller. Call List(ctx, "") to load the root.
func New(deps Deps) *Controller {
	if deps.Notifier == nil {
		deps.Notifier = logNotifier{}
	}
	if deps.Confirmer == nil {
		deps.Confirmer = refuseConfirmer{}
	}
	if deps.Downloader == nil {
		deps.Downloader = unsupported{}
	}
	if deps.Opener == nil {
		deps.Opener = unsupported{}
	}
	if deps.Picker == nil {
		deps.Picker = noopPicker{}
	}

	c := &Controller{
		deps:          deps,
		viewer:        ImageViewer{Index: -1},
		nextOverlayID: 1,
	}
	c.handlers = c.dispatchTable()
	return c
}

// State is a copy of the controller state for rendering.
type State struct {
	Path      string
	Tiles     []Tile
	Selection []int
	Images    []api.Entry
	Viewer    ImageViewer
	Overlays  []Overlay
	Menu      ContextMenu
	Busy      bool
	View      ViewState
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return State{
		Path:      c.path,
		Tiles:     append([]Tile(nil), c.tiles...),
		Selection: append([]int(nil), c.selection...),
		Images:    append([]api.Entry(nil), c.images...),
		Viewer:    c.viewer,
		Overlays:  append([]Overlay(nil), c.overlays...),
		Menu:      c.menu,
		Busy:      c.busy,
		View:      c.viewStateLocked(),
	}
}

// CurrentPath returns the directory being browsed, "" for the root.
func (c *Controller) CurrentPath() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.path
}

// FileURL returns the URL of name inside the current directory.
func (c *Controller) FileURL(name string) string {
	return c.deps.API.FileURL(api.JoinPath(c.CurrentPath(), name))
}

// begin marks the controller busy. The caller must call end.
func (c *Controller) begin() error {
	c.mu.Lock()
	busy := c.busy
	c.busy = true
	c.mu.Unlock()

	if busy {
		c.alert("Please wait for the current operation to finish.")
		return ErrBusy
	}
	return nil
}

func (c *Controller) end() {
	c.mu.Lock()
	c.busy = false
	c.mu.Unlock()
}

// alert must be called without holding mu.
func (c *Controller) alert(msg string) {
	c.deps.Notifier.Alert(msg)
}

// refuse reports a precondition violation to the user and returns it.
func (c *Controller) refuse(msg string) error {
	c.alert(msg)
	return errors.NewPrecondition(msg)
}

type logNotifier struct{}

func (logNotifier) Alert(msg string) { log.Info("%s", msg) }

type refuseConfirmer struct{}

func (refuseConfirmer) Confirm(string) bool { return false }

type unsupported struct{}

func (unsupported) TriggerDownload(url, _ string) error {
	return errors.Newf("downloads are not supported here: %s", url)
}

func (unsupported) Open(url string) error {
	return errors.Newf("cannot open %s", url)
}

type noopPicker struct{}

func (noopPicker) Reset() {}
