package browser

import (
	"context"
	"fmt"

	"quicktransfer/internal/api"
	"quicktransfer/internal/filetype"
)

// Tile is the rendered form of one listing entry.
type Tile struct {
	Entry     api.Entry
	Index     int
	Selected  bool
	Thumbnail string // file URL, images only
	Glyph     string // empty for images
	Label     string
	Tooltip   string
}

// Type returns the entry type of the tile.
func (t Tile) Type() filetype.Type {
	return t.Entry.Type
}

// List fetches path from the server and renders it. Current Path only
// changes when the listing succeeds.
func (c *Controller) List(ctx context.Context, path string) error {
	if err := c.begin(); err != nil {
		return err
	}
	defer c.end()
	return c.load(ctx, path)
}

// Navigate is List for a directory chosen by the user.
func (c *Controller) Navigate(ctx context.Context, path string) error {
	return c.List(ctx, path)
}

// Up lists the parent of the current directory. It does nothing at the
// root.
func (c *Controller) Up(ctx context.Context) error {
	path := c.CurrentPath()
	if path == "" {
		return nil
	}
	return c.List(ctx, api.ParentPath(path))
}

// Refresh lists the current directory again.
func (c *Controller) Refresh(ctx context.Context) error {
	return c.List(ctx, c.CurrentPath())
}

// load lists path while the controller is already marked busy.
func (c *Controller) load(ctx context.Context, path string) error {
	listing, err := c.deps.API.List(ctx, path)
	if err != nil {
		c.alert(fmt.Sprintf("Error fetching files: %v", err))
		return err
	}

	c.mu.Lock()
	c.path = listing.Path
	c.renderLocked(listing.Items)
	c.mu.Unlock()
	return nil
}

// Render replaces the grid with items. The selection is cleared, the
// context menu hidden and the image sequence rebuilt.
func (c *Controller) Render(items []api.Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.renderLocked(items)
}

func (c *Controller) renderLocked(items []api.Entry) {
	c.tiles = make([]Tile, len(items))
	c.selection = nil
	c.menu.Visible = false
	c.images = nil

	for i, entry := range items {
		tile := Tile{
			Entry:   entry,
			Index:   i,
			Label:   entry.Name,
			Tooltip: entry.Name,
		}
		if entry.Type == filetype.Image {
			tile.Thumbnail = c.deps.API.FileURL(api.JoinPath(c.path, entry.Name))
			c.images = append(c.images, entry)
		} else {
			tile.Glyph = filetype.Glyph(entry.Type)
		}
		c.tiles[i] = tile
	}
}

// tileLocked returns the tile at index, or false when out of range.
func (c *Controller) tileLocked(index int) (Tile, bool) {
	if index < 0 || index >= len(c.tiles) {
		return Tile{}, false
	}
	return c.tiles[index], true
}

// imageIndexLocked finds name in the image sequence.
func (c *Controller) imageIndexLocked(name string) int {
	for i, e := range c.images {
		if e.Name == name {
			return i
		}
	}
	return -1
}

// DoubleClick opens the tile at index according to its type: folders are
// entered, images open in the viewer, video and audio get a player
// overlay, documents open in a new browsing context and everything else
// is downloaded.
func (c *Controller) DoubleClick(ctx context.Context, index int) error {
	c.mu.Lock()
	tile, ok := c.tileLocked(index)
	if !ok {
		c.mu.Unlock()
		return nil
	}
	full := api.JoinPath(c.path, tile.Entry.Name)
	c.mu.Unlock()

	switch tile.Type() {
	case filetype.Dir:
		return c.Navigate(ctx, full)
	case filetype.Image:
		c.mu.Lock()
		i := c.imageIndexLocked(tile.Entry.Name)
		c.mu.Unlock()
		if i != -1 {
			c.OpenImage(i)
		}
		return nil
	case filetype.Video, filetype.Audio:
		c.OpenOverlay(tile.Type(), c.deps.API.FileURL(full), tile.Entry.Name)
		return nil
	case filetype.Archive, filetype.Code, filetype.File:
		return c.DownloadFile(ctx, full)
	case filetype.Document:
		if err := c.deps.Opener.Open(c.deps.API.FileURL(full)); err != nil {
			c.alert(fmt.Sprintf("Cannot open %s: %v", tile.Entry.Name, err))
			return err
		}
		return nil
	}
	return nil
}
