package browser

import "sort"

// Region is where a click that missed every tile landed.
type Region int

const (
	RegionGrid    Region = iota // empty space around the tiles
	RegionToolbar               // toolbar buttons
	RegionMenu                  // the context menu
	RegionOther                 // anywhere else
)

// ContextMenu is the per-tile action menu.
type ContextMenu struct {
	Visible bool
	X, Y    int
}

// ClickTile selects the tile at index. Without modifier the selection
// becomes exactly that tile; with modifier the tile's membership is
// toggled and the rest of the selection is kept. The context menu closes.
func (c *Controller) ClickTile(index int, modifier bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.tileLocked(index); !ok {
		return
	}
	if modifier {
		c.toggleLocked(index)
	} else {
		c.clearSelectionLocked()
		c.selectLocked(index)
	}
	c.menu.Visible = false
}

// ClickOutside handles a click that hit no tile. Clicks outside the
// toolbar and the menu clear the selection; every click outside the menu
// closes it.
func (c *Controller) ClickOutside(region Region) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if region != RegionToolbar && region != RegionMenu {
		c.clearSelectionLocked()
	}
	if region != RegionMenu {
		c.menu.Visible = false
	}
}

// RightClick makes sure the tile at index is selected, replacing the
// selection if it was not, and opens the context menu at x, y.
func (c *Controller) RightClick(index, x, y int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	tile, ok := c.tileLocked(index)
	if !ok {
		return
	}
	if !tile.Selected {
		c.clearSelectionLocked()
		c.selectLocked(index)
	}
	c.menu = ContextMenu{Visible: true, X: x, Y: y}
}

// HideMenu closes the context menu, as scrolling and resizing do.
func (c *Controller) HideMenu() {
	c.mu.Lock()
	c.menu.Visible = false
	c.mu.Unlock()
}

// Selected returns the selected tiles in grid order.
func (c *Controller) Selected() []Tile {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selectedLocked()
}

// selectionIn returns the selected tiles together with the folder they
// were listed from.
func (c *Controller) selectionIn() ([]Tile, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selectedLocked(), c.path
}

func (c *Controller) selectedLocked() []Tile {
	indices := append([]int(nil), c.selection...)
	sort.Ints(indices)
	tiles := make([]Tile, 0, len(indices))
	for _, i := range indices {
		tiles = append(tiles, c.tiles[i])
	}
	return tiles
}

func (c *Controller) clearSelectionLocked() {
	for _, i := range c.selection {
		c.tiles[i].Selected = false
	}
	c.selection = nil
}

func (c *Controller) selectLocked(index int) {
	c.tiles[index].Selected = true
	c.selection = append(c.selection, index)
}

func (c *Controller) toggleLocked(index int) {
	if !c.tiles[index].Selected {
		c.selectLocked(index)
		return
	}
	c.tiles[index].Selected = false
	for i, s := range c.selection {
		if s == index {
			c.selection = append(c.selection[:i], c.selection[i+1:]...)
			break
		}
	}
}
