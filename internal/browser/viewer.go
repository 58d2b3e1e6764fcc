package browser

import (
	"quicktransfer/internal/api"
	"quicktransfer/internal/filetype"
)

// ImageViewer is the single image overlay. Index is -1 while unset.
type ImageViewer struct {
	Visible bool
	Index   int
	Src     string
	Alt     string
}

// Overlay is a video or audio player. Any number may be open at once.
type Overlay struct {
	ID       int
	Kind     filetype.Type
	Src      string
	Title    string
	Autoplay bool
	Controls bool
}

// OpenImage shows image i of the image sequence. Out of range indices are
// ignored.
func (c *Controller) OpenImage(i int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.openImageLocked(i)
}

func (c *Controller) openImageLocked(i int) {
	if i < 0 || i >= len(c.images) {
		return
	}
	name := c.images[i].Name
	c.viewer = ImageViewer{
		Visible: true,
		Index:   i,
		Src:     c.deps.API.FileURL(api.JoinPath(c.path, name)),
		Alt:     name,
	}
}

// NextImage moves to the following image, stopping at the last one.
func (c *Controller) NextImage() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.viewer.Visible && c.viewer.Index < len(c.images)-1 {
		c.openImageLocked(c.viewer.Index + 1)
	}
}

// PrevImage moves to the preceding image, stopping at the first one.
func (c *Controller) PrevImage() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.viewer.Visible && c.viewer.Index > 0 {
		c.openImageLocked(c.viewer.Index - 1)
	}
}

// CloseImage hides the viewer and resets its source and index.
func (c *Controller) CloseImage() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.viewer = ImageViewer{Index: -1}
}

// OpenOverlay adds an autoplaying player with controls and returns its id.
func (c *Controller) OpenOverlay(kind filetype.Type, src, title string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextOverlayID
	c.nextOverlayID++
	c.overlays = append(c.overlays, Overlay{
		ID:       id,
		Kind:     kind,
		Src:      src,
		Title:    title,
		Autoplay: true,
		Controls: true,
	})
	return id
}

// CloseOverlay removes the overlay with the given id.
func (c *Controller) CloseOverlay(id int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, o := range c.overlays {
		if o.ID == id {
			c.overlays = append(c.overlays[:i], c.overlays[i+1:]...)
			return
		}
	}
}

// closeNewestOverlayLocked removes the most recently opened overlay.
func (c *Controller) closeNewestOverlayLocked() bool {
	if len(c.overlays) == 0 {
		return false
	}
	c.overlays = c.overlays[:len(c.overlays)-1]
	return true
}
