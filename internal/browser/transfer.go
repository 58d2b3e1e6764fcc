package browser

import (
	"context"
	"fmt"
	"path"
	"strings"

	"quicktransfer/internal/api"
	"quicktransfer/internal/errors"
	"quicktransfer/internal/filetype"
	"quicktransfer/internal/log"
)

// Upload sends files to the current directory in a single request,
// reports the saved names and refreshes the listing. The picker is reset
// whatever the outcome. An empty list does nothing.
func (c *Controller) Upload(ctx context.Context, files []api.UploadFile) error {
	if len(files) == 0 {
		return nil
	}
	defer c.deps.Picker.Reset()

	if err := c.begin(); err != nil {
		return err
	}
	defer c.end()

	result, err := c.deps.API.Upload(ctx, c.CurrentPath(), files)
	if err != nil {
		var httpErr *errors.HTTPError
		if errors.As(err, &httpErr) {
			msg := httpErr.ServerMessage()
			if msg == "" {
				msg = fmt.Sprintf("status %d", httpErr.Status())
			}
			c.alert("Upload failed: " + msg)
		} else {
			c.alert(fmt.Sprintf("Network error: %v", err))
		}
		return err
	}

	c.alert("Uploaded: " + strings.Join(result.Saved, ", "))
	return c.load(ctx, c.CurrentPath())
}

// DownloadFile hands the file at full path to the downloader.
func (c *Controller) DownloadFile(ctx context.Context, full string) error {
	if err := c.begin(); err != nil {
		return err
	}
	defer c.end()
	return c.download(full)
}

func (c *Controller) download(full string) error {
	url := c.deps.API.FileURL(full)
	if err := c.deps.Downloader.TriggerDownload(url, path.Base(full)); err != nil {
		c.alert(fmt.Sprintf("Download of %s failed: %v", path.Base(full), err))
		return err
	}
	return nil
}

// DownloadSelected downloads every selected file, skipping folders.
func (c *Controller) DownloadSelected(ctx context.Context) error {
	selected, dir := c.selectionIn()
	if len(selected) == 0 {
		return c.refuse("No files selected for download.")
	}

	if err := c.begin(); err != nil {
		return err
	}
	defer c.end()

	for _, t := range selected {
		if t.Entry.IsDir() {
			continue
		}
		if err := c.download(api.JoinPath(dir, t.Entry.Name)); err != nil {
			return err
		}
	}
	return nil
}

// ContextDownload downloads the first selected tile, refusing folders.
func (c *Controller) ContextDownload(ctx context.Context) error {
	selected, dir := c.selectionIn()
	if len(selected) == 0 {
		return c.refuse("No file selected.")
	}
	if selected[0].Entry.IsDir() {
		return c.refuse("Cannot download a folder.")
	}
	return c.DownloadFile(ctx, api.JoinPath(dir, selected[0].Entry.Name))
}

// DeleteOne deletes the single selected file after confirmation and
// refreshes the listing. The path is fixed before asking, so a listing
// that lands while the prompt is open does not change what is deleted.
func (c *Controller) DeleteOne(ctx context.Context) error {
	selected, dir := c.selectionIn()
	switch {
	case len(selected) == 0:
		return c.refuse("No file selected for deletion.")
	case len(selected) > 1:
		return c.refuse("Select exactly one file to delete.")
	case selected[0].Entry.IsDir():
		return c.refuse("Folders cannot be deleted.")
	}

	name := selected[0].Entry.Name
	full := api.JoinPath(dir, name)
	if !c.deps.Confirmer.Confirm(fmt.Sprintf("Are you sure you want to delete %q?", name)) {
		return nil
	}

	if err := c.begin(); err != nil {
		return err
	}
	defer c.end()

	result, err := c.deps.API.Delete(ctx, full)
	if err != nil {
		c.alert("Could not delete the file: " + deleteErrorText(err))
		return err
	}
	log.Debugf("deleted %s: %s", full, result.Message)
	return c.load(ctx, c.CurrentPath())
}

// DeleteSelected deletes every selected file, one request at a time and
// in grid order, after a single confirmation. Folders are skipped. The
// first failure stops the batch; files deleted before it stay deleted and
// the listing is only refreshed when every delete succeeded.
func (c *Controller) DeleteSelected(ctx context.Context) error {
	selected, dir := c.selectionIn()
	if len(selected) == 0 {
		return c.refuse("No files selected for deletion.")
	}

	var files []Tile
	for _, t := range selected {
		if t.Type() != filetype.Dir {
			files = append(files, t)
		}
	}
	if len(files) == 0 {
		return c.refuse("Folders cannot be deleted.")
	}

	if !c.deps.Confirmer.Confirm(fmt.Sprintf("Are you sure you want to delete %d file(s)?", len(files))) {
		return nil
	}

	if err := c.begin(); err != nil {
		return err
	}
	defer c.end()

	for i, t := range files {
		if _, err := c.deps.API.Delete(ctx, api.JoinPath(dir, t.Entry.Name)); err != nil {
			c.alert(fmt.Sprintf("Error deleting %s: %s (%d of %d deleted before the error)",
				t.Entry.Name, deleteErrorText(err), i, len(files)))
			return err
		}
	}

	c.alert(fmt.Sprintf("Deleted %d file(s).", len(files)))
	return c.load(ctx, c.CurrentPath())
}

// deleteErrorText prefers the server's own text over the status.
func deleteErrorText(err error) string {
	var httpErr *errors.HTTPError
	if errors.As(err, &httpErr) {
		if msg := httpErr.ServerMessage(); msg != "" {
			return msg
		}
		return fmt.Sprintf("server error: %d", httpErr.Status())
	}
	return err.Error()
}
