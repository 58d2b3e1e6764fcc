package browser

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"quicktransfer/internal/api"
	"quicktransfer/internal/errors"
	"quicktransfer/internal/filetype"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI serves listings from a map and records every call.
type fakeAPI struct {
	mu       sync.Mutex
	dirs     map[string][]api.Entry
	listErr  error
	uploads  [][]string
	uploadTo []string
	saved    []string
	upErr    error
	deletes  []string
	failOn   map[string]error
	listed   []string
	onDelete func()
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{dirs: map[string][]api.Entry{}, failOn: map[string]error{}}
}

func (f *fakeAPI) List(_ context.Context, path string) (*api.Listing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listed = append(f.listed, path)
	if f.listErr != nil {
		return nil, f.listErr
	}
	items, ok := f.dirs[path]
	if !ok {
		return nil, errors.NewHTTPError("list failed", http.StatusNotFound, "")
	}
	return &api.Listing{Path: path, Items: items}, nil
}

func (f *fakeAPI) Upload(_ context.Context, dir string, files []api.UploadFile) (*api.UploadResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var names []string
	for _, file := range files {
		io.Copy(io.Discard, file.Body)
		names = append(names, file.Name)
	}
	f.uploads = append(f.uploads, names)
	f.uploadTo = append(f.uploadTo, dir)
	if f.upErr != nil {
		return nil, f.upErr
	}
	saved := f.saved
	if saved == nil {
		saved = names
	}
	return &api.UploadResult{Success: true, Saved: saved}, nil
}

func (f *fakeAPI) Delete(_ context.Context, path string) (*api.DeleteResult, error) {
	f.mu.Lock()
	f.deletes = append(f.deletes, path)
	err := f.failOn[path]
	hook := f.onDelete
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
	if err != nil {
		return nil, err
	}
	return &api.DeleteResult{Status: "success", Message: "moved"}, nil
}

func (f *fakeAPI) FileURL(path string) string {
	return "http://files/" + path
}

type fakeUI struct {
	mu        sync.Mutex
	alerts    []string
	confirms  []string
	answer    bool
	downloads [][2]string
	opened    []string
	resets    int
	dlErr     error
	onConfirm func()
}

func (u *fakeUI) Alert(msg string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.alerts = append(u.alerts, msg)
}

func (u *fakeUI) Confirm(msg string) bool {
	u.mu.Lock()
	u.confirms = append(u.confirms, msg)
	hook, answer := u.onConfirm, u.answer
	u.mu.Unlock()
	if hook != nil {
		hook()
	}
	return answer
}

func (u *fakeUI) TriggerDownload(url, filename string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.downloads = append(u.downloads, [2]string{url, filename})
	return u.dlErr
}

func (u *fakeUI) Open(url string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.opened = append(u.opened, url)
	return nil
}

func (u *fakeUI) Reset() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.resets++
}

func (u *fakeUI) lastAlert() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	if len(u.alerts) == 0 {
		return ""
	}
	return u.alerts[len(u.alerts)-1]
}

func entry(name string, t filetype.Type) api.Entry {
	return api.Entry{Name: name, Type: t}
}

var rootItems = []api.Entry{
	entry("docs", filetype.Dir),
	entry("a.jpg", filetype.Image),
	entry("notes.pdf", filetype.Document),
	entry("b.png", filetype.Image),
	entry("clip.mp4", filetype.Video),
	entry("song.mp3", filetype.Audio),
	entry("backup.zip", filetype.Archive),
	entry("c.gif", filetype.Image),
	entry("weird", filetype.Type("hologram")),
}

func setup(t *testing.T) (*Controller, *fakeAPI, *fakeUI) {
	t.Helper()
	fa := newFakeAPI()
	fa.dirs[""] = rootItems
	fa.dirs["docs"] = []api.Entry{entry("inner.txt", filetype.Document), entry("pic.jpg", filetype.Image)}
	ui := &fakeUI{answer: true}
	c := New(Deps{API: fa, Notifier: ui, Confirmer: ui, Downloader: ui, Opener: ui, Picker: ui})
	require.NoError(t, c.List(context.Background(), ""))
	return c, fa, ui
}

func indexOf(t *testing.T, c *Controller, name string) int {
	t.Helper()
	for _, tile := range c.Snapshot().Tiles {
		if tile.Entry.Name == name {
			return tile.Index
		}
	}
	t.Fatalf("no tile named %s", name)
	return -1
}

func selectedNames(c *Controller) []string {
	var names []string
	for _, t := range c.Selected() {
		names = append(names, t.Entry.Name)
	}
	return names
}

func TestRenderBuildsOneTilePerEntry(t *testing.T) {
	c, _, _ := setup(t)
	st := c.Snapshot()

	require.Len(t, st.Tiles, len(rootItems))
	for i, tile := range st.Tiles {
		assert.Equal(t, rootItems[i].Type, tile.Type())
		assert.Equal(t, i, tile.Index)
		assert.Equal(t, rootItems[i].Name, tile.Label)
		assert.Equal(t, rootItems[i].Name, tile.Tooltip)
	}

	byName := map[string]Tile{}
	for _, tile := range st.Tiles {
		byName[tile.Entry.Name] = tile
	}
	assert.Equal(t, "http://files/a.jpg", byName["a.jpg"].Thumbnail)
	assert.Empty(t, byName["a.jpg"].Glyph)
	assert.Equal(t, "📁", byName["docs"].Glyph)
	assert.Equal(t, "📦", byName["backup.zip"].Glyph)
	assert.Equal(t, filetype.FallbackGlyph, byName["weird"].Glyph)
	assert.Empty(t, byName["docs"].Thumbnail)
}

func TestImageSequenceIsFilteredListing(t *testing.T) {
	c, _, _ := setup(t)

	var want []api.Entry
	for _, e := range rootItems {
		if e.Type == filetype.Image {
			want = append(want, e)
		}
	}
	assert.Equal(t, want, c.Snapshot().Images)

	c.Render([]api.Entry{entry("x.txt", filetype.Document)})
	assert.Empty(t, c.Snapshot().Images)
}

func TestRenderResetsSelectionAndMenu(t *testing.T) {
	c, _, _ := setup(t)
	c.RightClick(1, 10, 20)
	require.Equal(t, ContextMenuOpen, c.ViewState())

	c.Render(rootItems)
	st := c.Snapshot()
	assert.Empty(t, st.Selection)
	assert.False(t, st.Menu.Visible)
	for _, tile := range st.Tiles {
		assert.False(t, tile.Selected)
	}
	assert.Equal(t, Idle, st.View)
}

func TestListFailureKeepsPath(t *testing.T) {
	c, fa, ui := setup(t)

	err := c.Navigate(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, "", c.CurrentPath())
	assert.Equal(t, "Error fetching files: list failed: status 404", ui.lastAlert())
	assert.Equal(t, 1, strings.Count(strings.ToLower(ui.lastAlert()), "fetching files"))
	assert.Len(t, c.Snapshot().Tiles, len(rootItems))

	fa.listErr = errors.NewNetworkError("list", io.ErrUnexpectedEOF)
	require.Error(t, c.Refresh(context.Background()))
	assert.Contains(t, ui.lastAlert(), "Error fetching files")
}

func TestNavigation(t *testing.T) {
	c, fa, _ := setup(t)
	ctx := context.Background()

	require.NoError(t, c.DoubleClick(ctx, indexOf(t, c, "docs")))
	assert.Equal(t, "docs", c.CurrentPath())
	assert.Len(t, c.Snapshot().Tiles, 2)
	assert.Equal(t, "http://files/docs/pic.jpg", c.Snapshot().Tiles[1].Thumbnail)

	require.NoError(t, c.Up(ctx))
	assert.Equal(t, "", c.CurrentPath())

	calls := len(fa.listed)
	require.NoError(t, c.Up(ctx))
	assert.Len(t, fa.listed, calls, "Up at the root does not list")
}

func TestPlainAndModifierClicks(t *testing.T) {
	c, _, _ := setup(t)
	a, b, d := indexOf(t, c, "a.jpg"), indexOf(t, c, "b.png"), indexOf(t, c, "notes.pdf")

	c.ClickTile(a, false)
	c.ClickTile(b, false)
	assert.Equal(t, []string{"b.png"}, selectedNames(c))

	c.ClickTile(d, true)
	assert.Equal(t, []string{"notes.pdf", "b.png"}, selectedNames(c))

	c.ClickTile(b, true)
	assert.Equal(t, []string{"notes.pdf"}, selectedNames(c))

	st := c.Snapshot()
	for _, tile := range st.Tiles {
		inSet := false
		for _, i := range st.Selection {
			inSet = inSet || i == tile.Index
		}
		assert.Equal(t, inSet, tile.Selected, tile.Entry.Name)
	}
	assert.Equal(t, Selecting, st.View)

	c.ClickTile(999, false)
	assert.Equal(t, []string{"notes.pdf"}, selectedNames(c), "clicks on missing tiles are ignored")
}

func TestClickOutside(t *testing.T) {
	tests := []struct {
		region    Region
		keepsSel  bool
		keepsMenu bool
	}{
		{RegionGrid, false, false},
		{RegionOther, false, false},
		{RegionToolbar, true, false},
		{RegionMenu, true, true},
	}
	for _, tt := range tests {
		c, _, _ := setup(t)
		c.RightClick(indexOf(t, c, "a.jpg"), 3, 4)
		c.ClickOutside(tt.region)

		st := c.Snapshot()
		assert.Equal(t, tt.keepsSel, len(st.Selection) == 1, "region %d selection", tt.region)
		assert.Equal(t, tt.keepsMenu, st.Menu.Visible, "region %d menu", tt.region)
	}
}

func TestRightClick(t *testing.T) {
	c, _, _ := setup(t)
	a, b := indexOf(t, c, "a.jpg"), indexOf(t, c, "b.png")

	c.ClickTile(a, false)
	c.ClickTile(b, true)
	c.RightClick(b, 50, 60)
	assert.Equal(t, []string{"a.jpg", "b.png"}, selectedNames(c), "already selected tile keeps the selection")
	assert.Equal(t, ContextMenu{Visible: true, X: 50, Y: 60}, c.Snapshot().Menu)

	c.RightClick(indexOf(t, c, "docs"), 1, 2)
	assert.Equal(t, []string{"docs"}, selectedNames(c))

	c.ClickTile(a, false)
	assert.False(t, c.Snapshot().Menu.Visible, "tile clicks close the menu")

	c.RightClick(a, 1, 1)
	require.NoError(t, c.Dispatch(context.Background(), Event{Kind: EventScroll}))
	assert.False(t, c.Snapshot().Menu.Visible)
	c.RightClick(a, 1, 1)
	require.NoError(t, c.Dispatch(context.Background(), Event{Kind: EventResize}))
	assert.False(t, c.Snapshot().Menu.Visible)
}

func TestImageViewer(t *testing.T) {
	c, _, _ := setup(t)
	before := c.Snapshot().Viewer
	assert.Equal(t, ImageViewer{Index: -1}, before)

	for _, i := range []int{-1, 3, 100} {
		c.OpenImage(i)
		assert.Equal(t, before, c.Snapshot().Viewer, "index %d", i)
	}

	c.OpenImage(1)
	v := c.Snapshot().Viewer
	assert.Equal(t, ImageViewer{Visible: true, Index: 1, Src: "http://files/b.png", Alt: "b.png"}, v)
	assert.Equal(t, ViewingImage, c.ViewState())

	for i := 0; i < 10; i++ {
		c.NextImage()
	}
	assert.Equal(t, 2, c.Snapshot().Viewer.Index)

	for i := 0; i < 10; i++ {
		c.PrevImage()
	}
	assert.Equal(t, 0, c.Snapshot().Viewer.Index)

	c.CloseImage()
	assert.Equal(t, ImageViewer{Index: -1}, c.Snapshot().Viewer)

	c.NextImage()
	assert.False(t, c.Snapshot().Viewer.Visible, "navigation does not reopen a closed viewer")
}

func TestViewerConvergesFromEveryIndex(t *testing.T) {
	c, _, _ := setup(t)
	n := len(c.Snapshot().Images)
	for start := 0; start < n; start++ {
		c.OpenImage(start)
		for i := 0; i < n+2; i++ {
			c.HandleKey(KeyRight)
		}
		assert.Equal(t, n-1, c.Snapshot().Viewer.Index)
		for i := 0; i < n+2; i++ {
			c.HandleKey(KeyLeft)
		}
		assert.Equal(t, 0, c.Snapshot().Viewer.Index)
	}
}

func TestDoubleClickImageOpensViewerAtSequenceIndex(t *testing.T) {
	c, _, _ := setup(t)
	require.NoError(t, c.DoubleClick(context.Background(), indexOf(t, c, "c.gif")))
	v := c.Snapshot().Viewer
	assert.True(t, v.Visible)
	assert.Equal(t, 2, v.Index)
	assert.Equal(t, "c.gif", v.Alt)
}

func TestKeysWhileViewerHidden(t *testing.T) {
	c, _, _ := setup(t)
	c.ClickTile(0, false)
	before := c.Snapshot()

	c.HandleKey(KeyLeft)
	c.HandleKey(KeyRight)
	c.HandleKey(KeyOther)
	assert.Equal(t, before, c.Snapshot())
}

func TestOverlaysStackAndEscapeClosesNewest(t *testing.T) {
	c, _, _ := setup(t)
	ctx := context.Background()

	require.NoError(t, c.DoubleClick(ctx, indexOf(t, c, "clip.mp4")))
	require.NoError(t, c.DoubleClick(ctx, indexOf(t, c, "song.mp3")))
	st := c.Snapshot()
	require.Len(t, st.Overlays, 2)
	assert.Equal(t, PlayingMedia, st.View)
	assert.Equal(t, filetype.Video, st.Overlays[0].Kind)
	assert.Equal(t, "http://files/clip.mp4", st.Overlays[0].Src)
	assert.True(t, st.Overlays[0].Autoplay)
	assert.True(t, st.Overlays[0].Controls)
	assert.NotEqual(t, st.Overlays[0].ID, st.Overlays[1].ID)

	c.HandleKey(KeyEscape)
	st = c.Snapshot()
	require.Len(t, st.Overlays, 1)
	assert.Equal(t, filetype.Video, st.Overlays[0].Kind)

	c.CloseOverlay(st.Overlays[0].ID)
	assert.Empty(t, c.Snapshot().Overlays)
	c.CloseOverlay(12345)
}

func TestDoubleClickDispatchByType(t *testing.T) {
	c, _, ui := setup(t)
	ctx := context.Background()

	require.NoError(t, c.DoubleClick(ctx, indexOf(t, c, "backup.zip")))
	assert.Equal(t, [][2]string{{"http://files/backup.zip", "backup.zip"}}, ui.downloads)

	require.NoError(t, c.DoubleClick(ctx, indexOf(t, c, "notes.pdf")))
	assert.Equal(t, []string{"http://files/notes.pdf"}, ui.opened)

	require.NoError(t, c.DoubleClick(ctx, indexOf(t, c, "weird")))
	assert.Len(t, ui.downloads, 1)
	assert.Len(t, ui.opened, 1)

	require.NoError(t, c.DoubleClick(ctx, 999))
}

func TestUploadSendsAllFilesInOneRequest(t *testing.T) {
	c, fa, ui := setup(t)
	fa.saved = []string{"one.txt", "two (1).txt", "three.txt"}
	listed := len(fa.listed)

	files := []api.UploadFile{
		{Name: "one.txt", Body: strings.NewReader("1")},
		{Name: "two.txt", Body: strings.NewReader("2")},
		{Name: "three.txt", Body: strings.NewReader("3")},
	}
	require.NoError(t, c.Upload(context.Background(), files))

	require.Len(t, fa.uploads, 1)
	assert.Equal(t, []string{"one.txt", "two.txt", "three.txt"}, fa.uploads[0])
	assert.Equal(t, "", fa.uploadTo[0])
	assert.Equal(t, "Uploaded: one.txt, two (1).txt, three.txt", ui.lastAlert())
	assert.Len(t, fa.listed, listed+1, "listing refreshed")
	assert.Equal(t, 1, ui.resets)
}

func TestUploadTargetsCurrentDirectory(t *testing.T) {
	c, fa, _ := setup(t)
	require.NoError(t, c.Navigate(context.Background(), "docs"))
	require.NoError(t, c.Upload(context.Background(), []api.UploadFile{{Name: "x", Body: strings.NewReader("x")}}))
	assert.Equal(t, []string{"docs"}, fa.uploadTo)
}

func TestUploadFailures(t *testing.T) {
	t.Run("server message", func(t *testing.T) {
		c, fa, ui := setup(t)
		fa.upErr = errors.NewHTTPError("upload failed", http.StatusBadRequest, "No files uploaded")
		listed := len(fa.listed)

		require.Error(t, c.Upload(context.Background(), []api.UploadFile{{Name: "x", Body: strings.NewReader("x")}}))
		assert.Equal(t, "Upload failed: No files uploaded", ui.lastAlert())
		assert.Len(t, fa.listed, listed)
		assert.Equal(t, 1, ui.resets)
	})

	t.Run("network", func(t *testing.T) {
		c, fa, ui := setup(t)
		fa.upErr = errors.NewNetworkError("network error", io.ErrUnexpectedEOF)

		require.Error(t, c.Upload(context.Background(), []api.UploadFile{{Name: "x", Body: strings.NewReader("x")}}))
		assert.Contains(t, ui.lastAlert(), "Network error")
		assert.Equal(t, 1, ui.resets)
	})

	t.Run("empty is a no-op", func(t *testing.T) {
		c, fa, ui := setup(t)
		require.NoError(t, c.Upload(context.Background(), nil))
		assert.Empty(t, fa.uploads)
		assert.Empty(t, ui.alerts)
	})
}

func TestDownloadSelected(t *testing.T) {
	c, _, ui := setup(t)
	ctx := context.Background()

	err := c.DownloadSelected(ctx)
	assert.True(t, errors.IsPrecondition(err))
	assert.Contains(t, ui.lastAlert(), "No files selected")

	c.ClickTile(indexOf(t, c, "backup.zip"), false)
	c.ClickTile(indexOf(t, c, "docs"), true)
	c.ClickTile(indexOf(t, c, "a.jpg"), true)
	require.NoError(t, c.DownloadSelected(ctx))
	assert.Equal(t, [][2]string{
		{"http://files/a.jpg", "a.jpg"},
		{"http://files/backup.zip", "backup.zip"},
	}, ui.downloads)
}

func TestContextDownload(t *testing.T) {
	c, _, ui := setup(t)
	ctx := context.Background()

	assert.True(t, errors.IsPrecondition(c.ContextDownload(ctx)))

	c.RightClick(indexOf(t, c, "docs"), 0, 0)
	assert.True(t, errors.IsPrecondition(c.ContextDownload(ctx)))
	assert.Equal(t, "Cannot download a folder.", ui.lastAlert())

	c.RightClick(indexOf(t, c, "notes.pdf"), 0, 0)
	require.NoError(t, c.Dispatch(ctx, Event{Kind: EventContextDownload}))
	assert.Equal(t, [][2]string{{"http://files/notes.pdf", "notes.pdf"}}, ui.downloads)
	assert.False(t, c.Snapshot().Menu.Visible)
}

func TestDownloadFailureIsReported(t *testing.T) {
	c, _, ui := setup(t)
	ui.dlErr = io.ErrClosedPipe
	require.Error(t, c.DownloadFile(context.Background(), "backup.zip"))
	assert.Contains(t, ui.lastAlert(), "backup.zip")
}

func TestDeleteOne(t *testing.T) {
	ctx := context.Background()

	t.Run("requires exactly one", func(t *testing.T) {
		c, fa, _ := setup(t)
		assert.True(t, errors.IsPrecondition(c.DeleteOne(ctx)))
		c.ClickTile(indexOf(t, c, "a.jpg"), false)
		c.ClickTile(indexOf(t, c, "b.png"), true)
		assert.True(t, errors.IsPrecondition(c.DeleteOne(ctx)))
		assert.Empty(t, fa.deletes)
	})

	t.Run("refuses folders", func(t *testing.T) {
		c, fa, ui := setup(t)
		c.ClickTile(indexOf(t, c, "docs"), false)
		assert.True(t, errors.IsPrecondition(c.DeleteOne(ctx)))
		assert.Empty(t, fa.deletes)
		assert.Empty(t, ui.confirms)
	})

	t.Run("cancelled", func(t *testing.T) {
		c, fa, ui := setup(t)
		ui.answer = false
		c.ClickTile(indexOf(t, c, "a.jpg"), false)
		require.NoError(t, c.DeleteOne(ctx))
		assert.Len(t, ui.confirms, 1)
		assert.Empty(t, fa.deletes)
	})

	t.Run("deletes and refreshes", func(t *testing.T) {
		c, fa, ui := setup(t)
		require.NoError(t, c.Navigate(ctx, "docs"))
		listed := len(fa.listed)
		c.RightClick(indexOf(t, c, "inner.txt"), 0, 0)
		require.NoError(t, c.Dispatch(ctx, Event{Kind: EventContextDelete}))
		assert.Equal(t, []string{"docs/inner.txt"}, fa.deletes)
		assert.Contains(t, ui.confirms[0], "inner.txt")
		assert.Len(t, fa.listed, listed+1)
	})

	t.Run("server error text", func(t *testing.T) {
		c, fa, ui := setup(t)
		fa.failOn["a.jpg"] = errors.NewHTTPError("delete failed", http.StatusNotFound, "Not found")
		c.ClickTile(indexOf(t, c, "a.jpg"), false)
		require.Error(t, c.DeleteOne(ctx))
		assert.Equal(t, "Could not delete the file: Not found", ui.lastAlert())

		fa.failOn["a.jpg"] = errors.NewHTTPError("delete failed", http.StatusInternalServerError, "")
		require.Error(t, c.DeleteOne(ctx))
		assert.Equal(t, "Could not delete the file: server error: 500", ui.lastAlert())
	})
}

func TestDeleteSelectedSkipsFolders(t *testing.T) {
	c, fa, ui := setup(t)
	ctx := context.Background()

	c.ClickTile(indexOf(t, c, "a.jpg"), false)
	c.ClickTile(indexOf(t, c, "docs"), true)
	c.ClickTile(indexOf(t, c, "backup.zip"), true)
	listed := len(fa.listed)

	require.NoError(t, c.DeleteSelected(ctx))
	assert.Equal(t, []string{"a.jpg", "backup.zip"}, fa.deletes)
	assert.Equal(t, []string{"Are you sure you want to delete 2 file(s)?"}, ui.confirms)
	assert.Equal(t, "Deleted 2 file(s).", ui.lastAlert())
	assert.Len(t, fa.listed, listed+1)
}

func TestDeleteSelectedStopsAtFirstFailure(t *testing.T) {
	c, fa, ui := setup(t)
	fa.failOn["b.png"] = errors.NewHTTPError("delete failed", http.StatusForbidden, "Access denied")

	for _, name := range []string{"a.jpg", "b.png", "c.gif"} {
		c.ClickTile(indexOf(t, c, name), true)
	}
	listed := len(fa.listed)

	err := c.DeleteSelected(context.Background())
	require.Error(t, err)
	assert.Equal(t, []string{"a.jpg", "b.png"}, fa.deletes, "no request after the failure")
	assert.Contains(t, ui.lastAlert(), "b.png")
	assert.Contains(t, ui.lastAlert(), "Access denied")
	assert.Contains(t, ui.lastAlert(), "1 of 3 deleted")
	assert.Len(t, fa.listed, listed, "no refresh after a failed batch")
}

func TestDeleteTargetsFolderShownWhenAsked(t *testing.T) {
	ctx := context.Background()
	deletes := map[string]func(*Controller) error{
		"one":      func(c *Controller) error { return c.DeleteOne(ctx) },
		"selected": func(c *Controller) error { return c.DeleteSelected(ctx) },
	}
	for name, del := range deletes {
		t.Run(name, func(t *testing.T) {
			fa := newFakeAPI()
			fa.dirs[""] = []api.Entry{entry("a.txt", filetype.Document), entry("sub", filetype.Dir)}
			fa.dirs["sub"] = []api.Entry{entry("a.txt", filetype.Document)}
			ui := &fakeUI{answer: true}
			c := New(Deps{API: fa, Notifier: ui, Confirmer: ui, Downloader: ui, Opener: ui, Picker: ui})
			require.NoError(t, c.List(ctx, ""))

			c.ClickTile(indexOf(t, c, "a.txt"), false)
			ui.onConfirm = func() {
				require.NoError(t, c.List(ctx, "sub"))
			}

			require.NoError(t, del(c))
			assert.Equal(t, []string{"a.txt"}, fa.deletes)
			assert.Equal(t, "sub", c.CurrentPath(), "refresh keeps the folder now shown")
		})
	}
}

func TestDeleteSelectedPreconditions(t *testing.T) {
	c, fa, ui := setup(t)
	ctx := context.Background()

	assert.True(t, errors.IsPrecondition(c.DeleteSelected(ctx)))

	c.ClickTile(indexOf(t, c, "docs"), false)
	assert.True(t, errors.IsPrecondition(c.DeleteSelected(ctx)))
	assert.Empty(t, ui.confirms)

	ui.answer = false
	c.ClickTile(indexOf(t, c, "a.jpg"), false)
	require.NoError(t, c.DeleteSelected(ctx))
	assert.Empty(t, fa.deletes)
}

func TestBusyGuardRejectsConcurrentOperations(t *testing.T) {
	c, fa, ui := setup(t)
	ctx := context.Background()
	c.ClickTile(indexOf(t, c, "a.jpg"), false)

	var inner error
	fa.onDelete = func() {
		assert.True(t, c.Snapshot().Busy)
		inner = c.Refresh(ctx)
	}
	require.NoError(t, c.DeleteOne(ctx))
	assert.ErrorIs(t, inner, ErrBusy)
	assert.Contains(t, ui.alerts, "Please wait for the current operation to finish.")
	assert.False(t, c.Snapshot().Busy)
}

func TestDispatch(t *testing.T) {
	c, _, _ := setup(t)
	ctx := context.Background()

	require.NoError(t, c.Dispatch(ctx, Event{Kind: EventClickTile, Index: 1}))
	require.NoError(t, c.Dispatch(ctx, Event{Kind: EventClickTile, Index: 3, Modifier: true}))
	assert.Equal(t, []string{"a.jpg", "b.png"}, selectedNames(c))

	require.NoError(t, c.Dispatch(ctx, Event{Kind: EventClickOutside, Region: RegionGrid}))
	assert.Empty(t, selectedNames(c))

	require.NoError(t, c.Dispatch(ctx, Event{Kind: EventDoubleClick, Index: 1}))
	require.NoError(t, c.Dispatch(ctx, Event{Kind: EventNextImage}))
	assert.Equal(t, 1, c.Snapshot().Viewer.Index)
	require.NoError(t, c.Dispatch(ctx, Event{Kind: EventPrevImage}))
	require.NoError(t, c.Dispatch(ctx, Event{Kind: EventKey, Key: KeyEscape}))
	assert.False(t, c.Snapshot().Viewer.Visible)

	require.NoError(t, c.Dispatch(ctx, Event{Kind: EventNavigate, Path: "docs"}))
	require.NoError(t, c.Dispatch(ctx, Event{Kind: EventUp}))
	assert.Equal(t, "", c.CurrentPath())

	assert.Error(t, c.Dispatch(ctx, Event{Kind: EventKind(999)}))

	assert.True(t, EventUpload.Async())
	assert.False(t, EventClickTile.Async())
	assert.Equal(t, "viewing-image", ViewingImage.String())
}

func TestDefaultsWithoutCollaborators(t *testing.T) {
	fa := newFakeAPI()
	fa.dirs[""] = rootItems
	c := New(Deps{API: fa})
	ctx := context.Background()
	require.NoError(t, c.List(ctx, ""))

	c.ClickTile(indexOf(t, c, "backup.zip"), false)
	assert.NoError(t, c.DeleteOne(ctx), "the default confirmer says no")
	assert.Empty(t, fa.deletes)
	assert.Error(t, c.DownloadSelected(ctx))
}
