package tui

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"quicktransfer/internal/api"
	"quicktransfer/internal/browser"
	"quicktransfer/internal/log"

	desktop "github.com/pkg/browser"
)

// Fetcher saves a file URL locally. *api.Client implements it.
type Fetcher interface {
	DownloadTo(ctx context.Context, fileURL, filename, destDir string, progress io.Writer) (string, error)
}

// Downloads implements browser.Downloader by saving into a local folder.
type Downloads struct {
	fetch  Fetcher
	dir    string
	status func(string)
}

func NewDownloads(fetch Fetcher, dir string, status func(string)) *Downloads {
	return &Downloads{fetch: fetch, dir: dir, status: status}
}

// TriggerDownload saves url as filename in the download folder.
func (d *Downloads) TriggerDownload(url, filename string) error {
	path, err := d.fetch.DownloadTo(context.Background(), url, filename, d.dir, nil)
	if err != nil {
		return err
	}
	log.Info("downloaded %s to %s", filename, path)
	if d.status != nil {
		d.status(fmt.Sprintf("Saved %s", path))
	}
	return nil
}

// CacheDir is where files opened outside the terminal are fetched to.
func CacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "quicktransfer")
	}
	return filepath.Join(os.TempDir(), "quicktransfer")
}

// SystemOpener implements browser.Opener. The file is fetched with the
// client's session first, then handed to the desktop's default
// application.
type SystemOpener struct {
	fetch    Fetcher
	cacheDir string
	open     func(path string) error
}

func NewSystemOpener(fetch Fetcher, cacheDir string) *SystemOpener {
	return &SystemOpener{fetch: fetch, cacheDir: cacheDir, open: desktop.OpenFile}
}

func (o *SystemOpener) Open(url string) error {
	path, err := o.fetch.DownloadTo(context.Background(), url, "", o.cacheDir, nil)
	if err != nil {
		return err
	}
	return o.open(path)
}

// MediaPlayer plays the file of a media overlay. Play blocks while an
// external player runs and reports whether the overlay is finished.
type MediaPlayer interface {
	Play(ctx context.Context, ov browser.Overlay) (finished bool, err error)
}

// ExternalPlayer runs the configured player command on a local copy of
// the file, or hands it to the system handler when no command is set.
type ExternalPlayer struct {
	fetch    Fetcher
	command  string
	cacheDir string
	open     func(path string) error
}

func NewExternalPlayer(fetch Fetcher, command, cacheDir string) *ExternalPlayer {
	return &ExternalPlayer{fetch: fetch, command: command, cacheDir: cacheDir, open: desktop.OpenFile}
}

func (p *ExternalPlayer) Play(ctx context.Context, ov browser.Overlay) (bool, error) {
	path, err := p.fetch.DownloadTo(ctx, ov.Src, ov.Title, p.cacheDir, nil)
	if err != nil {
		return false, err
	}

	if p.command == "" {
		return false, p.open(path)
	}

	cmd := exec.CommandContext(ctx, p.command, path)
	if err := cmd.Run(); err != nil && ctx.Err() == nil {
		return true, fmt.Errorf("%s: %w", p.command, err)
	}
	return true, nil
}

var _ browser.Downloader = (*Downloads)(nil)
var _ browser.Opener = (*SystemOpener)(nil)
var _ Fetcher = (*api.Client)(nil)
