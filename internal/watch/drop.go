// Package watch implements the drop folder: files that appear in a local
// directory are uploaded to the server, one at a time, and then moved
// aside so they are not sent twice.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"quicktransfer/internal/api"
	"quicktransfer/internal/errors"
	"quicktransfer/internal/log"

	"github.com/gobwas/glob"
)

// SentDir is the subdirectory of the drop folder uploaded files are moved to.
const SentDir = ".sent"

// DefaultIgnore matches partial downloads, editor backups and hidden files.
var DefaultIgnore = []string{".*", "*.part", "*.crdownload", "*.tmp", "*~"}

// Uploader sends files to the server.
type Uploader interface {
	Upload(ctx context.Context, dir string, files []api.UploadFile) (*api.UploadResult, error)
}

// Result describes one processed file.
type Result struct {
	Path  string
	Saved []string
	Err   error
}

// DropStatus represents the current state of a drop folder
type DropStatus struct {
	Running      bool
	Directory    string
	Target       string
	LastActivity time.Time
	Uploaded     int
	Failed       int
}

// Dropper uploads files dropped into a directory.
type Dropper struct {
	dir      string
	target   string
	uploader Uploader
	watcher  *Watcher
	ignore   []glob.Glob
	settle   time.Duration
	callback func(Result)

	mutex        sync.RWMutex
	running      bool
	uploaded     int
	failed       int
	lastActivity time.Time

	cancel context.CancelFunc
	done   chan struct{}
}

// DropOption configures a Dropper.
type DropOption func(*Dropper) error

// WithSettle sets how long a file must stay unchanged before it is sent.
func WithSettle(d time.Duration) DropOption {
	return func(dr *Dropper) error {
		dr.settle = d
		return nil
	}
}

// WithCallback registers a function called after every processed file.
func WithCallback(cb func(Result)) DropOption {
	return func(dr *Dropper) error {
		dr.callback = cb
		return nil
	}
}

// WithIgnore replaces the ignore patterns. Patterns match base names.
func WithIgnore(patterns ...string) DropOption {
	return func(dr *Dropper) error {
		compiled, err := compilePatterns(patterns)
		if err != nil {
			return err
		}
		dr.ignore = compiled
		return nil
	}
}

func compilePatterns(patterns []string) ([]glob.Glob, error) {
	compiled := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid ignore pattern %q", p)
		}
		compiled = append(compiled, g)
	}
	return compiled, nil
}

// NewDropper creates a drop folder for dir that uploads into the remote
// directory target.
func NewDropper(dir, target string, uploader Uploader, opts ...DropOption) (*Dropper, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.Wrap(err, "invalid drop directory")
	}
	ignore, err := compilePatterns(DefaultIgnore)
	if err != nil {
		return nil, err
	}

	d := &Dropper{
		dir:      abs,
		target:   target,
		uploader: uploader,
		ignore:   ignore,
		settle:   500 * time.Millisecond,
	}
	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Start watches the directory and sends any files already in it.
func (d *Dropper) Start(ctx context.Context) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if d.running {
		return errors.NewPrecondition("drop folder is already running")
	}

	if err := os.MkdirAll(filepath.Join(d.dir, SentDir), 0755); err != nil {
		return errors.Wrapf(err, "failed to create %s", SentDir)
	}

	watcher, err := NewWatcher(0)
	if err != nil {
		return err
	}
	if err := watcher.AddDirectory(d.dir); err != nil {
		watcher.Stop()
		return err
	}
	if err := watcher.Start(); err != nil {
		watcher.Stop()
		return errors.Wrap(err, "error starting watcher")
	}

	existing, err := d.scan()
	if err != nil {
		watcher.Stop()
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	d.watcher = watcher
	d.cancel = cancel
	d.done = make(chan struct{})
	d.running = true

	go d.process(ctx, existing)
	log.LogWithFields(log.F("directory", d.dir), log.F("target", d.target)).Info("Drop folder started")
	return nil
}

// Stop halts the drop folder and waits for an in-flight upload to end.
func (d *Dropper) Stop() {
	d.mutex.Lock()
	if !d.running {
		d.mutex.Unlock()
		return
	}
	d.running = false
	cancel, done, watcher := d.cancel, d.done, d.watcher
	d.mutex.Unlock()

	cancel()
	watcher.Stop()
	<-done
	log.Info("Drop folder stopped")
}

// Status returns counters for the drop folder.
func (d *Dropper) Status() DropStatus {
	d.mutex.RLock()
	defer d.mutex.RUnlock()
	return DropStatus{
		Running:      d.running,
		Directory:    d.dir,
		Target:       d.target,
		LastActivity: d.lastActivity,
		Uploaded:     d.uploaded,
		Failed:       d.failed,
	}
}

// scan lists files already waiting in the directory.
func (d *Dropper) scan() ([]string, error) {
	entries, err := os.ReadDir(d.dir)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read drop directory")
	}
	var paths []string
	for _, e := range entries {
		if e.Type().IsRegular() && !d.ignored(e.Name()) {
			paths = append(paths, filepath.Join(d.dir, e.Name()))
		}
	}
	return paths, nil
}

func (d *Dropper) ignored(name string) bool {
	for _, g := range d.ignore {
		if g.Match(name) {
			return true
		}
	}
	return false
}

// process collects events and sends each file once it has settled.
// Uploads run one after another on this goroutine.
func (d *Dropper) process(ctx context.Context, existing []string) {
	defer close(d.done)

	pending := make(map[string]time.Time)
	for _, p := range existing {
		pending[p] = time.Time{}
	}

	tick := d.settle / 2
	if tick <= 0 {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	events := d.watcher.Events()
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			if d.ignored(filepath.Base(ev.Path)) {
				continue
			}
			pending[ev.Path] = ev.Timestamp

		case now := <-ticker.C:
			var ready []string
			for p, seen := range pending {
				if now.Sub(seen) >= d.settle {
					ready = append(ready, p)
				}
			}
			sort.Strings(ready)
			for _, p := range ready {
				if ctx.Err() != nil {
					return
				}
				delete(pending, p)
				d.send(ctx, p)
			}

		case <-ctx.Done():
			return
		}
	}
}

// send uploads one file and moves it into SentDir on success.
func (d *Dropper) send(ctx context.Context, path string) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		// Already sent or removed by the user.
		return
	}

	result := Result{Path: path}
	defer func() {
		d.mutex.Lock()
		d.lastActivity = time.Now()
		if result.Err != nil {
			d.failed++
		} else {
			d.uploaded++
		}
		cb := d.callback
		d.mutex.Unlock()

		if result.Err != nil {
			log.LogWithFields(log.F("file", path), log.F("error", result.Err)).Warn("Drop upload failed")
		} else {
			log.LogWithFields(log.F("file", path), log.F("saved", result.Saved)).Info("Dropped file uploaded")
		}
		if cb != nil {
			cb(result)
		}
	}()

	f, err := os.Open(path)
	if err != nil {
		result.Err = err
		return
	}
	uploaded, err := d.uploader.Upload(ctx, d.target, []api.UploadFile{{Name: filepath.Base(path), Body: f}})
	f.Close()
	if err != nil {
		result.Err = err
		return
	}
	result.Saved = uploaded.Saved

	sent := filepath.Join(d.dir, SentDir, api.AvailableName(filepath.Join(d.dir, SentDir), filepath.Base(path)))
	if err := os.Rename(path, sent); err != nil {
		result.Err = errors.Wrapf(err, "uploaded but could not move to %s", SentDir)
	}
}
