package watcher

import (
	"context"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/maestro/internal/core/domain"
	"go.trai.ch/maestro/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Watcher = (*Watcher)(nil)

// skippedDirectories are never watched.
var skippedDirectories = []string{".git", ".jj", "node_modules", domain.StateDirName}

const eventChannelBuffer = 100

// Watcher implements ports.Watcher using fsnotify.
// The underlying watcher is created by Start, so an unused Watcher holds no descriptors.
type Watcher struct {
	logger ports.Logger
	skip   map[string]bool

	mu        sync.Mutex
	fsWatcher *fsnotify.Watcher
	events    chan ports.WatchEvent
}

// NewWatcher creates a watcher. Directories named in skip are ignored in addition to the defaults.
func NewWatcher(logger ports.Logger, skip ...string) *Watcher {
	s := make(map[string]bool, len(skippedDirectories)+len(skip))
	for _, k := range slices.Concat(skippedDirectories, skip) {
		s[k] = true
	}
	return &Watcher{
		logger: logger,
		skip:   s,
		events: make(chan ports.WatchEvent, eventChannelBuffer),
	}
}

// Start begins watching root and every directory below it.
// Events stop when ctx is canceled or Stop is called.
func (w *Watcher) Start(ctx context.Context, root string) error {
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return zerr.With(domain.ErrWatchFailed, "path", root)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return zerr.Wrap(err, domain.ErrWatchFailed.Error())
	}

	for dir := range w.directories(root) {
		if err := fw.Add(dir); err != nil {
			_ = fw.Close()
			return zerr.With(zerr.Wrap(err, domain.ErrWatchFailed.Error()), "path", dir)
		}
	}

	w.mu.Lock()
	w.fsWatcher = fw
	w.mu.Unlock()

	go w.processEvents(ctx, fw)
	return nil
}

// Stop releases the underlying watcher.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fsWatcher == nil {
		return nil
	}
	err := w.fsWatcher.Close()
	w.fsWatcher = nil
	return err
}

// Events returns an iterator over file system events. It ends when the watcher stops.
func (w *Watcher) Events() iter.Seq[ports.WatchEvent] {
	return func(yield func(ports.WatchEvent) bool) {
		for event := range w.events {
			if !yield(event) {
				return
			}
		}
	}
}

func (w *Watcher) directories(root string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil //nolint:nilerr // unreadable directories are not watched
			}
			if !d.IsDir() {
				return nil
			}
			if path != root && w.skip[d.Name()] {
				return fs.SkipDir
			}
			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

func (w *Watcher) processEvents(ctx context.Context, fw *fsnotify.Watcher) {
	defer close(w.events)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fw.Events:
			if !ok {
				return
			}
			ev, ok := convertEvent(event)
			if !ok || w.skipped(ev.Path) {
				continue
			}

			select {
			case w.events <- ev:
			case <-ctx.Done():
				return
			}

			if ev.Operation == ports.OpCreate {
				if info, err := os.Stat(ev.Path); err == nil && info.IsDir() {
					for dir := range w.directories(ev.Path) {
						_ = fw.Add(dir)
					}
				}
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher: " + err.Error())
		}
	}
}

// skipped reports whether any element of path names a skipped directory.
func (w *Watcher) skipped(path string) bool {
	for dir := filepath.Dir(path); ; dir = filepath.Dir(dir) {
		if w.skip[filepath.Base(dir)] {
			return true
		}
		if parent := filepath.Dir(dir); parent == dir {
			return false
		}
	}
}

func convertEvent(event fsnotify.Event) (ports.WatchEvent, bool) {
	var op ports.WatchOp
	switch {
	case event.Has(fsnotify.Write):
		op = ports.OpWrite
	case event.Has(fsnotify.Create):
		op = ports.OpCreate
	case event.Has(fsnotify.Remove):
		op = ports.OpRemove
	case event.Has(fsnotify.Rename):
		op = ports.OpRename
	default:
		return ports.WatchEvent{}, false
	}
	return ports.WatchEvent{Path: event.Name, Operation: op}, true
}
