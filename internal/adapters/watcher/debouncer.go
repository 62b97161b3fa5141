// Package watcher implements file system watching for rebuild-on-change.
package watcher

import (
	"maps"
	"slices"
	"sync"
	"time"
)

// DefaultDebounceWindow is the quiet period after the last event before a rebuild starts.
const DefaultDebounceWindow = 200 * time.Millisecond

// Debouncer collects changed paths and hands them to a callback, sorted and without
// duplicates, once no new path has arrived for the length of the window.
type Debouncer struct {
	window time.Duration
	notify func(paths []string)

	mu      sync.Mutex
	changed map[string]struct{}
	timer   *time.Timer
}

// NewDebouncer creates a Debouncer. A nil notify drops every batch.
func NewDebouncer(window time.Duration, notify func(paths []string)) *Debouncer {
	return &Debouncer{
		window:  window,
		notify:  notify,
		changed: make(map[string]struct{}),
	}
}

// Add records path and restarts the window.
func (d *Debouncer) Add(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.changed[path] = struct{}{}
	if d.timer == nil {
		d.timer = time.AfterFunc(d.window, d.elapsed)
		return
	}
	d.timer.Reset(d.window)
}

func (d *Debouncer) elapsed() {
	d.mu.Lock()
	d.timer = nil
	batch := d.takeLocked()
	d.mu.Unlock()

	d.send(batch)
}

// Flush delivers the pending batch now and waits for the callback. When the window has
// already elapsed the timer owns the batch and Flush does nothing.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.timer != nil && !d.timer.Stop() {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	batch := d.takeLocked()
	d.mu.Unlock()

	d.send(batch)
}

func (d *Debouncer) takeLocked() []string {
	if len(d.changed) == 0 {
		return nil
	}
	batch := slices.Sorted(maps.Keys(d.changed))
	clear(d.changed)
	return batch
}

func (d *Debouncer) send(batch []string) {
	if len(batch) == 0 || d.notify == nil {
		return
	}
	d.notify(batch)
}
