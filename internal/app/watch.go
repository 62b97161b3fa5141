package app

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"go.trai.ch/maestro/internal/adapters/watcher"
	"golang.org/x/sync/errgroup"
)

// Watch builds once and then rebuilds whenever a file below the project root changes.
// The buildfile is reloaded for every build, so edits to it take effect immediately.
// Build failures are reported and watching continues; it stops when ctx is canceled.
func (a *App) Watch(ctx context.Context, opts RunOptions) error {
	s, err := a.build(ctx, opts)
	if s == nil {
		return err
	}
	a.report(ctx, err)

	ignored := newOutputSet(s.stateDir)
	ignored.update(s.maestro.Provides())

	if err := a.watcher.Start(ctx, s.root); err != nil {
		return err
	}
	a.logger.Info(fmt.Sprintf("watching %s for changes", s.root))

	trigger := make(chan struct{}, 1)
	debouncer := watcher.NewDebouncer(watcher.DefaultDebounceWindow, func(paths []string) {
		a.logger.Debug(fmt.Sprintf("%d path(s) changed: %s", len(paths), strings.Join(paths, ", ")))
		select {
		case trigger <- struct{}{}:
		default:
		}
	})

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		<-ctx.Done()
		return a.watcher.Stop()
	})

	g.Go(func() error {
		for event := range a.watcher.Events() {
			if ctx.Err() != nil {
				return nil
			}
			if ignored.contains(event.Path) {
				continue
			}
			a.logger.Debug(fmt.Sprintf("%s %s", event.Operation, event.Path))
			debouncer.Add(event.Path)
		}
		return nil
	})

	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-trigger:
				s, err := a.build(ctx, opts)
				a.report(ctx, err)
				if s != nil {
					ignored.update(s.maestro.Provides())
				}
			}
		}
	})

	return g.Wait()
}

// report logs errors the renderer has not shown already.
func (a *App) report(ctx context.Context, err error) {
	if err == nil || ctx.Err() != nil || IsBuildFailure(err) {
		return
	}
	a.logger.Error(err)
}

// outputSet holds the paths a build writes itself, so writing them does not retrigger it.
type outputSet struct {
	mu       sync.RWMutex
	stateDir string
	ids      map[string]struct{}
}

func newOutputSet(stateDir string) *outputSet {
	return &outputSet{stateDir: stateDir, ids: make(map[string]struct{})}
}

func (o *outputSet) update(ids []string) {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	o.mu.Lock()
	o.ids = set
	o.mu.Unlock()
}

// contains reports whether path is inside the state directory, an output, or the
// temporary file text targets write next to an output.
func (o *outputSet) contains(path string) bool {
	if rel, err := filepath.Rel(o.stateDir, path); err == nil && !strings.HasPrefix(rel, "..") {
		return true
	}

	o.mu.RLock()
	defer o.mu.RUnlock()
	for _, p := range []string{path, strings.TrimSuffix(path, ".tmp"), strings.TrimSuffix(path, ".out")} {
		if _, ok := o.ids[p]; ok {
			return true
		}
	}
	return false
}
