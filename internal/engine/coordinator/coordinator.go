// Package coordinator consumes raw file system events, debounces them per
// path and routes settled changes to the build dispatcher.
package coordinator

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"go.trai.ch/cinder/internal/core/domain"
	"go.trai.ch/cinder/internal/core/ports"
	"go.trai.ch/cinder/internal/engine/dispatcher"
	"go.trai.ch/cinder/internal/graph"
	"go.trai.ch/zerr"
)

// Builder runs category builds for settled changes.
type Builder interface {
	BuildFiles(ctx context.Context, cat domain.Category, paths []string) *dispatcher.Result
}

// Coordinator owns the dependency graph's single logical writer. Every
// graph mutation triggered by a file event funnels through here; per-path
// debounce timers may fire concurrently, but the store serializes their
// writes internally.
type Coordinator struct {
	store   *graph.Store
	builder Builder
	watcher ports.Watcher
	logger  ports.Logger
	cfg     *domain.Config

	mu      sync.Mutex
	timers  map[string]*time.Timer
	stopped bool
}

// New creates a Coordinator.
func New(
	store *graph.Store,
	builder Builder,
	watcher ports.Watcher,
	logger ports.Logger,
	cfg *domain.Config,
) *Coordinator {
	return &Coordinator{
		store:   store,
		builder: builder,
		watcher: watcher,
		logger:  logger,
		cfg:     cfg,
		timers:  make(map[string]*time.Timer),
	}
}

// Start begins watching the configured roots and consuming events.
func (c *Coordinator) Start(ctx context.Context) error {
	if err := c.watcher.Start(ctx, c.cfg.WatchRoots); err != nil {
		return zerr.Wrap(err, domain.ErrWatcherStartFailed.Error())
	}

	go func() {
		for event := range c.watcher.Events() {
			c.OnChange(ctx, event.Path)
		}
	}()

	return nil
}

// Stop cancels all outstanding debounce timers and closes the watcher.
// Builds already dispatched run to completion.
func (c *Coordinator) Stop() error {
	c.mu.Lock()
	c.stopped = true
	for path, timer := range c.timers {
		timer.Stop()
		delete(c.timers, path)
	}
	c.mu.Unlock()

	return c.watcher.Stop()
}

// OnChange registers a raw change event for a path. Events for a path
// already pending cancel and restart that path's timer; a change is only
// dispatched once its path has been quiet for the debounce window.
func (c *Coordinator) OnChange(ctx context.Context, path string) {
	canonical := domain.Canonicalize(path)
	if c.ignored(canonical) {
		return
	}
	// Paths without an extension are directories or editor droppings, not
	// compilable sources.
	if filepath.Ext(canonical) == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return
	}

	if timer, ok := c.timers[canonical]; ok {
		timer.Stop()
	}
	c.timers[canonical] = time.AfterFunc(c.cfg.Debounce, func() {
		c.onSettled(ctx, canonical)
	})
}

func (c *Coordinator) ignored(path string) bool {
	rel, err := filepath.Rel(c.cfg.Root, filepath.FromSlash(path))
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)

	for _, pattern := range c.cfg.IgnoreGlobs {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

// onSettled runs once a path's timer elapses with no further events.
func (c *Coordinator) onSettled(ctx context.Context, path string) {
	c.mu.Lock()
	delete(c.timers, path)
	stopped := c.stopped
	c.mu.Unlock()
	if stopped {
		return
	}

	cat := domain.CategoryForPath(path)
	switch cat {
	case domain.CategoryStyle:
		c.dispatchStyle(ctx, path)
	case domain.CategoryScript, domain.CategoryMarkup:
		c.dispatch(ctx, cat, []string{path})
	default:
		c.logger.Warn(fmt.Sprintf("ignoring change to %s: unrecognized extension", path))
	}
}

// dispatchStyle re-ingests the changed stylesheet and rebuilds the entry
// points it affects. A partial rebuilds whatever imports it; an entry file
// rebuilds only itself. No transitive graph exists for other categories.
func (c *Coordinator) dispatchStyle(ctx context.Context, path string) {
	c.store.UpdateFile(path)

	targets := []string{path}
	if domain.IsPartial(path) {
		targets = c.store.ParentFiles(path)
		if len(targets) == 0 {
			return
		}
	}

	c.dispatch(ctx, domain.CategoryStyle, targets)
}

func (c *Coordinator) dispatch(ctx context.Context, cat domain.Category, targets []string) {
	c.logger.Info(fmt.Sprintf("rebuilding %d %s file(s)", len(targets), cat))
	res := c.builder.BuildFiles(ctx, cat, targets)
	if failed := len(res.Failures()); failed > 0 {
		c.logger.Warn(fmt.Sprintf("%d of %d %s file(s) failed to build", failed, res.Attempted(), cat))
	}
}
