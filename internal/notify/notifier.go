// Package notify watches build outputs and translates settled artifact
// writes into reload notifications.
package notify

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.trai.ch/cinder/internal/core/domain"
	"go.trai.ch/cinder/internal/core/ports"
	"go.trai.ch/zerr"
)

// Notifier debounces output directory events and forwards one reload per
// settled artifact. Compilers often write an output in several bursts
// (truncate, write, rename); clients should see exactly one reload.
type Notifier struct {
	watcher  ports.Watcher
	reloader ports.Reloader
	logger   ports.Logger
	cfg      *domain.Config

	mu      sync.Mutex
	timers  map[string]*time.Timer
	stopped bool
}

// New creates a Notifier.
func New(
	watcher ports.Watcher,
	reloader ports.Reloader,
	logger ports.Logger,
	cfg *domain.Config,
) *Notifier {
	return &Notifier{
		watcher:  watcher,
		reloader: reloader,
		logger:   logger,
		cfg:      cfg,
		timers:   make(map[string]*time.Timer),
	}
}

// Start begins watching the output directory.
func (n *Notifier) Start(ctx context.Context) error {
	if err := n.watcher.Start(ctx, []string{n.cfg.OutputDir}); err != nil {
		return zerr.Wrap(err, domain.ErrWatcherStartFailed.Error())
	}

	go func() {
		for event := range n.watcher.Events() {
			n.OnOutput(event.Path)
		}
	}()

	return nil
}

// Stop cancels pending notifications and closes the watcher.
func (n *Notifier) Stop() error {
	n.mu.Lock()
	n.stopped = true
	for path, timer := range n.timers {
		timer.Stop()
		delete(n.timers, path)
	}
	n.mu.Unlock()

	return n.watcher.Stop()
}

// OnOutput registers a write to an output artifact. The notification fires
// once the artifact has been quiet for the settle window.
func (n *Notifier) OnOutput(path string) {
	canonical := domain.Canonicalize(path)
	if n.suppressed(canonical) {
		return
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if n.stopped {
		return
	}

	if timer, ok := n.timers[canonical]; ok {
		timer.Stop()
	}
	n.timers[canonical] = time.AfterFunc(n.cfg.OutputSettle, func() {
		n.emit(canonical)
	})
}

// suppressed filters artifacts that must never trigger a reload: hidden
// and underscore-prefixed scratch files, plus configured extensions such
// as source maps.
func (n *Notifier) suppressed(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") || strings.HasPrefix(base, "_") {
		return true
	}
	return n.cfg.ExcludesExt(filepath.Ext(path))
}

func (n *Notifier) emit(path string) {
	n.mu.Lock()
	delete(n.timers, path)
	stopped := n.stopped
	n.mu.Unlock()
	if stopped {
		return
	}

	kind := domain.ReloadFull
	if filepath.Ext(path) == ".css" {
		kind = domain.ReloadCSS
	}

	n.logger.Info(fmt.Sprintf("notifying %s reload for %s", kind, path))
	n.reloader.Emit(kind, path)
}
