// Package app implements the application layer for cinder.
package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.trai.ch/cinder/internal/adapters/compiler"
	"go.trai.ch/cinder/internal/adapters/livereload"
	"go.trai.ch/cinder/internal/core/domain"
	"go.trai.ch/cinder/internal/core/ports"
	"go.trai.ch/cinder/internal/engine/coordinator"
	"go.trai.ch/cinder/internal/engine/dispatcher"
	"go.trai.ch/cinder/internal/graph"
	"go.trai.ch/cinder/internal/notify"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	configLoader  ports.ConfigLoader
	globber       ports.Globber
	logger        ports.Logger
	sourceWatcher ports.Watcher
	outputWatcher ports.Watcher
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	globber ports.Globber,
	log ports.Logger,
	sourceWatcher ports.Watcher,
	outputWatcher ports.Watcher,
) *App {
	return &App{
		configLoader:  loader,
		globber:       globber,
		logger:        log,
		sourceWatcher: sourceWatcher,
		outputWatcher: outputWatcher,
	}
}

// session bundles the per-invocation components built from one loaded
// configuration.
type session struct {
	cfg        *domain.Config
	store      *graph.Store
	builder    *graph.Builder
	dispatcher *dispatcher.Dispatcher
}

// newSession loads the configuration and assembles the graph and build
// components around it.
func (a *App) newSession() (*session, error) {
	cfg, err := a.configLoader.Load(".")
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}

	store := graph.NewStore(graph.NewResolver(cfg.LoadPath), a.logger)

	return &session{
		cfg:        cfg,
		store:      store,
		builder:    graph.NewBuilder(store, a.globber, a.logger, cfg.Root),
		dispatcher: dispatcher.New(compiler.ForConfig(cfg, a.logger), a.globber, a.logger, cfg),
	}, nil
}

// buildGraph scans the style sources into the dependency graph. Only
// stylesheets carry import edges; other categories rebuild file for file.
func (s *session) buildGraph() error {
	if len(s.cfg.Styles.Patterns) == 0 {
		return nil
	}
	return s.builder.Build(s.cfg.Styles.Patterns)
}

// Build runs one full build across all categories.
func (a *App) Build(ctx context.Context) error {
	s, err := a.newSession()
	if err != nil {
		return err
	}

	res, err := s.dispatcher.BuildAll(ctx)
	if err != nil {
		return err
	}

	failed := len(res.Failures())
	a.logger.Info(fmt.Sprintf("built %d file(s), %d failed", res.Attempted(), failed))
	return res.Err()
}

// Graph rebuilds the dependency graph and writes its text export to w.
func (a *App) Graph(_ context.Context, w io.Writer) error {
	s, err := a.newSession()
	if err != nil {
		return err
	}

	if err := s.buildGraph(); err != nil {
		return err
	}

	return s.store.Export(w, s.cfg.Root)
}

// Watch runs an initial full build, then rebuilds on source changes and
// pushes reload notifications for settled outputs until ctx is canceled.
func (a *App) Watch(ctx context.Context) error {
	s, err := a.newSession()
	if err != nil {
		return err
	}

	if err := s.buildGraph(); err != nil {
		return err
	}

	// The initial build may fail partially; watching continues so the
	// developer can fix sources and see results immediately.
	res, err := s.dispatcher.BuildAll(ctx)
	if err != nil {
		return err
	}
	if failed := len(res.Failures()); failed > 0 {
		a.logger.Warn(fmt.Sprintf("initial build: %d of %d file(s) failed", failed, res.Attempted()))
	}

	hub := livereload.NewHub(s.cfg.LivereloadAddr, a.logger)
	if err := hub.Start(ctx); err != nil {
		return err
	}
	defer func() { _ = hub.Stop() }()

	coord := coordinator.New(s.store, s.dispatcher, a.sourceWatcher, a.logger, s.cfg)
	if err := coord.Start(ctx); err != nil {
		return err
	}
	defer func() { _ = coord.Stop() }()

	// The output directory must exist before it can be watched.
	if err := os.MkdirAll(s.cfg.OutputDir, 0o750); err != nil {
		return zerr.Wrap(err, "failed to create output directory")
	}

	notifier := notify.New(a.outputWatcher, hub, a.logger, s.cfg)
	if err := notifier.Start(ctx); err != nil {
		return err
	}
	defer func() { _ = notifier.Stop() }()

	a.logger.Info(fmt.Sprintf("watching %d root(s), tracking %d stylesheet(s)",
		len(s.cfg.WatchRoots), s.store.Len()))

	<-ctx.Done()
	return nil
}
