// Package dispatcher runs category builds with per-file failure isolation.
package dispatcher

import (
	"context"
	"fmt"
	"sync"

	"go.trai.ch/cinder/internal/core/domain"
	"go.trai.ch/cinder/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// FileStatus is the recorded outcome of one compiler invocation.
type FileStatus struct {
	Path     string
	Category domain.Category
	Err      error
}

// Result aggregates the per-file outcomes of a build.
type Result struct {
	Files []FileStatus
}

// Attempted returns how many files the build attempted.
func (r *Result) Attempted() int {
	return len(r.Files)
}

// Failures returns the files whose compilation failed.
func (r *Result) Failures() []FileStatus {
	var failed []FileStatus
	for _, f := range r.Files {
		if f.Err != nil {
			failed = append(failed, f)
		}
	}
	return failed
}

// OK reports whether zero per-file failures were recorded.
func (r *Result) OK() bool {
	return len(r.Failures()) == 0
}

// Err returns nil for a clean build, or an aggregate error carrying the
// failure count. Per-file errors remain available via Failures. The
// sentinel stays in the cause chain so callers can match it with errors.Is.
func (r *Result) Err() error {
	failed := len(r.Failures())
	if failed == 0 {
		return nil
	}
	return zerr.Wrap(domain.ErrBuildHadFailures,
		fmt.Sprintf("%d of %d file(s) failed", failed, len(r.Files)))
}

// Dispatcher compiles source files through per-category compiler adapters.
//
// Categories have no ordering dependency and build concurrently. Within a
// category every matched file is attempted even when earlier files fail:
// each invocation is isolated, its error recorded against the file, and
// siblings continue. This is a deliberate partial-failure contract, not a
// fail-fast one.
type Dispatcher struct {
	compilers map[domain.Category]ports.Compiler
	globber   ports.Globber
	logger    ports.Logger
	cfg       *domain.Config
}

// New creates a Dispatcher.
func New(
	compilers map[domain.Category]ports.Compiler,
	globber ports.Globber,
	logger ports.Logger,
	cfg *domain.Config,
) *Dispatcher {
	return &Dispatcher{
		compilers: compilers,
		globber:   globber,
		logger:    logger,
		cfg:       cfg,
	}
}

// BuildAll enumerates every category's matched files and compiles all of
// them, categories in parallel.
func (d *Dispatcher) BuildAll(ctx context.Context) (*Result, error) {
	var mu sync.Mutex
	combined := &Result{}

	g, gctx := errgroup.WithContext(ctx)
	for _, cat := range domain.Categories() {
		g.Go(func() error {
			patterns := d.cfg.PatternsFor(cat)
			if len(patterns) == 0 {
				return nil
			}

			files, err := d.globber.Glob(d.cfg.Root, patterns)
			if err != nil {
				return zerr.With(zerr.Wrap(err, "failed to enumerate sources"),
					"category", cat.String())
			}

			res := d.BuildFiles(gctx, cat, files)
			mu.Lock()
			combined.Files = append(combined.Files, res.Files...)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return combined, nil
}

// BuildFiles compiles exactly the given files of one category, recording
// success or failure per file.
func (d *Dispatcher) BuildFiles(ctx context.Context, cat domain.Category, paths []string) *Result {
	res := &Result{Files: make([]FileStatus, 0, len(paths))}

	compiler, ok := d.compilers[cat]
	for _, path := range paths {
		var err error
		if !ok {
			err = zerr.With(zerr.Wrap(domain.ErrCompilerNotFound, "cannot compile file"),
				"category", cat.String())
		} else {
			err = d.compileOne(ctx, compiler, path)
		}

		if err != nil {
			d.logger.Error(zerr.With(zerr.Wrap(err, "failed to compile file"), "path", path))
		}
		res.Files = append(res.Files, FileStatus{Path: path, Category: cat, Err: err})
	}

	return res
}

// compileOne invokes the compiler for a single file, converting a panic in
// the adapter into a recorded per-file error so siblings are never aborted.
func (d *Dispatcher) compileOne(ctx context.Context, compiler ports.Compiler, path string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = zerr.With(zerr.Wrap(domain.ErrCompileFailed, "compiler panicked"),
				"panic", fmt.Sprintf("%v", r))
		}
	}()
	return compiler.Compile(ctx, path)
}
