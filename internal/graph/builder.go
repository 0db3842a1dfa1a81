package graph

import (
	"fmt"

	"go.trai.ch/cinder/internal/core/domain"
	"go.trai.ch/cinder/internal/core/ports"
	"go.trai.ch/zerr"
)

// Builder populates a Store from a glob-enumerated file set.
type Builder struct {
	store   *Store
	globber ports.Globber
	logger  ports.Logger
	root    string
}

// NewBuilder creates a Builder that scans patterns relative to root.
func NewBuilder(store *Store, globber ports.Globber, logger ports.Logger, root string) *Builder {
	return &Builder{
		store:   store,
		globber: globber,
		logger:  logger,
		root:    root,
	}
}

// Build rebuilds the graph from scratch for the given patterns.
//
// The store and the resolution cache are cleared first; the import cache is
// retained, so files whose content is unchanged are not re-parsed. After
// bulk ingestion a repair pass restores the importers/uses symmetry
// invariant for any edge recorded one-sided.
func (b *Builder) Build(patterns []string) error {
	files, err := b.globber.Glob(b.root, patterns)
	if err != nil {
		return zerr.Wrap(err, "failed to enumerate graph sources")
	}

	s := b.store
	s.mu.Lock()
	defer s.mu.Unlock()

	s.clearLocked()
	for _, file := range files {
		s.ingestLocked(domain.Canonicalize(file))
	}

	if fixes := s.repairLocked(); fixes > 0 {
		b.logger.Info(fmt.Sprintf("graph repair pass fixed %d edge(s)", fixes))
	}

	return nil
}
