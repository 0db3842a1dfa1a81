// Package graph tracks import relationships between stylesheet source
// modules and answers which entry points a single-file change affects.
package graph

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/cinder/internal/core/domain"
	"go.trai.ch/cinder/internal/core/ports"
)

// Node is a single file in the dependency graph. Both edge sets hold
// canonical paths.
type Node struct {
	Path string
	// Importers are the files that import, use or forward this file.
	Importers map[string]struct{}
	// Uses are the files this file imports, uses or forwards.
	Uses map[string]struct{}
}

// importEntry memoizes the parsed specifiers of one file together with a
// content fingerprint, so unchanged content is never re-scanned.
type importEntry struct {
	specifiers []string
	sum        uint64
}

// Store holds the dependency graph and its memoization caches.
//
// Mutation follows a single-writer discipline: every write path (bulk
// build, repair, incremental update) serializes on mu. Readers take the
// read lock and therefore never observe a partially repaired graph.
type Store struct {
	mu       sync.RWMutex
	nodes    map[string]*Node
	imports  map[string]importEntry
	resolver *Resolver
	logger   ports.Logger
}

// NewStore creates an empty Store backed by the given resolver.
func NewStore(resolver *Resolver, logger ports.Logger) *Store {
	return &Store{
		nodes:    make(map[string]*Node),
		imports:  make(map[string]importEntry),
		resolver: resolver,
		logger:   logger,
	}
}

// Len returns the number of tracked files.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.nodes)
}

// Lookup returns a copy of the node for the given path, if tracked.
// The copy shares no state with the store.
func (s *Store) Lookup(path string) (Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.nodes[domain.Canonicalize(path)]
	if !ok {
		return Node{}, false
	}
	return n.clone(), true
}

func (n *Node) clone() Node {
	c := Node{
		Path:      n.Path,
		Importers: make(map[string]struct{}, len(n.Importers)),
		Uses:      make(map[string]struct{}, len(n.Uses)),
	}
	for k := range n.Importers {
		c.Importers[k] = struct{}{}
	}
	for k := range n.Uses {
		c.Uses[k] = struct{}{}
	}
	return c
}

// node returns the node for a canonical path, creating it lazily.
// Callers must hold the write lock.
func (s *Store) node(path string) *Node {
	n, ok := s.nodes[path]
	if !ok {
		n = &Node{
			Path:      path,
			Importers: make(map[string]struct{}),
			Uses:      make(map[string]struct{}),
		}
		s.nodes[path] = n
	}
	return n
}

// clearLocked discards all nodes and memoized resolutions. The import
// cache survives: content that has not changed needs no re-parse on the
// next build. Callers must hold the write lock.
func (s *Store) clearLocked() {
	s.nodes = make(map[string]*Node)
	s.resolver.ClearCache()
}

// ingestLocked reads one file and records its forward and reverse edges,
// lazily creating nodes at either endpoint. An unresolvable specifier is
// logged and its edge omitted; an unreadable file is logged and skipped.
// Callers must hold the write lock.
func (s *Store) ingestLocked(path string) {
	content, err := os.ReadFile(path) //nolint:gosec // Project-local source file
	if err != nil {
		if os.IsNotExist(err) {
			// Vanished between detection and ingestion; treated as deletion.
			return
		}
		s.logger.Warn(fmt.Sprintf("skipping unreadable file %s: %v", path, err))
		return
	}

	sum := xxhash.Sum64(content)
	entry, ok := s.imports[path]
	if !ok || entry.sum != sum {
		entry = importEntry{specifiers: parseImports(content), sum: sum}
		s.imports[path] = entry
	}

	n := s.node(path)
	baseDir := filepath.Dir(filepath.FromSlash(path))

	for _, spec := range entry.specifiers {
		resolved, ok := s.resolver.Resolve(baseDir, spec)
		if !ok {
			s.logger.Warn(fmt.Sprintf("unresolved import %q in %s", spec, path))
			continue
		}
		n.Uses[resolved] = struct{}{}
		s.node(resolved).Importers[path] = struct{}{}
	}
}

// repairLocked scans every recorded edge and synthesizes missing
// reciprocals, including nodes for referenced-but-unscanned files. The
// pass is idempotent; it returns the number of entries it fixed.
// Callers must hold the write lock.
func (s *Store) repairLocked() int {
	fixes := 0

	// Collect paths first: node() mutates the map we iterate.
	paths := make([]string, 0, len(s.nodes))
	for path := range s.nodes {
		paths = append(paths, path)
	}

	for _, path := range paths {
		n := s.nodes[path]
		for used := range n.Uses {
			target := s.node(used)
			if _, ok := target.Importers[path]; !ok {
				target.Importers[path] = struct{}{}
				fixes++
			}
		}
		for importer := range n.Importers {
			source := s.node(importer)
			if _, ok := source.Uses[path]; !ok {
				source.Uses[path] = struct{}{}
				fixes++
			}
		}
	}

	return fixes
}
