package graph

import (
	"fmt"
	"sort"

	"go.trai.ch/cinder/internal/core/domain"
)

// ParentFiles computes the entry-point files that must be rebuilt after a
// change to the given file.
//
// Traversal is an iterative breadth-first walk over importer edges with an
// explicit visited set; partial-to-partial cycles are possible and must not
// recurse. A path absent from the store is a normal transient state (for
// example the very first change event before any build completed) and
// yields an empty result, as does a chain of partials that no true entry
// point ever imports.
func (s *Store) ParentFiles(path string) []string {
	canonical := domain.Canonicalize(path)

	s.mu.RLock()
	defer s.mu.RUnlock()

	start, ok := s.nodes[canonical]
	if !ok {
		s.logger.Info(fmt.Sprintf("path not tracked in graph, nothing to rebuild: %s", canonical))
		return nil
	}

	entries := make(map[string]struct{})
	visited := map[string]struct{}{canonical: {}}
	queue := []*Node{start}

	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]

		if len(n.Importers) == 0 {
			// An aggregator partial with no importers is never an entry
			// point, but other paths into its importers remain valid.
			if !domain.IsPartial(n.Path) {
				entries[n.Path] = struct{}{}
			}
			continue
		}

		for importer := range n.Importers {
			if _, seen := visited[importer]; seen {
				continue
			}
			visited[importer] = struct{}{}
			if imp, ok := s.nodes[importer]; ok {
				queue = append(queue, imp)
			}
		}
	}

	if len(entries) == 0 {
		s.logger.Info(fmt.Sprintf("no entry point imports %s, nothing to rebuild", canonical))
		return nil
	}

	result := make([]string, 0, len(entries))
	for path := range entries {
		result = append(result, path)
	}
	sort.Strings(result)
	return result
}
