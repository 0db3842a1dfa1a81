package graph

import "go.trai.ch/cinder/internal/core/domain"

// UpdateFile re-ingests a single changed or deleted file without a full
// rebuild.
//
// The node is detached from every file it used, deleted along with its
// import cache entry, and re-ingested with freshly parsed edges. A file
// deleted from disk simply stays removed. Files that previously imported
// this one keep their forward edges; the reverse edges are restored after
// re-ingestion so the symmetry invariant holds without a full repair pass.
//
// The returned set contains the files whose edges changed as a side
// effect, for callers that want to react beyond impact resolution.
func (s *Store) UpdateFile(path string) map[string]struct{} {
	canonical := domain.Canonicalize(path)

	s.mu.Lock()
	defer s.mu.Unlock()

	affected := make(map[string]struct{})
	var importers []string

	if n, ok := s.nodes[canonical]; ok {
		for imp := range n.Importers {
			importers = append(importers, imp)
		}
		for used := range n.Uses {
			if target, ok := s.nodes[used]; ok {
				delete(target.Importers, canonical)
			}
			affected[used] = struct{}{}
		}
		delete(s.nodes, canonical)
		delete(s.imports, canonical)
	}

	s.ingestLocked(canonical)

	// Reattach surviving reverse edges from former importers.
	if n, ok := s.nodes[canonical]; ok {
		for _, imp := range importers {
			if source, ok := s.nodes[imp]; ok {
				if _, uses := source.Uses[canonical]; uses {
					n.Importers[imp] = struct{}{}
				}
			}
		}
	}

	return affected
}
