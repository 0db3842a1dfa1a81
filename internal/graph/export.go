package graph

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"go.trai.ch/zerr"
)

// Export writes a deterministic text rendering of the graph, with paths
// shown relative to root. Nodes and edges are sorted, so two exports of
// the same graph are byte-identical.
func (s *Store) Export(w io.Writer, root string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	paths := make([]string, 0, len(s.nodes))
	for path := range s.nodes {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	var b strings.Builder
	fmt.Fprintf(&b, "%d tracked file(s)\n", len(paths))

	for _, path := range paths {
		n := s.nodes[path]
		fmt.Fprintf(&b, "\n%s\n", relTo(root, path))
		writeEdgeSet(&b, "uses", root, n.Uses)
		writeEdgeSet(&b, "imported by", root, n.Importers)
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return zerr.Wrap(err, "failed to write graph export")
	}
	return nil
}

func writeEdgeSet(b *strings.Builder, label, root string, set map[string]struct{}) {
	if len(set) == 0 {
		fmt.Fprintf(b, "  %s: (none)\n", label)
		return
	}

	edges := make([]string, 0, len(set))
	for path := range set {
		edges = append(edges, relTo(root, path))
	}
	sort.Strings(edges)

	fmt.Fprintf(b, "  %s:\n", label)
	for _, edge := range edges {
		fmt.Fprintf(b, "    %s\n", edge)
	}
}

func relTo(root, path string) string {
	rel, err := filepath.Rel(root, filepath.FromSlash(path))
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}
