// Package glob implements source enumeration with doublestar patterns.
package glob

import (
	"os"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"go.trai.ch/cinder/internal/core/domain"
	"go.trai.ch/cinder/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Globber = (*Globber)(nil)

// Globber expands `**`-style patterns relative to a root directory.
type Globber struct{}

// New creates a Globber.
func New() *Globber {
	return &Globber{}
}

// Glob returns the canonical absolute paths of all files under root
// matching any of the patterns. Matches are deduplicated and sorted;
// directories are never returned.
func (g *Globber) Glob(root string, patterns []string) ([]string, error) {
	fsys := os.DirFS(root)
	seen := make(map[string]struct{})

	for _, pattern := range patterns {
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrGlobFailed.Error()), "pattern", pattern)
		}
		for _, match := range matches {
			canonical := domain.Canonicalize(filepath.Join(root, match))
			seen[canonical] = struct{}{}
		}
	}

	files := make([]string, 0, len(seen))
	for path := range seen {
		files = append(files, path)
	}
	slices.Sort(files)

	return files, nil
}
