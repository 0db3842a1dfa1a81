package domain

import (
	"path/filepath"
	"strings"
)

// Canonicalize converts a path to its canonical form: absolute and
// forward-slash separated. Canonical paths are the sole key space of the
// dependency graph, so every path must pass through here before it touches
// graph state.
func Canonicalize(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return filepath.ToSlash(abs)
}

// IsPartial reports whether the file is a partial, i.e. a stylesheet
// fragment not meant for standalone compilation. Partials carry a leading
// underscore on the filename by convention.
func IsPartial(path string) bool {
	return strings.HasPrefix(filepath.Base(path), "_")
}
