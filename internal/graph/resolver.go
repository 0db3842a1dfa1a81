package graph

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.trai.ch/cinder/internal/core/domain"
)

// resolutionCacheSize bounds the memoized specifier resolutions. Identical
// import strings recur heavily across a codebase, so the cache is sized well
// above what a large project needs.
const resolutionCacheSize = 4096

// resolution is a cached resolver outcome. Negative outcomes are cached too,
// so repeated probing for a missing partial costs one lookup.
type resolution struct {
	path string
	ok   bool
}

// Resolver turns a raw import specifier plus a base directory into a
// canonical file path, or reports it unresolved.
type Resolver struct {
	loadPath string
	cache    *lru.Cache[string, resolution]
}

// NewResolver creates a Resolver. loadPath is the package-root directory
// bare specifiers are retried against; empty disables the retry.
func NewResolver(loadPath string) *Resolver {
	// Size is a constant well above zero; construction cannot fail.
	cache, _ := lru.New[string, resolution](resolutionCacheSize)
	return &Resolver{
		loadPath: loadPath,
		cache:    cache,
	}
}

// Resolve resolves a specifier against the importing file's directory.
// The second return value is false when no candidate file exists; that is
// an expected outcome, not an error.
func (r *Resolver) Resolve(baseDir, specifier string) (string, bool) {
	key := baseDir + "\x00" + specifier
	if res, ok := r.cache.Get(key); ok {
		return res.path, res.ok
	}

	path, ok := r.resolve(baseDir, specifier)
	r.cache.Add(key, resolution{path: path, ok: ok})
	return path, ok
}

// ClearCache drops all memoized resolutions. Called before a full rebuild,
// since files may have appeared or vanished since the last scan.
func (r *Resolver) ClearCache() {
	r.cache.Purge()
}

func (r *Resolver) resolve(baseDir, specifier string) (string, bool) {
	spec := filepath.FromSlash(specifier)

	if filepath.IsAbs(spec) {
		if path, ok := probeCandidates(filepath.Dir(spec), filepath.Base(spec)); ok {
			return path, true
		}
		return "", false
	}

	dir, name := filepath.Split(spec)
	if path, ok := probeCandidates(filepath.Join(baseDir, dir), name); ok {
		return path, true
	}

	// Bare specifiers get a second chance rooted at the package root.
	if r.loadPath != "" && !isRelative(specifier) {
		if path, ok := probeCandidates(filepath.Join(r.loadPath, dir), name); ok {
			return path, true
		}
	}

	return "", false
}

func isRelative(specifier string) bool {
	return strings.HasPrefix(specifier, "./") || strings.HasPrefix(specifier, "../")
}

// probeCandidates builds the ordered candidate list for a specifier name and
// returns the first candidate that exists as a readable regular file.
func probeCandidates(dir, name string) (string, bool) {
	var candidates []string

	ext := strings.ToLower(filepath.Ext(name))
	if ext == ".scss" || ext == ".sass" {
		// Explicit extension: probe as written, then the partial variant.
		candidates = []string{name, "_" + name}
	} else {
		candidates = []string{
			name + ".scss",
			name + ".sass",
			"_" + name + ".scss",
			"_" + name + ".sass",
			filepath.Join(name, "_index.scss"),
			filepath.Join(name, "_index.sass"),
			filepath.Join(name, "index.scss"),
			filepath.Join(name, "index.sass"),
		}
	}

	for _, candidate := range candidates {
		path := filepath.Join(dir, candidate)
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		f, err := os.Open(path) //nolint:gosec // Probing project-local source files
		if err != nil {
			continue
		}
		_ = f.Close()
		return domain.Canonicalize(path), true
	}

	return "", false
}

// importStmtRe matches the clause of an @import, @use or @forward statement.
// A clause ends at a semicolon or at end of line, so indented-syntax files
// without terminators parse statement by statement; lines ending in a comma
// continue the clause (multi-line @import lists).
var importStmtRe = regexp.MustCompile(`@(?:import|use|forward)[ \t]+((?:[^;\n]*,[ \t]*\n)*[^;\n]*)`)

// quotedRe extracts double- or single-quoted specifiers from a clause.
var quotedRe = regexp.MustCompile(`"([^"]+)"|'([^']+)'`)

// clauseTerminators cut a statement clause before trailing modifier clauses,
// whose quoted strings are configuration, not import paths.
var clauseTerminators = []string{" as ", " with ", " show ", " hide "}

// parseImports extracts the raw import specifiers from stylesheet content.
// Built-in sass: modules and remote URLs are not file imports and are
// skipped outright.
func parseImports(content []byte) []string {
	var specifiers []string

	for _, stmt := range importStmtRe.FindAllSubmatch(content, -1) {
		clause := string(stmt[1])
		for _, term := range clauseTerminators {
			if idx := strings.Index(clause, term); idx >= 0 {
				clause = clause[:idx]
			}
		}
		if strings.Contains(clause, "url(") {
			continue
		}

		for _, m := range quotedRe.FindAllStringSubmatch(clause, -1) {
			spec := m[1]
			if spec == "" {
				spec = m[2]
			}
			if spec == "" ||
				strings.HasPrefix(spec, "sass:") ||
				strings.HasPrefix(spec, "http://") ||
				strings.HasPrefix(spec, "https://") {
				continue
			}
			specifiers = append(specifiers, spec)
		}
	}

	return specifiers
}
