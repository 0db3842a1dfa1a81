package ports

// Globber defines the interface for enumerating files by glob pattern.
//
//go:generate mockgen -source=globber.go -destination=mocks/mock_globber.go -package=mocks
type Globber interface {
	// Glob expands the given patterns relative to root and returns the
	// matching file paths, deduplicated and sorted. A pattern with zero
	// matches is not an error.
	Glob(root string, patterns []string) ([]string, error)
}
