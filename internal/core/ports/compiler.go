// Package ports defines the core interfaces for the application.
package ports

import "context"

// Compiler defines the interface for compiling a single source file.
// Implementations are external black boxes (sass, esbuild, a copier);
// the core only cares about per-file success or failure.
//
//go:generate mockgen -source=compiler.go -destination=mocks/mock_compiler.go -package=mocks
type Compiler interface {
	// Compile compiles the source file at path into the output tree.
	// It returns an error if the compilation fails; the error carries the
	// compiler's diagnostics.
	Compile(ctx context.Context, path string) error
}
