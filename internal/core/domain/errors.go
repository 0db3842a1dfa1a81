package domain

import "go.trai.ch/zerr"

var (
	// ErrConfigNotFound is returned when no cinder.yaml can be found.
	ErrConfigNotFound = zerr.New("could not find cinder.yaml")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrInvalidDebounce is returned when the configured debounce interval is negative.
	ErrInvalidDebounce = zerr.New("debounce interval must not be negative")

	// ErrNoSourcePatterns is returned when no category defines any source pattern.
	ErrNoSourcePatterns = zerr.New("no source patterns configured")

	// ErrSourceReadFailed is returned when a source file cannot be read.
	ErrSourceReadFailed = zerr.New("failed to read source file")

	// ErrGlobFailed is returned when a glob pattern cannot be expanded.
	ErrGlobFailed = zerr.New("failed to expand glob pattern")

	// ErrCompilerNotFound is returned when no compiler is registered for a category.
	ErrCompilerNotFound = zerr.New("no compiler for category")

	// ErrCompileFailed is returned when a compiler invocation fails.
	ErrCompileFailed = zerr.New("compilation failed")

	// ErrBuildHadFailures is returned when a build completes with recorded per-file failures.
	ErrBuildHadFailures = zerr.New("build completed with failures")

	// ErrWatcherStartFailed is returned when the file system watcher cannot be started.
	ErrWatcherStartFailed = zerr.New("failed to start file watcher")
)
