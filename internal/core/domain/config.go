package domain

import "time"

// ConfigFileName is the name of the configuration file cinder looks for.
const ConfigFileName = "cinder.yaml"

const (
	// DefaultDebounce is the settle window for source change events.
	// Editors write files in bursts (atomic saves, formatters); a change is
	// only dispatched once its path has been quiet for this long.
	DefaultDebounce = 300 * time.Millisecond

	// DefaultOutputSettle is the settle window for compiled-output events.
	// Tuned to detect write completion rather than editor bursts.
	DefaultOutputSettle = 100 * time.Millisecond

	// DefaultLivereloadAddr is the address the reload hub listens on.
	DefaultLivereloadAddr = ":35729"

	// DefaultOutputDir is the compiled-output directory.
	DefaultOutputDir = "dist"
)

// PrivateFilePerm is the permission for files cinder writes.
const PrivateFilePerm = 0o600

// CategoryConfig holds the per-category source configuration.
type CategoryConfig struct {
	// Patterns are glob patterns, relative to the project root, that
	// enumerate this category's source files.
	Patterns []string
	// SrcRoot is the directory source-relative output paths are computed
	// against.
	SrcRoot string
	// Command is the compiler invocation, argv style. Empty means the
	// built-in default for the category.
	Command []string
}

// Config is the validated project configuration.
// It is owned by the config loader; the core only reads it.
type Config struct {
	// Root is the absolute project root directory.
	Root string

	// Styles, Scripts and Markup describe the three source categories.
	Styles  CategoryConfig
	Scripts CategoryConfig
	Markup  CategoryConfig

	// LoadPath is the package-root directory bare Sass specifiers are
	// retried against (typically node_modules).
	LoadPath string

	// WatchRoots are the directories watched for source changes.
	WatchRoots []string
	// IgnoreGlobs are patterns whose matches never trigger a rebuild.
	IgnoreGlobs []string
	// Debounce is the per-path settle window for source events.
	Debounce time.Duration

	// OutputDir is the compiled-output directory, absolute.
	OutputDir string
	// OutputSettle is the per-path settle window for output events.
	OutputSettle time.Duration
	// ExcludedExts are output extensions that must never notify a client.
	ExcludedExts []string

	// LivereloadAddr is the listen address of the reload hub.
	LivereloadAddr string
}

// PatternsFor returns the glob patterns for a category.
func (c *Config) PatternsFor(cat Category) []string {
	switch cat {
	case CategoryStyle:
		return c.Styles.Patterns
	case CategoryScript:
		return c.Scripts.Patterns
	case CategoryMarkup:
		return c.Markup.Patterns
	case CategoryUnknown:
		return nil
	default:
		return nil
	}
}

// CategoryConfigFor returns the configuration for a category.
func (c *Config) CategoryConfigFor(cat Category) CategoryConfig {
	switch cat {
	case CategoryStyle:
		return c.Styles
	case CategoryScript:
		return c.Scripts
	case CategoryMarkup:
		return c.Markup
	case CategoryUnknown:
		return CategoryConfig{}
	default:
		return CategoryConfig{}
	}
}

// ExcludesExt reports whether an output extension is in the exclusion set.
func (c *Config) ExcludesExt(ext string) bool {
	for _, e := range c.ExcludedExts {
		if e == ext {
			return true
		}
	}
	return false
}
