package config

// File represents the structure of the cinder.yaml configuration file.
type File struct {
	Version    string       `yaml:"version"`
	Root       string       `yaml:"root"`
	Styles     *CategoryDTO `yaml:"styles"`
	Scripts    *CategoryDTO `yaml:"scripts"`
	Markup     *CategoryDTO `yaml:"markup"`
	LoadPath   string       `yaml:"loadPath"`
	Watch      WatchDTO     `yaml:"watch"`
	Output     OutputDTO    `yaml:"output"`
	Livereload LiveDTO      `yaml:"livereload"`
}

// CategoryDTO describes one source category.
type CategoryDTO struct {
	Patterns []string `yaml:"patterns"`
	SrcRoot  string   `yaml:"srcRoot"`
	Command  []string `yaml:"command"`
}

// WatchDTO describes the watch section.
type WatchDTO struct {
	Roots      []string `yaml:"roots"`
	Ignore     []string `yaml:"ignore"`
	DebounceMs int      `yaml:"debounceMs"`
}

// OutputDTO describes the output section.
type OutputDTO struct {
	Dir         string   `yaml:"dir"`
	SettleMs    int      `yaml:"settleMs"`
	ExcludeExts []string `yaml:"excludeExts"`
}

// LiveDTO describes the livereload section.
type LiveDTO struct {
	Addr string `yaml:"addr"`
}
